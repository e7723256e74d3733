// Package snapshot defines the immutable inventory model handed to the
// dependency resolver. This is part of the Functional Core - the types here
// carry no behavior beyond lookups and validation, and a Snapshot is never
// mutated after collection.
package snapshot

import "time"

// =============================================================================
// Snapshot - Main Input Type
// =============================================================================

// Snapshot is a point-in-time capture of a container runtime's inventory.
// It is fully populated by the collection layer before resolution starts;
// the resolver issues no further queries.
type Snapshot struct {
	TakenAt         time.Time        `json:"taken_at,omitempty"`
	Containers      []ContainerNode  `json:"containers"`
	Volumes         []VolumeInfo     `json:"volumes,omitempty"`
	Networks        []NetworkInfo    `json:"networks,omitempty"`
	ComposeServices []ComposeService `json:"compose_services,omitempty"`
}

// =============================================================================
// Container Types
// =============================================================================

// ContainerNode is the normalized representation of one container.
type ContainerNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	// Status is the runtime state at capture time (running, exited, ...).
	Status string `json:"status,omitempty"`

	Environment map[string]string `json:"environment,omitempty"`
	Mounts      []VolumeMount     `json:"mounts,omitempty"`
	Networks    []NetworkMember   `json:"networks,omitempty"`
	Ports       []PortBinding     `json:"ports,omitempty"`

	// Links holds raw legacy link declarations from the runtime,
	// e.g. "/db:/web/db".
	Links []string `json:"links,omitempty"`

	// DependsOn holds startup dependencies declared through labels
	// (com.docker.compose.depends_on and friends), as container or
	// service names.
	DependsOn []string `json:"depends_on,omitempty"`

	ComposeProject string            `json:"compose_project,omitempty"`
	ComposeService string            `json:"compose_service,omitempty"`
	Labels         map[string]string `json:"labels,omitempty"`
}

// VolumeMount describes one mount on a container.
type VolumeMount struct {
	// Volume is the named volume, empty for bind mounts.
	Volume string `json:"volume,omitempty"`
	// Source is the host path for bind mounts.
	Source   string `json:"source,omitempty"`
	Target   string `json:"target"`
	ReadOnly bool   `json:"read_only"`
}

// NetworkMember describes a container's membership in one network.
type NetworkMember struct {
	Network string   `json:"network"`
	Aliases []string `json:"aliases,omitempty"`
}

// PortBinding describes one published port.
type PortBinding struct {
	ContainerPort int    `json:"container_port"`
	HostPort      int    `json:"host_port,omitempty"`
	Protocol      string `json:"protocol,omitempty"`
	HostIP        string `json:"host_ip,omitempty"`
}

// =============================================================================
// Resource Types
// =============================================================================

// VolumeInfo describes a named volume present in the inventory.
type VolumeInfo struct {
	Name   string `json:"name"`
	Driver string `json:"driver,omitempty"`
}

// NetworkInfo describes a network present in the inventory.
type NetworkInfo struct {
	Name     string `json:"name"`
	Driver   string `json:"driver,omitempty"`
	Internal bool   `json:"internal,omitempty"`
}

// =============================================================================
// Compose Metadata
// =============================================================================

// ComposeService is one already-parsed compose service definition.
// The resolver consumes these as-is; compose file discovery and parsing
// happen in the shell.
type ComposeService struct {
	Project     string   `json:"project,omitempty"`
	Name        string   `json:"name"`
	DependsOn   []string `json:"depends_on,omitempty"`
	Links       []string `json:"links,omitempty"`
	VolumesFrom []string `json:"volumes_from,omitempty"`
	Networks    []string `json:"networks,omitempty"`
}

// =============================================================================
// Lookups
// =============================================================================

// ContainerNames returns the set of container names in the snapshot.
func (s *Snapshot) ContainerNames() map[string]struct{} {
	names := make(map[string]struct{}, len(s.Containers))
	for _, c := range s.Containers {
		if c.Name != "" {
			names[c.Name] = struct{}{}
		}
	}
	return names
}

// ContainerByService maps (compose project, compose service) pairs to
// container names. Containers without compose metadata are absent.
func (s *Snapshot) ContainerByService() map[[2]string]string {
	byService := make(map[[2]string]string)
	for _, c := range s.Containers {
		if c.ComposeService != "" {
			byService[[2]string{c.ComposeProject, c.ComposeService}] = c.Name
		}
	}
	return byService
}
