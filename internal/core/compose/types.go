package compose

// =============================================================================
// Project - Main Output Type
// =============================================================================

// Project is a parsed Docker Compose project, reduced to the relationship
// signals the dependency resolver cares about.
type Project struct {
	Name     string    `json:"name"`
	Services []Service `json:"services"`
	Networks []string  `json:"networks,omitempty"`
	Volumes  []string  `json:"volumes,omitempty"`
}

// =============================================================================
// Service Types
// =============================================================================

// Service is one compose service definition.
type Service struct {
	Name        string            `json:"name"`
	Image       string            `json:"image,omitempty"`
	DependsOn   []string          `json:"depends_on,omitempty"`
	Links       []string          `json:"links,omitempty"`
	VolumesFrom []string          `json:"volumes_from,omitempty"`
	Networks    []string          `json:"networks,omitempty"`
	Volumes     []ServiceVolume   `json:"volumes,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
}

// ServiceVolume is one mount declared on a service.
type ServiceVolume struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	ReadOnly bool   `json:"read_only"`
}
