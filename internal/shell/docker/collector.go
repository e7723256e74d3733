package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/jeanremacle/PodShift/internal/core/snapshot"
)

// =============================================================================
// Collector
// =============================================================================

// Collector reads the daemon inventory and produces snapshots.
type Collector struct {
	cli    APIClient
	logger *slog.Logger
}

// NewCollector connects to the Docker daemon and returns a collector.
// If host is empty, it uses the default Docker host from environment.
// On macOS with Docker Desktop, it automatically detects the correct socket.
func NewCollector(host string, logger *slog.Logger) (*Collector, error) {
	var opts []client.Opt
	opts = append(opts, client.FromEnv)
	opts = append(opts, client.WithAPIVersionNegotiation())

	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, NewCollectError("NewCollector", "", "", "failed to create client", ErrConnectionFailed)
	}

	// Try to ping with default settings
	ctx := context.Background()
	if _, pingErr := cli.Ping(ctx); pingErr != nil {
		// If default socket fails, try Docker Desktop socket on macOS
		homeDir, _ := os.UserHomeDir()
		dockerDesktopSocket := "unix://" + homeDir + "/.docker/run/docker.sock"

		cli2, err2 := client.NewClientWithOpts(
			client.WithHost(dockerDesktopSocket),
			client.WithAPIVersionNegotiation(),
		)
		if err2 == nil {
			if _, pingErr2 := cli2.Ping(ctx); pingErr2 == nil {
				cli.Close()
				return &Collector{cli: cli2, logger: logger}, nil
			}
			cli2.Close()
		}
	}

	return &Collector{cli: cli, logger: logger}, nil
}

// NewCollectorWithClient wraps an existing client. Used by tests.
func NewCollectorWithClient(cli APIClient, logger *slog.Logger) *Collector {
	return &Collector{cli: cli, logger: logger}
}

// Close closes the underlying daemon connection.
func (c *Collector) Close() error {
	return c.cli.Close()
}

// Snapshot captures the full daemon inventory: all containers (running
// or not), named volumes, and networks. Containers that fail inspection
// are logged and skipped rather than failing the whole capture.
func (c *Collector) Snapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	if _, err := c.cli.Ping(ctx); err != nil {
		return nil, NewCollectError("Snapshot", "", "", fmt.Sprintf("failed to ping docker: %v", err), ErrConnectionFailed)
	}

	summaries, err := c.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, NewCollectError("Snapshot", "container", "", fmt.Sprintf("list failed: %v", err), ErrListFailed)
	}

	snap := &snapshot.Snapshot{TakenAt: time.Now().UTC()}

	for _, summary := range summaries {
		inspect, inspectErr := c.cli.ContainerInspect(ctx, summary.ID)
		if inspectErr != nil {
			c.logger.Warn("skipping container, inspect failed",
				"container_id", shortID(summary.ID),
				"error", inspectErr)
			continue
		}
		snap.Containers = append(snap.Containers, convertContainer(summary, inspect))
	}
	sort.Slice(snap.Containers, func(i, j int) bool {
		return snap.Containers[i].Name < snap.Containers[j].Name
	})

	volumes, err := c.cli.VolumeList(ctx, volume.ListOptions{})
	if err != nil {
		c.logger.Warn("volume listing failed, snapshot will omit volumes", "error", err)
	} else {
		for _, v := range volumes.Volumes {
			if v == nil {
				continue
			}
			snap.Volumes = append(snap.Volumes, snapshot.VolumeInfo{
				Name:   v.Name,
				Driver: v.Driver,
			})
		}
		sort.Slice(snap.Volumes, func(i, j int) bool {
			return snap.Volumes[i].Name < snap.Volumes[j].Name
		})
	}

	networks, err := c.cli.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		c.logger.Warn("network listing failed, snapshot will omit networks", "error", err)
	} else {
		for _, n := range networks {
			snap.Networks = append(snap.Networks, snapshot.NetworkInfo{
				Name:     n.Name,
				Driver:   n.Driver,
				Internal: n.Internal,
			})
		}
		sort.Slice(snap.Networks, func(i, j int) bool {
			return snap.Networks[i].Name < snap.Networks[j].Name
		})
	}

	c.logger.Info("inventory snapshot captured",
		"containers", len(snap.Containers),
		"volumes", len(snap.Volumes),
		"networks", len(snap.Networks))

	return snap, nil
}

// =============================================================================
// Conversion
// =============================================================================

func convertContainer(summary container.Summary, inspect container.InspectResponse) snapshot.ContainerNode {
	node := snapshot.ContainerNode{
		ID:     shortID(inspect.ID),
		Name:   strings.TrimPrefix(inspect.Name, "/"),
		Status: summary.State,
	}

	if inspect.Config != nil {
		node.Image = inspect.Config.Image
		node.Environment = parseEnv(inspect.Config.Env)
		node.Labels = inspect.Config.Labels
		node.ComposeProject = inspect.Config.Labels[labelComposeProject]
		node.ComposeService = inspect.Config.Labels[labelComposeService]
		node.DependsOn = parseDependencyLabels(inspect.Config.Labels, node.Name)
	}
	if node.Image == "" {
		node.Image = summary.Image
	}

	for _, m := range inspect.Mounts {
		node.Mounts = append(node.Mounts, convertMount(m))
	}

	if inspect.NetworkSettings != nil {
		names := make([]string, 0, len(inspect.NetworkSettings.Networks))
		for name := range inspect.NetworkSettings.Networks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			endpoint := inspect.NetworkSettings.Networks[name]
			member := snapshot.NetworkMember{Network: name}
			if endpoint != nil {
				member.Aliases = append(member.Aliases, endpoint.Aliases...)
				sort.Strings(member.Aliases)
			}
			node.Networks = append(node.Networks, member)
		}
		node.Ports = convertPorts(inspect.NetworkSettings.Ports)
	}

	if inspect.HostConfig != nil {
		node.Links = append(node.Links, inspect.HostConfig.Links...)
	}

	return node
}

func convertMount(m container.MountPoint) snapshot.VolumeMount {
	vm := snapshot.VolumeMount{
		Target:   m.Destination,
		ReadOnly: !m.RW,
	}
	switch m.Type {
	case mount.TypeVolume:
		vm.Volume = m.Name
	default:
		vm.Source = m.Source
	}
	return vm
}

func convertPorts(portMap nat.PortMap) []snapshot.PortBinding {
	if len(portMap) == 0 {
		return nil
	}
	ports := make([]nat.Port, 0, len(portMap))
	for p := range portMap {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })

	var out []snapshot.PortBinding
	for _, p := range ports {
		bindings := portMap[p]
		if len(bindings) == 0 {
			out = append(out, snapshot.PortBinding{
				ContainerPort: p.Int(),
				Protocol:      p.Proto(),
			})
			continue
		}
		for _, b := range bindings {
			hostPort, _ := strconv.Atoi(b.HostPort)
			out = append(out, snapshot.PortBinding{
				ContainerPort: p.Int(),
				HostPort:      hostPort,
				Protocol:      p.Proto(),
				HostIP:        b.HostIP,
			})
		}
	}
	return out
}

// parseEnv converts "KEY=value" pairs into a map. Entries without "="
// are kept with an empty value.
func parseEnv(env []string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]string, len(env))
	for _, kv := range env {
		key, value, _ := strings.Cut(kv, "=")
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// parseDependencyLabels extracts declared dependencies from the known
// dependency labels. Values may be a JSON array, a JSON string, or a
// comma-separated list; compose writes "service:condition:restart"
// entries, of which only the service name is kept.
func parseDependencyLabels(labels map[string]string, self string) []string {
	seen := make(map[string]struct{})
	var deps []string

	for _, key := range dependencyLabels {
		raw, ok := labels[key]
		if !ok || raw == "" {
			continue
		}
		for _, dep := range parseDependencyValue(raw) {
			dep = strings.TrimSpace(dep)
			if idx := strings.Index(dep, ":"); idx >= 0 {
				dep = dep[:idx]
			}
			if dep == "" || dep == self {
				continue
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			deps = append(deps, dep)
		}
	}

	sort.Strings(deps)
	return deps
}

func parseDependencyValue(raw string) []string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return []string{single}
	}
	return strings.Split(raw, ",")
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}
