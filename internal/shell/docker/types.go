// Package docker collects a point-in-time inventory snapshot from a
// Docker daemon. It is part of the Imperative Shell - all daemon I/O
// happens here, and the result is handed to the core as an immutable
// snapshot.Snapshot.
package docker

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
)

// =============================================================================
// Daemon Client Interface
// =============================================================================

// APIClient is the subset of the Docker SDK client the collector uses.
// *client.Client satisfies it directly; tests substitute a fake.
type APIClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error)
	VolumeList(ctx context.Context, options volume.ListOptions) (volume.ListResponse, error)
	Close() error
}

// shortIDLength is how many characters of the container ID are kept in
// the snapshot. Matches the length the Docker CLI displays.
const shortIDLength = 12

// dependencyLabels are the container labels inspected for declared
// startup dependencies, in priority order.
var dependencyLabels = []string{
	"com.docker.compose.depends_on",
	"com.docker.stack.depends_on",
	"depends_on",
	"requires",
}

// Compose metadata labels.
const (
	labelComposeProject = "com.docker.compose.project"
	labelComposeService = "com.docker.compose.service"
)
