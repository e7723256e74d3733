package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanremacle/PodShift/internal/core/snapshot"
)

// =============================================================================
// Build Tests
// =============================================================================

func TestBuild_EmptySnapshotIsFatal(t *testing.T) {
	_, _, err := Build(&snapshot.Snapshot{}, BuildOptions{})
	assert.ErrorIs(t, err, snapshot.ErrEmptySnapshot)
}

func TestBuild_DeduplicatesSameKindEdges(t *testing.T) {
	// The same dependency declared both through a compose service and a
	// container label collapses to one edge.
	snap := &snapshot.Snapshot{
		Containers: []snapshot.ContainerNode{
			{ID: "1", Name: "api", DependsOn: []string{"db"}},
			{ID: "2", Name: "db"},
		},
		ComposeServices: []snapshot.ComposeService{
			{Name: "api", DependsOn: []string{"db"}},
		},
	}

	g, diags, err := Build(snap, BuildOptions{})
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, EdgeComposeDependsOn, g.Edges[0].Kind)
}

func TestBuild_KeepsEdgesDifferingOnlyByKind(t *testing.T) {
	web := snapshot.ContainerNode{ID: "1", Name: "web", DependsOn: []string{"db"}, Links: []string{"/db:/web/db"}}
	db := snapshot.ContainerNode{ID: "2", Name: "db"}
	snap := &snapshot.Snapshot{Containers: []snapshot.ContainerNode{web, db}}

	g, _, err := Build(snap, BuildOptions{})
	require.NoError(t, err)
	require.Len(t, g.Edges, 2)
	kinds := []EdgeKind{g.Edges[0].Kind, g.Edges[1].Kind}
	assert.Contains(t, kinds, EdgeComposeDependsOn)
	assert.Contains(t, kinds, EdgeLegacyLink)
}

func TestBuild_DropsDanglingEdgesWithDiagnostic(t *testing.T) {
	snap := &snapshot.Snapshot{
		Containers: []snapshot.ContainerNode{
			{ID: "1", Name: "web", DependsOn: []string{"ghost"}},
		},
	}

	g, diags, err := Build(snap, BuildOptions{})
	require.NoError(t, err)
	assert.Empty(t, g.Edges)
	require.Len(t, diags, 1)
	assert.Equal(t, DiagDanglingReference, diags[0].Code)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, "ghost", diags[0].Node)
}

func TestBuild_SelfReferencesNeverSurface(t *testing.T) {
	a := snapshot.ContainerNode{ID: "1", Name: "a"}
	a.Networks = []snapshot.NetworkMember{{Network: "n", Aliases: []string{"me"}}}
	a.Environment = map[string]string{"SELF": "me"}
	b := snapshot.ContainerNode{ID: "2", Name: "b", Links: []string{"/a:/b/a"}}
	snap := &snapshot.Snapshot{Containers: []snapshot.ContainerNode{a, b}}

	g, diags, err := Build(snap, BuildOptions{})
	require.NoError(t, err)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, EdgeLegacyLink, g.Edges[0].Kind)
	// The env extractor already drops self references before they reach
	// the builder, so no self-reference diagnostic is expected here.
	assert.Empty(t, diags)
}

func TestBuild_DisabledExtractorsEmitNothing(t *testing.T) {
	web := snapshot.ContainerNode{ID: "1", Name: "web", DependsOn: []string{"db"}}
	db := snapshot.ContainerNode{ID: "2", Name: "db"}
	web.Networks = []snapshot.NetworkMember{{Network: "backend"}}
	db.Networks = []snapshot.NetworkMember{{Network: "backend"}}
	snap := &snapshot.Snapshot{Containers: []snapshot.ContainerNode{web, db}}

	g, _, err := Build(snap, BuildOptions{Kinds: []EdgeKind{EdgeNetworkShared}})
	require.NoError(t, err)
	require.Len(t, g.Edges, 2)
	for _, e := range g.Edges {
		assert.Equal(t, EdgeNetworkShared, e.Kind)
	}
}

func TestBuild_UnknownExtractorKind(t *testing.T) {
	snap := &snapshot.Snapshot{Containers: []snapshot.ContainerNode{{ID: "1", Name: "a"}}}
	_, _, err := Build(snap, BuildOptions{Kinds: []EdgeKind{"telepathy"}})
	assert.Error(t, err)
}

func TestBuild_UnnamedContainerExcluded(t *testing.T) {
	snap := &snapshot.Snapshot{
		Containers: []snapshot.ContainerNode{
			{ID: "1", Name: "web"},
			{ID: "deadbeef", Name: ""},
		},
	}

	g, diags, err := Build(snap, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, g.Nodes)
	require.Len(t, diags, 1)
	assert.Equal(t, DiagMalformedInput, diags[0].Code)
	assert.Equal(t, "deadbeef", diags[0].Node)
}

func TestBuild_Deterministic(t *testing.T) {
	web := snapshot.ContainerNode{ID: "1", Name: "web", DependsOn: []string{"api", "cache"}}
	api := snapshot.ContainerNode{ID: "2", Name: "api", DependsOn: []string{"db"}}
	cache := snapshot.ContainerNode{ID: "3", Name: "cache"}
	db := snapshot.ContainerNode{ID: "4", Name: "db"}
	web.Environment = map[string]string{"API_HOST": "api", "CACHE_HOST": "cache"}
	snap := &snapshot.Snapshot{Containers: []snapshot.ContainerNode{web, api, cache, db}}

	first, firstDiags, err := Build(snap, BuildOptions{})
	require.NoError(t, err)

	// Extractors run concurrently; repeated builds must not depend on
	// completion order.
	for i := 0; i < 20; i++ {
		g, diags, err := Build(snap, BuildOptions{})
		require.NoError(t, err)
		assert.Equal(t, first.Nodes, g.Nodes)
		assert.Equal(t, first.Edges, g.Edges)
		assert.Equal(t, firstDiags, diags)
	}
}

// =============================================================================
// Graph Accessor Tests
// =============================================================================

func TestGraph_OrderingEdgesExcludeSharing(t *testing.T) {
	a := snapshot.ContainerNode{ID: "1", Name: "a", DependsOn: []string{"b"}}
	b := snapshot.ContainerNode{ID: "2", Name: "b"}
	a.Networks = []snapshot.NetworkMember{{Network: "net"}}
	b.Networks = []snapshot.NetworkMember{{Network: "net"}}
	snap := &snapshot.Snapshot{Containers: []snapshot.ContainerNode{a, b}}

	g, _, err := Build(snap, BuildOptions{})
	require.NoError(t, err)
	assert.Len(t, g.Edges, 3)

	ordering := g.OrderingEdges()
	require.Len(t, ordering, 1)
	assert.Equal(t, EdgeComposeDependsOn, ordering[0].Kind)
	assert.True(t, g.HasNode("a"))
	assert.False(t, g.HasNode("ghost"))
}
