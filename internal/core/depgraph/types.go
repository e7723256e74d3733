// Package depgraph derives the typed container dependency graph from a
// snapshot. This is part of the Functional Core - every extractor is a pure
// function of the read-only snapshot, and the built graph is immutable.
package depgraph

import "sort"

// =============================================================================
// Edge Kinds
// =============================================================================

// EdgeKind identifies which relationship signal produced an edge.
type EdgeKind string

const (
	// EdgeComposeDependsOn is a declared compose startup-order dependency.
	EdgeComposeDependsOn EdgeKind = "compose_depends_on"
	// EdgeLegacyLink is a legacy container link.
	EdgeLegacyLink EdgeKind = "legacy_link"
	// EdgeNetworkShared connects containers attached to the same network.
	// Never ordering-significant; a co-location signal only.
	EdgeNetworkShared EdgeKind = "network_shared"
	// EdgeVolumeShared connects containers mounting the same volume or
	// bind source. Ordering-significant only when a reader/writer
	// direction could be inferred from the mount modes.
	EdgeVolumeShared EdgeKind = "volume_shared"
	// EdgeEnvReference is an environment variable referencing another
	// container by name or network alias.
	EdgeEnvReference EdgeKind = "env_reference"
)

// AllKinds lists every edge kind in deterministic order.
func AllKinds() []EdgeKind {
	return []EdgeKind{
		EdgeComposeDependsOn,
		EdgeLegacyLink,
		EdgeNetworkShared,
		EdgeVolumeShared,
		EdgeEnvReference,
	}
}

// =============================================================================
// Edges
// =============================================================================

// Edge is one directed dependency relationship between two containers.
// From depends on To: an ordering edge means To must migrate in an earlier
// phase than From.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"type"`

	// Ordering marks edges that constrain relative phase placement.
	// Sharing edges (network, undirected volume) carry Ordering=false.
	Ordering bool `json:"ordering"`

	Evidence Evidence `json:"evidence,omitempty"`
}

// Evidence records the signal behind an edge, kept per kind so provenance
// stays inspectable. Edges of different kinds between the same pair are
// never collapsed.
type Evidence struct {
	Network    string `json:"network,omitempty"`
	Volume     string `json:"volume,omitempty"`
	SourcePath string `json:"source_path,omitempty"`
	TargetPath string `json:"target_path,omitempty"`
	Variable   string `json:"variable,omitempty"`
	Service    string `json:"service,omitempty"`
	Label      string `json:"label,omitempty"`
	Link       string `json:"link,omitempty"`
}

// =============================================================================
// Diagnostics
// =============================================================================

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic codes.
const (
	DiagMalformedInput    = "malformed_input"
	DiagDanglingReference = "dangling_reference"
	DiagSelfReference     = "self_reference"
	DiagCycleTruncated    = "cycle_enumeration_truncated"
)

// Diagnostic is a recoverable issue encountered during resolution.
// Nothing is dropped or skipped silently; every recovery leaves one of
// these behind.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Node     string   `json:"node,omitempty"`
	Kind     EdgeKind `json:"kind,omitempty"`
	Message  string   `json:"message"`
}

// =============================================================================
// Graph
// =============================================================================

// Graph is the merged dependency multigraph. Nodes and Edges are sorted and
// must be treated as read-only once built.
type Graph struct {
	// Nodes holds every container name, ascending.
	Nodes []string `json:"nodes"`
	// Edges holds every surviving edge, sorted by (From, To, Kind).
	Edges []Edge `json:"edges"`

	nodeSet map[string]struct{}
}

// HasNode reports whether name is a node of the graph.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodeSet[name]
	return ok
}

// OrderingEdges returns the edges that constrain phase placement.
func (g *Graph) OrderingEdges() []Edge {
	out := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e.Ordering {
			out = append(out, e)
		}
	}
	return out
}

// EdgesByKind returns the edges of one kind.
func (g *Graph) EdgesByKind(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func newGraph(nodes []string, edges []Edge) *Graph {
	sort.Strings(nodes)
	g := &Graph{
		Nodes:   nodes,
		Edges:   edges,
		nodeSet: make(map[string]struct{}, len(nodes)),
	}
	for _, n := range nodes {
		g.nodeSet[n] = struct{}{}
	}
	return g
}
