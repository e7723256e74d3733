package depgraph

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jeanremacle/PodShift/internal/core/snapshot"
)

// =============================================================================
// Graph Builder
// =============================================================================

// BuildOptions configures graph construction.
type BuildOptions struct {
	// Kinds restricts which extractor categories run. Empty means all.
	Kinds []EdgeKind
}

func (o BuildOptions) kinds() []EdgeKind {
	if len(o.Kinds) == 0 {
		return AllKinds()
	}
	return o.Kinds
}

// Build runs the enabled extractors over the snapshot and merges their
// output into one immutable graph.
//
// Extractors run concurrently; each is a pure function of the read-only
// snapshot, so there is no shared mutable state. Determinism does not
// depend on completion order: the merged edge set is sorted and
// deduplicated before the graph is assembled, so resolving the same
// snapshot twice yields identical output.
//
// Edges identical in (From, To, Kind) collapse to one; edges differing
// only by kind are kept so provenance stays inspectable. Edges referencing
// unknown containers are dropped with a warning diagnostic, never silently.
func Build(snap *snapshot.Snapshot, opts BuildOptions) (*Graph, []Diagnostic, error) {
	if err := snap.Validate(); err != nil {
		return nil, nil, err
	}

	kinds := opts.kinds()
	edgeSets := make([][]Edge, len(kinds))
	diagSets := make([][]Diagnostic, len(kinds))

	var g errgroup.Group
	for i, kind := range kinds {
		ex := extractorFor(kind)
		if ex == nil {
			return nil, nil, fmt.Errorf("unknown extractor kind %q", kind)
		}
		g.Go(func() error {
			edgeSets[i], diagSets[i] = ex(snap)
			return nil
		})
	}
	// Extractors only report through diagnostics; Wait cannot fail.
	_ = g.Wait()

	var diags []Diagnostic
	for _, ds := range diagSets {
		diags = append(diags, ds...)
	}

	nodes := make([]string, 0, len(snap.Containers))
	seen := make(map[string]struct{}, len(snap.Containers))
	for _, c := range snap.Containers {
		if c.Name == "" {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     DiagMalformedInput,
				Node:     c.ID,
				Message:  "container without a name excluded from the graph",
			})
			continue
		}
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		nodes = append(nodes, c.Name)
	}

	var merged []Edge
	for _, es := range edgeSets {
		merged = append(merged, es...)
	}

	var kept []Edge
	for _, e := range merged {
		if _, ok := seen[e.From]; !ok {
			diags = append(diags, danglingDiag(e, e.From))
			continue
		}
		if _, ok := seen[e.To]; !ok {
			diags = append(diags, danglingDiag(e, e.To))
			continue
		}
		if e.From == e.To {
			diags = append(diags, Diagnostic{
				Severity: SeverityInfo,
				Code:     DiagSelfReference,
				Node:     e.From,
				Kind:     e.Kind,
				Message:  fmt.Sprintf("%s edge from %q to itself dropped", e.Kind, e.From),
			})
			continue
		}
		kept = append(kept, e)
	}

	// Sort with ordering edges first within a (From, To, Kind) group so
	// dedupe keeps the stronger signal when a pair carries both a directed
	// and an undirected variant of the same kind.
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Ordering && !b.Ordering
	})

	deduped := kept[:0:0]
	for _, e := range kept {
		n := len(deduped)
		if n > 0 {
			prev := deduped[n-1]
			if prev.From == e.From && prev.To == e.To && prev.Kind == e.Kind {
				continue
			}
		}
		deduped = append(deduped, e)
	}

	return newGraph(nodes, deduped), diags, nil
}

func danglingDiag(e Edge, unknown string) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     DiagDanglingReference,
		Node:     unknown,
		Kind:     e.Kind,
		Message:  fmt.Sprintf("%s edge %s -> %s references unknown container %q, dropped", e.Kind, e.From, e.To, unknown),
	}
}
