package depgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeanremacle/PodShift/internal/core/snapshot"
)

// =============================================================================
// Relationship Extractors
// =============================================================================
//
// Each extractor is a pure function Snapshot -> edges + diagnostics. A node
// with malformed data is skipped for that extractor only, with a diagnostic;
// the run continues. Extractors never resolve edge endpoints against the
// node set - the builder drops dangling references with a warning.

type extractor func(snap *snapshot.Snapshot) ([]Edge, []Diagnostic)

// extractorFor returns the extractor implementing one edge kind.
func extractorFor(kind EdgeKind) extractor {
	switch kind {
	case EdgeComposeDependsOn:
		return extractComposeDependsOn
	case EdgeLegacyLink:
		return extractLegacyLinks
	case EdgeNetworkShared:
		return extractSharedNetworks
	case EdgeVolumeShared:
		return extractSharedVolumes
	case EdgeEnvReference:
		return extractEnvReferences
	default:
		return nil
	}
}

// =============================================================================
// Compose Dependencies
// =============================================================================

// serviceResolver maps a compose service name to its container within a
// project, falling back to a container of the same name. Unknown endpoints
// pass through unchanged so the builder can record the dangling reference.
func serviceResolver(snap *snapshot.Snapshot) func(project, service string) string {
	byService := snap.ContainerByService()
	names := snap.ContainerNames()
	return func(project, service string) string {
		if c, ok := byService[[2]string{project, service}]; ok {
			return c
		}
		if _, ok := names[service]; ok {
			return service
		}
		return service
	}
}

// extractComposeDependsOn emits one compose_depends_on edge per declared
// startup-order dependency: source = dependent, target = dependency.
// Signals come from parsed compose service definitions (depends_on and
// volumes_from, which implies the source must exist first) and from
// label-derived DependsOn entries on the containers themselves.
func extractComposeDependsOn(snap *snapshot.Snapshot) ([]Edge, []Diagnostic) {
	var edges []Edge
	var diags []Diagnostic

	resolve := serviceResolver(snap)

	for _, svc := range snap.ComposeServices {
		if svc.Name == "" {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     DiagMalformedInput,
				Kind:     EdgeComposeDependsOn,
				Message:  "compose service without a name skipped",
			})
			continue
		}
		owner := resolve(svc.Project, svc.Name)

		for _, dep := range svc.DependsOn {
			if dep == "" || dep == svc.Name {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     DiagMalformedInput,
					Node:     owner,
					Kind:     EdgeComposeDependsOn,
					Message:  fmt.Sprintf("service %q declares an empty or self dependency", svc.Name),
				})
				continue
			}
			edges = append(edges, Edge{
				From:     owner,
				To:       resolve(svc.Project, dep),
				Kind:     EdgeComposeDependsOn,
				Ordering: true,
				Evidence: Evidence{Service: svc.Name},
			})
		}

		for _, src := range svc.VolumesFrom {
			if src == "" || src == svc.Name {
				continue
			}
			edges = append(edges, Edge{
				From:     owner,
				To:       resolve(svc.Project, src),
				Kind:     EdgeComposeDependsOn,
				Ordering: true,
				Evidence: Evidence{Service: svc.Name, Label: "volumes_from"},
			})
		}
	}

	// Label-derived startup dependencies.
	for _, c := range snap.Containers {
		if c.Name == "" {
			continue
		}
		for _, dep := range c.DependsOn {
			if dep == "" {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     DiagMalformedInput,
					Node:     c.Name,
					Kind:     EdgeComposeDependsOn,
					Message:  "empty depends_on entry skipped",
				})
				continue
			}
			if dep == c.Name {
				continue
			}
			edges = append(edges, Edge{
				From:     c.Name,
				To:       resolve(c.ComposeProject, dep),
				Kind:     EdgeComposeDependsOn,
				Ordering: true,
				Evidence: Evidence{Label: "depends_on"},
			})
		}
	}

	return edges, diags
}

// =============================================================================
// Legacy Links
// =============================================================================

// extractLegacyLinks emits one legacy_link edge per declared link, whether
// declared on the container ("/source:/target/alias") or in a compose
// service ("source:alias"). Same direction as depends_on.
func extractLegacyLinks(snap *snapshot.Snapshot) ([]Edge, []Diagnostic) {
	var edges []Edge
	var diags []Diagnostic

	resolve := serviceResolver(snap)
	for _, svc := range snap.ComposeServices {
		if svc.Name == "" {
			continue
		}
		owner := resolve(svc.Project, svc.Name)
		for _, link := range svc.Links {
			target := link
			if idx := strings.IndexByte(link, ':'); idx >= 0 {
				target = link[:idx]
			}
			if target == "" || target == svc.Name {
				continue
			}
			edges = append(edges, Edge{
				From:     owner,
				To:       resolve(svc.Project, target),
				Kind:     EdgeLegacyLink,
				Ordering: true,
				Evidence: Evidence{Service: svc.Name, Link: link},
			})
		}
	}

	for _, c := range snap.Containers {
		if c.Name == "" {
			continue
		}
		for _, link := range c.Links {
			target := link
			if idx := strings.IndexByte(link, ':'); idx >= 0 {
				target = link[:idx]
			}
			target = strings.TrimPrefix(target, "/")
			if target == "" {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     DiagMalformedInput,
					Node:     c.Name,
					Kind:     EdgeLegacyLink,
					Message:  fmt.Sprintf("unparsable link %q skipped", link),
				})
				continue
			}
			if target == c.Name {
				continue
			}
			edges = append(edges, Edge{
				From:     c.Name,
				To:       target,
				Kind:     EdgeLegacyLink,
				Ordering: true,
				Evidence: Evidence{Link: link},
			})
		}
	}

	return edges, diags
}

// =============================================================================
// Shared Networks
// =============================================================================

// extractSharedNetworks emits bidirectional network_shared edges between
// every member pair of a network with at least two members. These establish
// co-location only and never constrain ordering. The default bridge network
// is skipped: membership there expresses no intent.
func extractSharedNetworks(snap *snapshot.Snapshot) ([]Edge, []Diagnostic) {
	members := make(map[string][]string)
	for _, c := range snap.Containers {
		if c.Name == "" {
			continue
		}
		for _, m := range c.Networks {
			if m.Network == "" || m.Network == "bridge" {
				continue
			}
			members[m.Network] = append(members[m.Network], c.Name)
		}
	}

	networks := make([]string, 0, len(members))
	for n := range members {
		networks = append(networks, n)
	}
	sort.Strings(networks)

	var edges []Edge
	for _, network := range networks {
		names := members[network]
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				if names[i] == names[j] {
					continue
				}
				ev := Evidence{Network: network}
				edges = append(edges,
					Edge{From: names[i], To: names[j], Kind: EdgeNetworkShared, Evidence: ev},
					Edge{From: names[j], To: names[i], Kind: EdgeNetworkShared, Evidence: ev},
				)
			}
		}
	}

	return edges, nil
}

// =============================================================================
// Shared Volumes
// =============================================================================

type volumeMountRef struct {
	container string
	path      string
	readOnly  bool
}

// extractSharedVolumes connects containers mounting the same named volume or
// the same bind source. When one consumer mounts read-only and the other
// read-write, the reader depends on the writer (directed, ordering). When
// the direction cannot be inferred, both directions are emitted as
// non-ordering sharing edges, same as network edges.
func extractSharedVolumes(snap *snapshot.Snapshot) ([]Edge, []Diagnostic) {
	var diags []Diagnostic
	refs := make(map[string][]volumeMountRef)

	for _, c := range snap.Containers {
		if c.Name == "" {
			continue
		}
		for _, m := range c.Mounts {
			key := m.Volume
			if key == "" {
				key = m.Source
			}
			if key == "" {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     DiagMalformedInput,
					Node:     c.Name,
					Kind:     EdgeVolumeShared,
					Message:  fmt.Sprintf("mount at %q has neither volume name nor source, skipped", m.Target),
				})
				continue
			}
			refs[key] = append(refs[key], volumeMountRef{
				container: c.Name,
				path:      m.Target,
				readOnly:  m.ReadOnly,
			})
		}
	}

	volumes := make([]string, 0, len(refs))
	for v := range refs {
		volumes = append(volumes, v)
	}
	sort.Strings(volumes)

	var edges []Edge
	for _, vol := range volumes {
		mounts := refs[vol]
		if len(mounts) < 2 {
			continue
		}
		sort.Slice(mounts, func(i, j int) bool { return mounts[i].container < mounts[j].container })

		for i := 0; i < len(mounts); i++ {
			for j := i + 1; j < len(mounts); j++ {
				a, b := mounts[i], mounts[j]
				if a.container == b.container {
					continue
				}
				switch {
				case a.readOnly && !b.readOnly:
					// Reader depends on writer.
					edges = append(edges, Edge{
						From: a.container, To: b.container,
						Kind: EdgeVolumeShared, Ordering: true,
						Evidence: Evidence{Volume: vol, SourcePath: a.path, TargetPath: b.path},
					})
				case b.readOnly && !a.readOnly:
					edges = append(edges, Edge{
						From: b.container, To: a.container,
						Kind: EdgeVolumeShared, Ordering: true,
						Evidence: Evidence{Volume: vol, SourcePath: b.path, TargetPath: a.path},
					})
				default:
					ev := Evidence{Volume: vol, SourcePath: a.path, TargetPath: b.path}
					edges = append(edges,
						Edge{From: a.container, To: b.container, Kind: EdgeVolumeShared, Evidence: ev},
						Edge{From: b.container, To: a.container, Kind: EdgeVolumeShared, Evidence: ev},
					)
				}
			}
		}
	}

	return edges, diags
}

// =============================================================================
// Environment References
// =============================================================================

// isNameRune reports whether r can appear in a container name or alias.
func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-', r == '.':
		return true
	}
	return false
}

// extractEnvReferences scans each environment variable value for exact,
// case-sensitive matches against other containers' names and network
// aliases. Matching is token-exact, not substring: the value is split on
// characters that cannot appear in a name, so "db" inside
// "postgres://db:5432/app" matches a container named "db" while a container
// named "d" does not.
func extractEnvReferences(snap *snapshot.Snapshot) ([]Edge, []Diagnostic) {
	// Reference table: container names and network aliases.
	targets := make(map[string]string)
	for _, c := range snap.Containers {
		if c.Name == "" {
			continue
		}
		targets[c.Name] = c.Name
		for _, m := range c.Networks {
			for _, alias := range m.Aliases {
				if alias != "" {
					targets[alias] = c.Name
				}
			}
		}
	}

	var edges []Edge
	for _, c := range snap.Containers {
		if c.Name == "" {
			continue
		}

		vars := make([]string, 0, len(c.Environment))
		for k := range c.Environment {
			vars = append(vars, k)
		}
		sort.Strings(vars)

		for _, key := range vars {
			value := c.Environment[key]
			for _, token := range strings.FieldsFunc(value, func(r rune) bool { return !isNameRune(r) }) {
				target, ok := targets[token]
				if !ok || target == c.Name {
					continue
				}
				edges = append(edges, Edge{
					From:     c.Name,
					To:       target,
					Kind:     EdgeEnvReference,
					Ordering: true,
					Evidence: Evidence{Variable: key},
				})
			}
		}
	}

	return edges, nil
}
