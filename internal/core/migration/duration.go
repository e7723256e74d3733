package migration

import (
	"math"

	"github.com/jeanremacle/PodShift/internal/core/depgraph"
)

// =============================================================================
// Duration Estimation
// =============================================================================

const (
	// DefaultPerContainerMinutes is the flat migration estimate per
	// container.
	DefaultPerContainerMinutes = 5.0

	// DefaultComplexityMultiplier scales the estimate for containers with
	// volume or environment-reference ordering edges. Higher integration
	// risk; the value is a heuristic and configurable for that reason.
	DefaultComplexityMultiplier = 1.5
)

// Estimate aggregates per-phase and total timing, contrasting parallel
// against sequential execution.
type Estimate struct {
	TotalContainers    int     `json:"total_containers"`
	SequentialMinutes  float64 `json:"estimated_sequential_minutes"`
	ParallelMinutes    float64 `json:"estimated_parallel_minutes"`
	SequentialHours    float64 `json:"estimated_sequential_hours"`
	ParallelHours      float64 `json:"estimated_parallel_hours"`
	TimeSavingsPercent float64 `json:"time_savings_percent"`
}

// EstimateDuration computes the migration timing model over scheduled
// phases. Each container costs perContainerMinutes, scaled by multiplier
// when it participates in at least one volume or env-reference ordering
// edge. A parallel-safe phase lasts as long as its slowest member; any
// other phase is the sum of its members. Non-positive parameters fall back
// to the defaults.
func EstimateDuration(g *depgraph.Graph, phases []Phase, perContainerMinutes, multiplier float64) Estimate {
	if perContainerMinutes <= 0 {
		perContainerMinutes = DefaultPerContainerMinutes
	}
	if multiplier <= 0 {
		multiplier = DefaultComplexityMultiplier
	}

	risky := make(map[string]bool)
	for _, e := range g.OrderingEdges() {
		if e.Kind == depgraph.EdgeVolumeShared || e.Kind == depgraph.EdgeEnvReference {
			risky[e.From] = true
			risky[e.To] = true
		}
	}

	perContainer := func(name string) float64 {
		if risky[name] {
			return perContainerMinutes * multiplier
		}
		return perContainerMinutes
	}

	var est Estimate
	for _, phase := range phases {
		var phaseMinutes float64
		for _, name := range phase.Containers {
			d := perContainer(name)
			est.SequentialMinutes += d
			est.TotalContainers++
			if phase.Parallel {
				phaseMinutes = math.Max(phaseMinutes, d)
			} else {
				phaseMinutes += d
			}
		}
		est.ParallelMinutes += phaseMinutes
	}

	est.SequentialHours = round1(est.SequentialMinutes / 60)
	est.ParallelHours = round1(est.ParallelMinutes / 60)
	if est.SequentialMinutes > 0 {
		savings := (est.SequentialMinutes - est.ParallelMinutes) / est.SequentialMinutes * 100
		est.TimeSavingsPercent = round1(math.Min(100, math.Max(0, savings)))
	}
	return est
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
