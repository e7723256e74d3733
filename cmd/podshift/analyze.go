package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jeanremacle/PodShift/internal/core/depgraph"
	"github.com/jeanremacle/PodShift/internal/core/report"
	"github.com/jeanremacle/PodShift/internal/core/resolver"
	"github.com/jeanremacle/PodShift/internal/core/snapshot"
	"github.com/jeanremacle/PodShift/internal/shell/composefiles"
	"github.com/jeanremacle/PodShift/internal/shell/docker"
	"github.com/jeanremacle/PodShift/internal/shell/render"
)

// =============================================================================
// Analysis Pipeline
// =============================================================================

type analyzeOptions struct {
	// SnapshotPath, when set, analyzes a saved JSON snapshot instead of
	// querying the daemon.
	SnapshotPath string

	// ContainersOnly prints the inventory and skips analysis.
	ContainersOnly bool
}

func analyze(ctx context.Context, cfg *Config, logger *slog.Logger, opts analyzeOptions) int {
	snap, code := gatherSnapshot(ctx, cfg, logger, opts.SnapshotPath)
	if code != ExitSuccess {
		return code
	}

	if opts.ContainersOnly {
		fmt.Print(render.ContainersOnly(snap))
		return ExitSuccess
	}

	extractors, err := parseExtractors(cfg.Resolver.Extractors)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	result, err := resolver.Resolve(snap, resolver.Config{
		PerContainerMinutes:  cfg.Resolver.PerContainerMinutes,
		ComplexityMultiplier: cfg.Resolver.ComplexityMultiplier,
		CyclePathLimit:       cfg.Resolver.CyclePathLimit,
		Extractors:           extractors,
		Meta: report.Meta{
			AnalysisID:  uuid.New().String(),
			GeneratedAt: time.Now().UTC(),
		},
	})
	if err != nil {
		logger.Error("analysis failed", "error", err)
		return ExitAnalysisErr
	}

	outputPath, err := writeReport(cfg.Output.Dir, result.Report)
	if err != nil {
		logger.Error("failed to write report", "error", err)
		return ExitOutputError
	}

	fmt.Print(render.Text(result.Report))
	fmt.Printf("\nResults saved to: %s\n", outputPath)
	return ExitSuccess
}

// gatherSnapshot produces the inventory to analyze, either from a saved
// JSON file or from the live daemon plus discovered Compose files.
func gatherSnapshot(ctx context.Context, cfg *Config, logger *slog.Logger, snapshotPath string) (*snapshot.Snapshot, int) {
	if snapshotPath != "" {
		snap, err := loadSnapshotFile(snapshotPath)
		if err != nil {
			logger.Error("failed to load snapshot file", "path", snapshotPath, "error", err)
			return nil, ExitConfigError
		}
		return snap, ExitSuccess
	}

	collector, err := docker.NewCollector(cfg.Docker.Host, logger)
	if err != nil {
		logger.Error("failed to connect to docker", "error", err)
		return nil, ExitDockerError
	}
	defer collector.Close()

	snap, err := collector.Snapshot(ctx)
	if err != nil {
		logger.Error("failed to capture inventory", "error", err)
		return nil, ExitDockerError
	}

	services, err := composefiles.LoadAll(cfg.Discovery.ComposeRoots, logger)
	if err != nil {
		logger.Error("compose discovery failed", "error", err)
		return nil, ExitConfigError
	}
	snap.ComposeServices = append(snap.ComposeServices, services...)

	return snap, ExitSuccess
}

func loadSnapshotFile(path string) (*snapshot.Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var snap snapshot.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &snap, nil
}

// parseExtractors validates configured relationship categories.
func parseExtractors(names []string) ([]depgraph.EdgeKind, error) {
	if len(names) == 0 {
		return nil, nil
	}

	valid := make(map[depgraph.EdgeKind]struct{})
	for _, k := range depgraph.AllKinds() {
		valid[k] = struct{}{}
	}

	kinds := make([]depgraph.EdgeKind, 0, len(names))
	for _, name := range names {
		kind := depgraph.EdgeKind(name)
		if _, ok := valid[kind]; !ok {
			return nil, fmt.Errorf("unknown extractor %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func writeReport(dir string, r *report.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	name := fmt.Sprintf("container_dependencies_%s.json", r.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	content, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
