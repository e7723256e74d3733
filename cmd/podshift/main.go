// Command podshift analyzes a container inventory, maps the dependency
// relationships between containers, and prints a phased migration plan.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Exit codes.
const (
	ExitSuccess     = 0
	ExitConfigError = 1
	ExitDockerError = 2
	ExitAnalysisErr = 3
	ExitOutputError = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	snapshotPath := flag.String("snapshot", "", "Analyze a saved inventory snapshot (JSON) instead of the live daemon")
	outputDir := flag.String("output-dir", "", "Directory for the JSON report (overrides config)")
	containersOnly := flag.Bool("containers-only", false, "Print the container inventory and exit without analysis")
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("podshift %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	// Load configuration
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	// Setup logger
	logger := SetupLogger(cfg)
	logger.Info("starting podshift",
		"version", Version,
		"config", *configPath,
	)

	return analyze(context.Background(), cfg, logger, analyzeOptions{
		SnapshotPath:   *snapshotPath,
		ContainersOnly: *containersOnly,
	})
}
