// Package composefiles discovers Compose files on disk and loads them
// into snapshot compose metadata. Parsing itself lives in the core;
// this package only walks the filesystem and reads files.
package composefiles

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/jeanremacle/PodShift/internal/core/compose"
	"github.com/jeanremacle/PodShift/internal/core/snapshot"
)

// =============================================================================
// Discovery
// =============================================================================

// composeFileNames are the filenames recognized as Compose files.
var composeFileNames = map[string]struct{}{
	"docker-compose.yml":  {},
	"docker-compose.yaml": {},
	"compose.yml":         {},
	"compose.yaml":        {},
}

// Discover walks the given roots and returns the paths of all Compose
// files found, sorted. Roots that do not exist are skipped. Unreadable
// subtrees are skipped rather than failing the walk.
func Discover(roots []string) ([]string, error) {
	var found []string

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			if _, ok := composeFileNames[filepath.Base(root)]; ok {
				found = append(found, root)
			}
			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := composeFileNames[d.Name()]; ok {
				found = append(found, path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walking %s: %w", root, walkErr)
		}
	}

	sort.Strings(found)
	return found, nil
}

// =============================================================================
// Loading
// =============================================================================

// Load reads and parses one Compose file. The project name is derived
// from the file's parent directory, matching the Compose CLI default.
func Load(path string) ([]snapshot.ComposeService, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	projectName := filepath.Base(filepath.Dir(path))
	project, err := compose.ParseProject(projectName, string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	services := make([]snapshot.ComposeService, 0, len(project.Services))
	for _, svc := range project.Services {
		services = append(services, snapshot.ComposeService{
			Project:     project.Name,
			Name:        svc.Name,
			DependsOn:   svc.DependsOn,
			Links:       svc.Links,
			VolumesFrom: svc.VolumesFrom,
			Networks:    svc.Networks,
		})
	}
	return services, nil
}

// LoadAll discovers and loads every Compose file under the given roots.
// Files that fail to parse are logged and skipped so one broken file
// does not block the rest of the inventory.
func LoadAll(roots []string, logger *slog.Logger) ([]snapshot.ComposeService, error) {
	paths, err := Discover(roots)
	if err != nil {
		return nil, err
	}

	var services []snapshot.ComposeService
	for _, path := range paths {
		loaded, loadErr := Load(path)
		if loadErr != nil {
			logger.Warn("skipping compose file", "path", path, "error", loadErr)
			continue
		}
		services = append(services, loaded...)
	}

	logger.Info("compose files loaded", "files", len(paths), "services", len(services))
	return services, nil
}
