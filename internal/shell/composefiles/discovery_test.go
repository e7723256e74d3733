package composefiles

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const sampleCompose = `
services:
  web:
    image: nginx
    depends_on:
      - db
    networks:
      - backend
  db:
    image: postgres
networks:
  backend:
`

// =============================================================================
// Discover Tests
// =============================================================================

func TestDiscover_FindsNestedComposeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "docker-compose.yml"), sampleCompose)
	writeFile(t, filepath.Join(root, "other", "compose.yaml"), sampleCompose)
	writeFile(t, filepath.Join(root, "app", "README.md"), "not compose")

	found, err := Discover([]string{root})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, filepath.Join(root, "app", "docker-compose.yml"), found[0])
	assert.Equal(t, filepath.Join(root, "other", "compose.yaml"), found[1])
}

func TestDiscover_MissingRootSkipped(t *testing.T) {
	found, err := Discover([]string{"/does/not/exist"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestDiscover_DirectFilePath(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "compose.yml")
	writeFile(t, path, sampleCompose)

	found, err := Discover([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, found)
}

// =============================================================================
// Load Tests
// =============================================================================

func TestLoad_ProjectFromParentDir(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "shop", "docker-compose.yml")
	writeFile(t, path, sampleCompose)

	services, err := Load(path)
	require.NoError(t, err)
	require.Len(t, services, 2)

	assert.Equal(t, "shop", services[0].Project)
	assert.Equal(t, "db", services[0].Name)
	assert.Equal(t, "web", services[1].Name)
	assert.Equal(t, []string{"db"}, services[1].DependsOn)
	assert.Equal(t, []string{"backend"}, services[1].Networks)
}

func TestLoad_ParseFailure(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "docker-compose.yml")
	writeFile(t, path, "services: [broken")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadAll_SkipsBrokenFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good", "compose.yml"), sampleCompose)
	writeFile(t, filepath.Join(root, "bad", "compose.yml"), "services: [broken")

	services, err := LoadAll([]string{root}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Len(t, services, 2)
}
