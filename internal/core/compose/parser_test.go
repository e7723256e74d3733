package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ParseProject Tests
// =============================================================================

func TestParseProject_EmptyInput(t *testing.T) {
	_, err := ParseProject("app", "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ParseProject("app", "   \n  ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseProject_InvalidYAML(t *testing.T) {
	_, err := ParseProject("app", "services: [unclosed")
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestParseProject_NoServices(t *testing.T) {
	yaml := `
volumes:
  data:
`
	_, err := ParseProject("app", yaml)
	assert.Error(t, err)
}

func TestParseProject_SimpleService(t *testing.T) {
	yaml := `
services:
  web:
    image: nginx:1.27
`
	project, err := ParseProject("app", yaml)
	require.NoError(t, err)
	require.Len(t, project.Services, 1)
	assert.Equal(t, "web", project.Services[0].Name)
	assert.Equal(t, "nginx:1.27", project.Services[0].Image)
}

func TestParseProject_DependsOn(t *testing.T) {
	yaml := `
services:
  web:
    image: nginx
    depends_on:
      - api
      - cache
  api:
    image: app
    depends_on:
      db:
        condition: service_started
  cache:
    image: redis
  db:
    image: postgres
`
	project, err := ParseProject("app", yaml)
	require.NoError(t, err)
	require.Len(t, project.Services, 4)

	byName := make(map[string]Service)
	for _, s := range project.Services {
		byName[s.Name] = s
	}
	assert.Equal(t, []string{"api", "cache"}, byName["web"].DependsOn)
	assert.Equal(t, []string{"db"}, byName["api"].DependsOn)
}

func TestParseProject_LinksAndVolumesFrom(t *testing.T) {
	yaml := `
services:
  web:
    image: nginx
    links:
      - db:database
    volumes_from:
      - data
  db:
    image: postgres
  data:
    image: busybox
`
	project, err := ParseProject("app", yaml)
	require.NoError(t, err)

	byName := make(map[string]Service)
	for _, s := range project.Services {
		byName[s.Name] = s
	}
	assert.Equal(t, []string{"db:database"}, byName["web"].Links)
	assert.Equal(t, []string{"data"}, byName["web"].VolumesFrom)
}

func TestParseProject_VolumesAndNetworks(t *testing.T) {
	yaml := `
services:
  db:
    image: postgres
    networks:
      - backend
    volumes:
      - pgdata:/var/lib/postgresql/data:ro
networks:
  backend:
volumes:
  pgdata:
`
	project, err := ParseProject("app", yaml)
	require.NoError(t, err)
	assert.Equal(t, []string{"backend"}, project.Networks)
	assert.Equal(t, []string{"pgdata"}, project.Volumes)

	require.Len(t, project.Services[0].Volumes, 1)
	assert.Equal(t, "pgdata", project.Services[0].Volumes[0].Source)
	assert.Equal(t, "/var/lib/postgresql/data", project.Services[0].Volumes[0].Target)
	assert.True(t, project.Services[0].Volumes[0].ReadOnly)
}

func TestParseProject_Environment(t *testing.T) {
	yaml := `
services:
  web:
    image: nginx
    environment:
      DB_HOST: db
      DB_PORT: "5432"
`
	project, err := ParseProject("app", yaml)
	require.NoError(t, err)
	assert.Equal(t, "db", project.Services[0].Environment["DB_HOST"])
	assert.Equal(t, "5432", project.Services[0].Environment["DB_PORT"])
}

func TestParseProject_CircularDependency(t *testing.T) {
	yaml := `
services:
  a:
    image: one
    depends_on:
      - b
  b:
    image: two
    depends_on:
      - a
`
	_, err := ParseProject("app", yaml)
	assert.ErrorIs(t, err, ErrCircularDependency)
}

func TestParseProject_ServicesSortedByName(t *testing.T) {
	yaml := `
services:
  zeta:
    image: z
  alpha:
    image: a
`
	project, err := ParseProject("app", yaml)
	require.NoError(t, err)
	assert.Equal(t, "alpha", project.Services[0].Name)
	assert.Equal(t, "zeta", project.Services[1].Name)
}
