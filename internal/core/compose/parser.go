package compose

import (
	"context"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Parser Functions
// =============================================================================

// ParseProject parses Docker Compose YAML into a Project.
// This is a pure function - no I/O, no side effects.
// Input: project name plus raw YAML string.
// Output: Project struct or error.
func ParseProject(name, yamlContent string) (*Project, error) {
	if strings.TrimSpace(yamlContent) == "" {
		return nil, ErrEmptyInput
	}

	project, err := loadProject(name, yamlContent)
	if err != nil {
		return nil, err
	}

	if len(project.Services) == 0 {
		return nil, ErrNoServices
	}

	out := &Project{
		Name:     name,
		Services: make([]Service, 0, len(project.Services)),
	}

	serviceNames := make([]string, 0, len(project.Services))
	for svcName := range project.Services {
		serviceNames = append(serviceNames, svcName)
	}
	sort.Strings(serviceNames)

	for _, svcName := range serviceNames {
		out.Services = append(out.Services, convertService(project.Services[svcName]))
	}

	for netName := range project.Networks {
		out.Networks = append(out.Networks, netName)
	}
	sort.Strings(out.Networks)

	for volName := range project.Volumes {
		out.Volumes = append(out.Volumes, volName)
	}
	sort.Strings(out.Volumes)

	return out, nil
}

// loadProject loads a compose project using compose-go.
func loadProject(name, yamlContent string) (*types.Project, error) {
	// Parse YAML into a map first
	var dict map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlContent), &dict); err != nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}
	if dict == nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}

	project, err := loader.LoadWithContext(context.Background(), types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Content: []byte(yamlContent),
				Config:  dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName(name, false)
		opts.SkipValidation = false
		opts.SkipInterpolation = false
		// Don't resolve paths since we're in-memory
		opts.SkipNormalization = true
		opts.SkipExtends = true // Don't try to load external files
	})
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "dependency cycle detected") {
			return nil, NewParseError("", "circular dependency detected", ErrCircularDependency)
		}
		return nil, NewParseError("", errStr, ErrInvalidYAML)
	}

	return project, nil
}

// convertService converts a compose-go service to our Service type.
func convertService(svc types.ServiceConfig) Service {
	service := Service{
		Name:        svc.Name,
		Image:       svc.Image,
		Environment: make(map[string]string),
	}

	for dep := range svc.DependsOn {
		service.DependsOn = append(service.DependsOn, dep)
	}
	sort.Strings(service.DependsOn)

	service.Links = append(service.Links, svc.Links...)
	service.VolumesFrom = append(service.VolumesFrom, svc.VolumesFrom...)

	for net := range svc.Networks {
		service.Networks = append(service.Networks, net)
	}
	sort.Strings(service.Networks)

	for _, v := range svc.Volumes {
		service.Volumes = append(service.Volumes, ServiceVolume{
			Source:   v.Source,
			Target:   v.Target,
			ReadOnly: v.ReadOnly,
		})
	}

	for k, v := range svc.Environment {
		if v != nil {
			service.Environment[k] = *v
		}
	}

	return service
}
