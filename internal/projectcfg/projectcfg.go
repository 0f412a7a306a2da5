// Package projectcfg loads per-project build configuration from the
// project's slipway.yaml file.
package projectcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/driftworks/slipway/internal/models"
)

// File mirrors the slipway.yaml schema.
type File struct {
	Name                  string   `yaml:"name"`
	RepoURL               string   `yaml:"repo_url,omitempty"`
	Dockerfiles           []string `yaml:"dockerfiles,omitempty"`
	ImageTemplate         string   `yaml:"image_template,omitempty"`
	BuildCreationDisabled bool     `yaml:"build_creation_disabled,omitempty"`
	ReleaseBranch         string   `yaml:"release_branch,omitempty"`
}

// Load reads and validates a project configuration file.
func Load(path string) (*models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project config: %w", err)
	}
	return Parse(data)
}

// Parse decodes project configuration from YAML bytes.
func Parse(data []byte) (*models.Project, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing project config: %w", err)
	}

	if file.Name == "" {
		return nil, fmt.Errorf("project config: name is required")
	}

	seen := make(map[string]bool, len(file.Dockerfiles))
	for _, dockerfile := range file.Dockerfiles {
		if dockerfile == "" {
			return nil, fmt.Errorf("project config: empty dockerfile path")
		}
		if seen[dockerfile] {
			return nil, fmt.Errorf("project config: duplicate dockerfile %q", dockerfile)
		}
		seen[dockerfile] = true
	}

	return &models.Project{
		Name:                  file.Name,
		RepoURL:               file.RepoURL,
		Dockerfiles:           file.Dockerfiles,
		ImageTemplate:         file.ImageTemplate,
		BuildCreationDisabled: file.BuildCreationDisabled,
		ReleaseBranch:         file.ReleaseBranch,
	}, nil
}
