package models

import (
	"path"
	"strings"
	"time"
)

// DefaultImageTemplate is used when a project does not configure its own
// image template. {project} is the project name, {stem} the dockerfile stem.
const DefaultImageTemplate = "{project}/{stem}"

// Project holds the per-project build configuration the resolution engine
// reads. It is never mutated by the engine.
type Project struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	RepoURL               string    `json:"repo_url,omitempty"`
	Dockerfiles           []string  `json:"dockerfiles,omitempty"`
	ImageTemplate         string    `json:"image_template,omitempty"`
	BuildCreationDisabled bool      `json:"build_creation_disabled"`
	ReleaseBranch         string    `json:"release_branch,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ImageFor computes the image reference for one of the project's
// dockerfiles by expanding the image template.
//
// The {stem} placeholder is the dockerfile's base name without a leading
// "Dockerfile." prefix or trailing ".dockerfile" suffix; a dockerfile named
// exactly "Dockerfile" yields the project name as stem.
func (p *Project) ImageFor(dockerfile string) string {
	template := p.ImageTemplate
	if template == "" {
		template = DefaultImageTemplate
	}

	ref := strings.ReplaceAll(template, "{project}", p.Name)
	ref = strings.ReplaceAll(ref, "{stem}", dockerfileStem(dockerfile, p.Name))
	return ref
}

// dockerfileStem derives the image-name stem from a dockerfile path.
func dockerfileStem(dockerfile, fallback string) string {
	base := path.Base(dockerfile)

	switch {
	case base == "Dockerfile" || base == "dockerfile":
		// Conventional single dockerfile at any depth.
		if dir := path.Dir(dockerfile); dir != "." && dir != "/" {
			return path.Base(dir)
		}
		return fallback
	case strings.HasPrefix(base, "Dockerfile."):
		return strings.TrimPrefix(base, "Dockerfile.")
	case strings.HasSuffix(base, ".dockerfile"):
		return strings.TrimSuffix(base, ".dockerfile")
	default:
		return base
	}
}
