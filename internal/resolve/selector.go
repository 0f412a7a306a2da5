// Package resolve implements the build resolution and synchronization
// engine: it discovers or creates the builds a deploy depends on, waits for
// them to finish, and validates that each one is usable.
package resolve

import (
	"fmt"
	"strings"

	"github.com/driftworks/slipway/internal/models"
)

// Selector is a single build requirement: a deploy needs one build matching
// this dockerfile or this image reference. At least one field is set.
type Selector struct {
	Dockerfile string
	ImageRef   string
}

func (s Selector) String() string {
	switch {
	case s.Dockerfile != "" && s.ImageRef != "":
		return fmt.Sprintf("selector(dockerfile=%q image=%q)", s.Dockerfile, s.ImageRef)
	case s.Dockerfile != "":
		return fmt.Sprintf("selector(dockerfile=%q)", s.Dockerfile)
	default:
		return fmt.Sprintf("selector(image=%q)", s.ImageRef)
	}
}

// ShortImageName returns the selector's image reference stripped of its
// registry path prefix and tag/digest suffix, or "" when no image reference
// is set.
func (s Selector) ShortImageName() string {
	return ShortImageName(s.ImageRef)
}

// ShortImageName reduces an image reference to the bare image name: the
// substring after the last "/" and before the first ":" or "@". It is the
// loose-matching key between selectors and builds, so "registry/app:v1" and
// "registry/app@sha256:..." both reduce to "app".
func ShortImageName(ref string) string {
	if ref == "" {
		return ""
	}
	name := ref
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexAny(name, ":@"); i >= 0 {
		name = name[:i]
	}
	return name
}

// SelectorsFor derives the selector set for a deploy. An explicit override
// list is used verbatim; otherwise one selector is produced per configured
// dockerfile, paired with the project's computed image reference. A project
// with no dockerfiles and no overrides yields an empty set: deploys with no
// image dependency must not block.
func SelectorsFor(project *models.Project, overrides []Selector) []Selector {
	if len(overrides) > 0 {
		return overrides
	}

	selectors := make([]Selector, 0, len(project.Dockerfiles))
	for _, dockerfile := range project.Dockerfiles {
		selectors = append(selectors, Selector{
			Dockerfile: dockerfile,
			ImageRef:   project.ImageFor(dockerfile),
		})
	}
	return selectors
}
