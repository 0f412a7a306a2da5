package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/driftworks/slipway/internal/models"
)

// ErrSelectorInvariant signals a discovery pass that exhausted its budget
// with a selector that can neither be matched nor created. Selectors are
// always seeded with a dockerfile or an image, so reaching this state means
// an upstream configuration or programming defect, not a user error.
var ErrSelectorInvariant = errors.New("unresolved selector with no dockerfile on final discovery attempt")

// SelectorUnresolvedError is returned when no candidate build satisfies a
// selector and no new build may be created for it.
type SelectorUnresolvedError struct {
	Selector   Selector
	Candidates []*models.Build
}

func (e *SelectorUnresolvedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no build found for %s", e.Selector)
	if len(e.Candidates) == 0 {
		b.WriteString("; no candidate builds exist for the deploy's commits")
		return b.String()
	}
	b.WriteString("; candidates:")
	for _, c := range e.Candidates {
		fmt.Fprintf(&b, " (dockerfile=%q image=%q)", c.Dockerfile, c.ImageName)
	}
	return b.String()
}

// DockerfileMissingError is returned when a build should be created but the
// dockerfile does not exist in the source tree at the target commit.
type DockerfileMissingError struct {
	Dockerfile string
	Commit     string
}

func (e *DockerfileMissingError) Error() string {
	return fmt.Sprintf("dockerfile %q does not exist at commit %s", e.Dockerfile, shortCommit(e.Commit))
}

// BuildNotSuccessfulError is returned when a terminal build produced no
// image digest and its execution job reports a non-success status.
type BuildNotSuccessfulError struct {
	Build     *models.Build
	JobStatus string
}

func (e *BuildNotSuccessfulError) Error() string {
	return fmt.Sprintf("build %s did not succeed (job status %q); rerun the build and retry the deploy: %s",
		e.Build.Name, e.JobStatus, e.Build.URL)
}

// BuildNeverRanError is returned when a build record exists but no execution
// job was ever attached to it, e.g. an external system created the row but
// never ran it.
type BuildNeverRanError struct {
	Build *models.Build
}

func (e *BuildNeverRanError) Error() string {
	return fmt.Sprintf("build %s was never run: %s", e.Build.Name, e.Build.URL)
}

// PostBuildCheckFailedError is returned when a successfully built image is
// rejected by a registered post-build check.
type PostBuildCheckFailedError struct {
	Build *models.Build
}

func (e *PostBuildCheckFailedError) Error() string {
	return fmt.Sprintf("build %s failed a post-build check: %s", e.Build.Name, e.Build.URL)
}

// shortCommit abbreviates a commit sha for messages.
func shortCommit(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
