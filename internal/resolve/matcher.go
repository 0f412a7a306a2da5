package resolve

import "github.com/driftworks/slipway/internal/models"

// Matches reports whether a candidate build satisfies a selector. The short
// image name is compared first; when it is absent or differs, the dockerfile
// is compared. Pure and deterministic.
func Matches(build *models.Build, sel Selector) bool {
	if name := sel.ShortImageName(); name != "" && name == build.ImageName {
		return true
	}
	if sel.Dockerfile != "" && sel.Dockerfile == build.Dockerfile {
		return true
	}
	return false
}

// resolveSelector scans candidates in order and returns the first build
// matching the selector. When nothing matches: if failIfUnmatched is set the
// unresolved selector is a user-facing error carrying the candidate summary;
// otherwise nil is returned, meaning "not yet, keep polling or create it".
func resolveSelector(candidates []*models.Build, sel Selector, failIfUnmatched bool) (*models.Build, error) {
	for _, candidate := range candidates {
		if Matches(candidate, sel) {
			return candidate, nil
		}
	}
	if failIfUnmatched {
		return nil, &SelectorUnresolvedError{Selector: sel, Candidates: candidates}
	}
	return nil, nil
}
