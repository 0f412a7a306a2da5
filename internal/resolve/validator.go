package resolve

import (
	"context"
	"log/slog"

	"github.com/driftworks/slipway/internal/models"
)

// CheckRunner runs the registered post-build checks against a finished
// build. An empty verdict list means all checks passed.
type CheckRunner interface {
	Run(ctx context.Context, build *models.Build, deploy *models.Deploy) []bool
}

// Validator classifies a terminal build as usable, never-run, failed, or
// rejected by a post-build check.
type Validator struct {
	checks CheckRunner
	logger *slog.Logger
}

// NewValidator creates a new outcome Validator.
func NewValidator(checks CheckRunner, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		checks: checks,
		logger: logger,
	}
}

// Validate decides whether a terminal build is usable for the deploy.
//
// A build carrying a repository digest published an image; it is accepted
// unless a post-build check rejects it. A build without a digest either
// failed (its execution job's status is surfaced verbatim) or was never run
// at all, e.g. an external system created the record but no job picked it up.
func (v *Validator) Validate(ctx context.Context, build *models.Build, deploy *models.Deploy) error {
	if build.RepoDigest != "" {
		for _, ok := range v.checks.Run(ctx, build, deploy) {
			if !ok {
				return &PostBuildCheckFailedError{Build: build}
			}
		}
		v.logger.Debug("build validated",
			"build_id", build.ID,
			"repo_digest", build.RepoDigest,
		)
		return nil
	}

	if build.Job != nil {
		return &BuildNotSuccessfulError{Build: build, JobStatus: build.Job.Status}
	}

	return &BuildNeverRanError{Build: build}
}
