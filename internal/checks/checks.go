// Package checks provides the post-build check extension point: an ordered
// list of project-specific validations run against a successfully built
// image before a deploy accepts it.
package checks

import (
	"context"
	"log/slog"

	"github.com/driftworks/slipway/internal/models"
)

// Check inspects a finished build in the context of its deploy and returns
// a verdict. A false verdict rejects the build.
type Check interface {
	Name() string
	Check(ctx context.Context, build *models.Build, deploy *models.Deploy) bool
}

// CheckFunc adapts a plain function to the Check interface.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context, build *models.Build, deploy *models.Deploy) bool
}

func (c CheckFunc) Name() string { return c.CheckName }

func (c CheckFunc) Check(ctx context.Context, build *models.Build, deploy *models.Deploy) bool {
	return c.Fn(ctx, build, deploy)
}

// Registry holds the ordered list of registered checks. Checks run
// synchronously in registration order; an empty registry passes everything.
type Registry struct {
	checks []Check
	logger *slog.Logger
}

// NewRegistry creates a Registry with the given checks.
func NewRegistry(logger *slog.Logger, checks ...Check) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		checks: checks,
		logger: logger,
	}
}

// Register appends a check to the registry.
func (r *Registry) Register(check Check) {
	r.checks = append(r.checks, check)
}

// Run executes every registered check in order and returns their verdicts.
// An empty slice means there was nothing to object: all checks passed.
func (r *Registry) Run(ctx context.Context, build *models.Build, deploy *models.Deploy) []bool {
	verdicts := make([]bool, 0, len(r.checks))
	for _, check := range r.checks {
		ok := check.Check(ctx, build, deploy)
		if !ok {
			r.logger.Warn("post-build check rejected build",
				"check", check.Name(),
				"build_id", build.ID,
				"deploy_id", deploy.ID,
			)
		}
		verdicts = append(verdicts, ok)
	}
	return verdicts
}
