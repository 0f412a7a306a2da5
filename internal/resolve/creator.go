package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/store"
)

// FileChecker answers whether a path exists in the source tree at a commit.
type FileChecker interface {
	FileExists(ctx context.Context, path, commit string) (bool, error)
}

// Executor hands a created build to the external build runner. Start is
// fire-and-forget: the runner asynchronously mutates the build's status and
// digest and, on failure, attaches an execution job.
type Executor interface {
	Start(ctx context.Context, build *models.Build) error
}

// Creator creates missing build records after confirming the dockerfile
// exists at the target commit.
type Creator struct {
	builds   store.BuildStore
	repo     FileChecker
	executor Executor
	logger   *slog.Logger
}

// NewCreator creates a new Creator.
func NewCreator(builds store.BuildStore, repo FileChecker, executor Executor, logger *slog.Logger) *Creator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Creator{
		builds:   builds,
		repo:     repo,
		executor: executor,
		logger:   logger,
	}
}

// Create inserts a build for the selector's dockerfile at the deploy's
// commit and hands it to the build runner. It returns the created build
// immediately, without waiting for the runner to finish or even start it.
// The build's image name follows the selector's image reference when one is
// set, so an override selector produces the record it asked for; otherwise
// the project's image template applies.
func (c *Creator) Create(ctx context.Context, deploy *models.Deploy, project *models.Project, sel Selector) (*models.Build, error) {
	exists, err := c.repo.FileExists(ctx, sel.Dockerfile, deploy.TargetCommit)
	if err != nil {
		return nil, fmt.Errorf("checking dockerfile %q at commit %s: %w",
			sel.Dockerfile, shortCommit(deploy.TargetCommit), err)
	}
	if !exists {
		return nil, &DockerfileMissingError{Dockerfile: sel.Dockerfile, Commit: deploy.TargetCommit}
	}

	imageName := sel.ShortImageName()
	if imageName == "" {
		imageName = ShortImageName(project.ImageFor(sel.Dockerfile))
	}

	build := &models.Build{
		ID:           uuid.New().String(),
		ProjectID:    project.ID,
		Name:         fmt.Sprintf("deploy-%s-%s", deploy.ID, imageName),
		SourceCommit: deploy.TargetCommit,
		SourceRef:    deploy.TargetRef,
		Requester:    deploy.Requester,
		Dockerfile:   sel.Dockerfile,
		ImageName:    imageName,
		Status:       models.BuildStatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	if err := c.builds.Create(ctx, build); err != nil {
		return nil, fmt.Errorf("creating build for %q: %w", sel.Dockerfile, err)
	}

	if err := c.executor.Start(ctx, build); err != nil {
		return nil, fmt.Errorf("starting build %s: %w", build.ID, err)
	}

	c.logger.Info("created build",
		"build_id", build.ID,
		"deploy_id", deploy.ID,
		"dockerfile", sel.Dockerfile,
		"image_name", build.ImageName,
	)

	return build, nil
}
