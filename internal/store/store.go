// Package store provides database access interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/driftworks/slipway/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// BuildStore defines operations for build record management.
type BuildStore interface {
	// Create inserts a new build record. Plain insert; near-duplicate
	// builds from concurrent callers are tolerated at the data-model level.
	Create(ctx context.Context, build *models.Build) error
	// Get retrieves a build by ID, including any attached execution job.
	Get(ctx context.Context, id string) (*models.Build, error)
	// FindByCommits retrieves all builds whose source commit is in the
	// given list. Results are ordered by the position of their commit in
	// the list (earlier commits rank first), then by creation time.
	FindByCommits(ctx context.Context, commits []string) ([]*models.Build, error)
	// Update persists runner-side mutations (status, digest, job).
	Update(ctx context.Context, build *models.Build) error
	// ListByProject retrieves all builds for a given project.
	ListByProject(ctx context.Context, projectID string) ([]*models.Build, error)
}

// ProjectStore defines operations for project configuration records.
type ProjectStore interface {
	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (*models.Project, error)
	// GetByName retrieves a project by name.
	GetByName(ctx context.Context, name string) (*models.Project, error)
}

// DeployStore defines operations for deploy records.
type DeployStore interface {
	// Get retrieves a deploy by ID.
	Get(ctx context.Context, id string) (*models.Deploy, error)
	// UpdateStatus records a deploy status transition.
	UpdateStatus(ctx context.Context, id string, status models.DeployStatus) error
}

// Store is the main interface for database operations.
type Store interface {
	// Builds returns the BuildStore for build record operations.
	Builds() BuildStore
	// Projects returns the ProjectStore for project configuration.
	Projects() ProjectStore
	// Deploys returns the DeployStore for deploy records.
	Deploys() DeployStore

	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
