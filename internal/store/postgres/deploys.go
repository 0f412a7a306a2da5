package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/store"
)

// DeployStore implements store.DeployStore using PostgreSQL.
type DeployStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Get retrieves a deploy by ID.
func (s *DeployStore) Get(ctx context.Context, id string) (*models.Deploy, error) {
	query := `
		SELECT id, project_id, target_commit, target_ref, requester,
			previous_release_commit, reuse_release_builds, status,
			created_at, updated_at
		FROM deploys
		WHERE id = $1`

	deploy := &models.Deploy{}
	var requester, previousReleaseCommit sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deploy.ID,
		&deploy.ProjectID,
		&deploy.TargetCommit,
		&deploy.TargetRef,
		&requester,
		&previousReleaseCommit,
		&deploy.ReuseReleaseBuilds,
		&deploy.Status,
		&deploy.CreatedAt,
		&deploy.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying deploy: %w", err)
	}

	if requester.Valid {
		deploy.Requester = requester.String
	}
	if previousReleaseCommit.Valid {
		deploy.PreviousReleaseCommit = previousReleaseCommit.String
	}

	return deploy, nil
}

// UpdateStatus records a deploy status transition.
func (s *DeployStore) UpdateStatus(ctx context.Context, id string, status models.DeployStatus) error {
	query := `
		UPDATE deploys
		SET status = $2, updated_at = $3
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating deploy status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}
