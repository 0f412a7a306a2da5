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

// BuildStore implements store.BuildStore using PostgreSQL.
type BuildStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const buildColumns = `id, project_id, name, source_commit, source_ref, requester,
	dockerfile, image_name, status, repo_digest, is_external, url,
	job_id, job_status, job_url, created_at, started_at, finished_at`

// Create inserts a new build record.
func (s *BuildStore) Create(ctx context.Context, build *models.Build) error {
	query := `
		INSERT INTO builds (id, project_id, name, source_commit, source_ref, requester,
			dockerfile, image_name, status, repo_digest, is_external, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	now := time.Now().UTC()
	if build.CreatedAt.IsZero() {
		build.CreatedAt = now
	}

	// Handle nullable dockerfile
	var dockerfile sql.NullString
	if build.Dockerfile != "" {
		dockerfile = sql.NullString{String: build.Dockerfile, Valid: true}
	}

	// Handle nullable repo_digest
	var repoDigest sql.NullString
	if build.RepoDigest != "" {
		repoDigest = sql.NullString{String: build.RepoDigest, Valid: true}
	}

	err := s.db.QueryRowContext(ctx, query,
		build.ID,
		build.ProjectID,
		build.Name,
		build.SourceCommit,
		build.SourceRef,
		build.Requester,
		dockerfile,
		build.ImageName,
		build.Status,
		repoDigest,
		build.External,
		build.URL,
		build.CreatedAt,
	).Scan(&build.ID, &build.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting build: %w", err)
	}

	return nil
}

// Get retrieves a build by ID.
func (s *BuildStore) Get(ctx context.Context, id string) (*models.Build, error) {
	query := `
		SELECT ` + buildColumns + `
		FROM builds
		WHERE id = $1`

	build, err := scanBuild(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying build: %w", err)
	}

	return build, nil
}

// FindByCommits retrieves all builds whose source commit is in the given
// list, ordered by the commit's position in the list and then by creation
// time. Position ordering is what ranks own-commit builds ahead of builds
// reused from a previous release.
func (s *BuildStore) FindByCommits(ctx context.Context, commits []string) ([]*models.Build, error) {
	if len(commits) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + buildColumns + `
		FROM builds
		WHERE source_commit = ANY($1::text[])
		ORDER BY array_position($1::text[], source_commit), created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, commits)
	if err != nil {
		return nil, fmt.Errorf("querying builds by commits: %w", err)
	}
	defer rows.Close()

	var builds []*models.Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning build row: %w", err)
		}
		builds = append(builds, build)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating build rows: %w", err)
	}

	return builds, nil
}

// Update persists runner-side mutations (status, digest, job, timestamps).
func (s *BuildStore) Update(ctx context.Context, build *models.Build) error {
	query := `
		UPDATE builds
		SET status = $2, repo_digest = $3, url = $4,
			job_id = $5, job_status = $6, job_url = $7,
			started_at = $8, finished_at = $9
		WHERE id = $1`

	var repoDigest sql.NullString
	if build.RepoDigest != "" {
		repoDigest = sql.NullString{String: build.RepoDigest, Valid: true}
	}

	var jobID, jobStatus, jobURL sql.NullString
	if build.Job != nil {
		jobID = sql.NullString{String: build.Job.ID, Valid: true}
		jobStatus = sql.NullString{String: build.Job.Status, Valid: true}
		if build.Job.URL != "" {
			jobURL = sql.NullString{String: build.Job.URL, Valid: true}
		}
	}

	result, err := s.db.ExecContext(ctx, query,
		build.ID,
		build.Status,
		repoDigest,
		build.URL,
		jobID,
		jobStatus,
		jobURL,
		build.StartedAt,
		build.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("updating build: %w", err)
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

// ListByProject retrieves all builds for a given project, newest first.
func (s *BuildStore) ListByProject(ctx context.Context, projectID string) ([]*models.Build, error) {
	query := `
		SELECT ` + buildColumns + `
		FROM builds
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying builds by project: %w", err)
	}
	defer rows.Close()

	var builds []*models.Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning build row: %w", err)
		}
		builds = append(builds, build)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating build rows: %w", err)
	}

	return builds, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanBuild scans one build row, materializing nullable columns and the
// optionally attached execution job.
func scanBuild(row rowScanner) (*models.Build, error) {
	build := &models.Build{}
	var dockerfile, repoDigest sql.NullString
	var jobID, jobStatus, jobURL sql.NullString
	var startedAt, finishedAt sql.NullTime

	err := row.Scan(
		&build.ID,
		&build.ProjectID,
		&build.Name,
		&build.SourceCommit,
		&build.SourceRef,
		&build.Requester,
		&dockerfile,
		&build.ImageName,
		&build.Status,
		&repoDigest,
		&build.External,
		&build.URL,
		&jobID,
		&jobStatus,
		&jobURL,
		&build.CreatedAt,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	if dockerfile.Valid {
		build.Dockerfile = dockerfile.String
	}
	if repoDigest.Valid {
		build.RepoDigest = repoDigest.String
	}
	if jobID.Valid {
		build.Job = &models.ExecutionJob{
			ID:      jobID.String,
			BuildID: build.ID,
			Status:  jobStatus.String,
		}
		if jobURL.Valid {
			build.Job.URL = jobURL.String
		}
	}
	if startedAt.Valid {
		build.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		build.FinishedAt = &finishedAt.Time
	}

	return build, nil
}
