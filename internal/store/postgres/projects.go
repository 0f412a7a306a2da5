package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/store"
)

// ProjectStore implements store.ProjectStore using PostgreSQL.
type ProjectStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const projectColumns = `id, name, repo_url, dockerfiles, image_template,
	build_creation_disabled, release_branch, created_at, updated_at`

// Get retrieves a project by ID.
func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = $1`

	return scanProject(s.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a project by name.
func (s *ProjectStore) GetByName(ctx context.Context, name string) (*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE name = $1`

	return scanProject(s.db.QueryRowContext(ctx, query, name))
}

// scanProject scans one project row. The dockerfile list is stored as a
// JSON array to preserve its configured order.
func scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	var repoURL, imageTemplate, releaseBranch sql.NullString
	var dockerfiles []byte

	err := row.Scan(
		&project.ID,
		&project.Name,
		&repoURL,
		&dockerfiles,
		&imageTemplate,
		&project.BuildCreationDisabled,
		&releaseBranch,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying project: %w", err)
	}

	if len(dockerfiles) > 0 {
		if err := json.Unmarshal(dockerfiles, &project.Dockerfiles); err != nil {
			return nil, fmt.Errorf("unmarshaling dockerfile list: %w", err)
		}
	}
	if repoURL.Valid {
		project.RepoURL = repoURL.String
	}
	if imageTemplate.Valid {
		project.ImageTemplate = imageTemplate.String
	}
	if releaseBranch.Valid {
		project.ReleaseBranch = releaseBranch.String
	}

	return project, nil
}
