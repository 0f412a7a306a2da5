// Package postgres provides a PostgreSQL-backed implementation of the build queue.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/queue"
)

// PostgresQueue implements queue.Queue using PostgreSQL.
type PostgresQueue struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresQueue creates a new PostgreSQL-backed queue.
func NewPostgresQueue(db *sql.DB, logger *slog.Logger) *PostgresQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresQueue{
		db:     db,
		logger: logger,
	}
}

// Enqueue adds a build start request to the queue.
// The build is serialized to JSON and stored in the build_queue table.
func (q *PostgresQueue) Enqueue(ctx context.Context, build *models.Build) error {
	buildData, err := json.Marshal(build)
	if err != nil {
		return fmt.Errorf("marshaling build to JSON: %w", err)
	}

	query := `
		INSERT INTO build_queue (id, build_data, status, created_at)
		VALUES ($1, $2, 'pending', $3)`

	now := time.Now().UTC()
	_, err = q.db.ExecContext(ctx, query, build.ID, buildData, now)
	if err != nil {
		return fmt.Errorf("inserting build into queue: %w", err)
	}

	q.logger.Debug("enqueued build request", "build_id", build.ID)
	return nil
}

// Dequeue retrieves and locks the next available build request.
// Uses SELECT FOR UPDATE SKIP LOCKED for concurrent consumer safety.
func (q *PostgresQueue) Dequeue(ctx context.Context) (*models.Build, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT id, build_data
		FROM build_queue
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	var buildID string
	var buildData []byte
	err = tx.QueryRowContext(ctx, selectQuery).Scan(&buildID, &buildData)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queue.ErrNoBuilds
		}
		return nil, fmt.Errorf("selecting build from queue: %w", err)
	}

	updateQuery := `
		UPDATE build_queue
		SET status = 'processing', started_at = $2
		WHERE id = $1`

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, updateQuery, buildID, now)
	if err != nil {
		return nil, fmt.Errorf("updating queued build status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	var build models.Build
	if err := json.Unmarshal(buildData, &build); err != nil {
		return nil, fmt.Errorf("unmarshaling build from JSON: %w", err)
	}

	q.logger.Debug("dequeued build request", "build_id", build.ID)
	return &build, nil
}

// Ack acknowledges successful hand-off, removing the request from the queue.
func (q *PostgresQueue) Ack(ctx context.Context, buildID string) error {
	query := `DELETE FROM build_queue WHERE id = $1`

	result, err := q.db.ExecContext(ctx, query, buildID)
	if err != nil {
		return fmt.Errorf("deleting queued build: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return queue.ErrBuildNotFound
	}

	q.logger.Debug("acked build request", "build_id", buildID)
	return nil
}

// Nack returns a request to the queue for redelivery.
func (q *PostgresQueue) Nack(ctx context.Context, buildID string) error {
	query := `
		UPDATE build_queue
		SET status = 'pending', started_at = NULL
		WHERE id = $1`

	result, err := q.db.ExecContext(ctx, query, buildID)
	if err != nil {
		return fmt.Errorf("returning build to queue: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return queue.ErrBuildNotFound
	}

	q.logger.Debug("nacked build request", "build_id", buildID)
	return nil
}
