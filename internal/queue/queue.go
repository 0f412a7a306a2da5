// Package queue provides the work queue through which created builds are
// handed to the external build runner.
package queue

import (
	"context"
	"errors"

	"github.com/driftworks/slipway/internal/models"
)

// Common errors returned by queue operations.
var (
	// ErrNoBuilds is returned when no build requests are available.
	ErrNoBuilds = errors.New("no builds available")
	// ErrBuildNotFound is returned when a queued build cannot be found.
	ErrBuildNotFound = errors.New("queued build not found")
)

// Queue defines the interface for build hand-off operations. The resolution
// engine only enqueues; the external runner consumes.
type Queue interface {
	// Enqueue adds a build start request to the queue.
	// The build record is serialized to JSON for storage.
	Enqueue(ctx context.Context, build *models.Build) error

	// Dequeue retrieves and locks the next available build request.
	// Returns ErrNoBuilds if none are available.
	Dequeue(ctx context.Context) (*models.Build, error)

	// Ack acknowledges successful hand-off, removing the request.
	Ack(ctx context.Context, buildID string) error

	// Nack returns a request to the queue for redelivery.
	Nack(ctx context.Context, buildID string) error
}
