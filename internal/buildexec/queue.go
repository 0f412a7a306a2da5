// Package buildexec hands created builds to the external build runner.
// Start is fire-and-forget: the runner asynchronously mutates the build's
// status and digest and, on failure, attaches an execution job.
package buildexec

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/queue"
)

// QueueExecutor hands builds off through the shared Postgres work queue,
// from which the runner's workers dequeue them.
type QueueExecutor struct {
	queue  queue.Queue
	logger *slog.Logger
}

// NewQueueExecutor creates a queue-backed executor.
func NewQueueExecutor(q queue.Queue, logger *slog.Logger) *QueueExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueExecutor{
		queue:  q,
		logger: logger,
	}
}

// Start enqueues the build and returns without waiting for a worker to pick
// it up.
func (e *QueueExecutor) Start(ctx context.Context, build *models.Build) error {
	if err := e.queue.Enqueue(ctx, build); err != nil {
		return fmt.Errorf("enqueueing build %s: %w", build.ID, err)
	}

	e.logger.Info("handed build to runner queue", "build_id", build.ID)
	return nil
}
