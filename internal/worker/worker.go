// Package worker drains the build hand-off queue and triggers each queued
// build on the remote runner. It is the consumer side of the queue the
// resolution engine enqueues into.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/queue"
)

// Starter triggers a dequeued build on the runner.
type Starter interface {
	Start(ctx context.Context, build *models.Build) error
}

// Worker consumes the build queue one request at a time. A build that fails
// to trigger is returned to the queue for redelivery.
type Worker struct {
	queue  queue.Queue
	runner Starter
	poll   time.Duration
	logger *slog.Logger
}

// New creates a Worker polling the queue at the given interval.
func New(q queue.Queue, runner Starter, poll time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &Worker{
		queue:  q,
		runner: runner,
		poll:   poll,
		logger: logger,
	}
}

// Run drains the queue until ctx is cancelled. An empty queue sleeps one
// poll interval; processing errors are logged and the loop continues.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("build queue worker started", "poll", w.poll)
	for {
		err := w.processOne(ctx)
		switch {
		case err == nil:
		case errors.Is(err, queue.ErrNoBuilds):
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.poll):
			}
			continue
		default:
			w.logger.Error("processing queued build", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

// processOne dequeues a single build, triggers it on the runner and acks it.
// A trigger failure nacks the build back onto the queue before surfacing the
// error.
func (w *Worker) processOne(ctx context.Context) error {
	build, err := w.queue.Dequeue(ctx)
	if err != nil {
		return err
	}

	if err := w.runner.Start(ctx, build); err != nil {
		if nackErr := w.queue.Nack(ctx, build.ID); nackErr != nil {
			w.logger.Error("returning build to queue", "error", nackErr, "build_id", build.ID)
		}
		return fmt.Errorf("triggering build %s: %w", build.ID, err)
	}

	if err := w.queue.Ack(ctx, build.ID); err != nil {
		return fmt.Errorf("acking build %s: %w", build.ID, err)
	}

	w.logger.Info("dispatched queued build", "build_id", build.ID)
	return nil
}
