package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/store"
	"github.com/driftworks/slipway/pkg/config"
)

// Waiter blocks until a single build leaves its active state or the deploy
// is cancelled. Cancellation is an early, silent exit, never an error.
type Waiter struct {
	builds store.BuildStore
	clock  Clock
	output Output
	logger *slog.Logger
	cfg    config.ResolverConfig
}

// NewWaiter creates a new completion Waiter.
func NewWaiter(builds store.BuildStore, clock Clock, output Output, cfg config.ResolverConfig, logger *slog.Logger) *Waiter {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = RealClock()
	}
	if output == nil {
		output = NewLogOutput(logger)
	}
	return &Waiter{
		builds: builds,
		clock:  clock,
		output: output,
		logger: logger,
		cfg:    cfg,
	}
}

// Wait polls the build's status on a fixed cadence until it is terminal or
// the token is cancelled, and returns the freshest build record it read. A
// build that is already terminal returns immediately.
func (w *Waiter) Wait(ctx context.Context, token *CancelToken, build *models.Build) (*models.Build, error) {
	if !build.Active() {
		w.output.Sayf("Build %s finished: %s", build.Name, build.URL)
		return build, nil
	}

	w.output.Sayf("Waiting for build %s: %s", build.Name, build.URL)

	started := w.clock.Now()
	defer func() {
		w.logger.Info("build wait complete",
			"build_id", build.ID,
			"duration", w.clock.Now().Sub(started),
		)
	}()

	current := build
	for current.Active() {
		if token.Cancelled() {
			return current, nil
		}

		w.clock.Sleep(w.cfg.CompletionInterval)

		if token.Cancelled() {
			return current, nil
		}

		refreshed, err := w.builds.Get(ctx, current.ID)
		if err != nil {
			return nil, fmt.Errorf("re-reading build %s: %w", current.ID, err)
		}
		current = refreshed
	}

	w.output.Sayf("Build %s finished: %s", current.Name, current.URL)
	return current, nil
}
