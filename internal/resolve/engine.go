package resolve

import (
	"context"
	"log/slog"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/store"
	"github.com/driftworks/slipway/pkg/config"
)

// Engine answers the one question the deploy pipeline asks: are the builds
// this deploy requires ready, and are they good? It discovers or creates
// them, waits for each to reach a terminal state, and validates the outcome.
type Engine struct {
	poller    *Poller
	waiter    *Waiter
	validator *Validator
	logger    *slog.Logger
}

// NewEngine wires the discovery poller, completion waiter and outcome
// validator into one resolution pipeline.
func NewEngine(builds store.BuildStore, repo FileChecker, executor Executor, checks CheckRunner, clock Clock, output Output, cfg config.ResolverConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	creator := NewCreator(builds, repo, executor, logger)
	return &Engine{
		poller:    NewPoller(builds, creator, clock, output, cfg, logger),
		waiter:    NewWaiter(builds, clock, output, cfg, logger),
		validator: NewValidator(checks, logger),
		logger:    logger,
	}
}

// Run resolves the deploy's selector set and synchronizes on the result:
// every selector is mapped to a build, each build is waited on until
// terminal, and each terminal build is validated, strictly one build at a
// time. A cancelled deploy returns the builds resolved so far with no error
// and skips validation; every other failure aborts the remaining pipeline.
func (e *Engine) Run(ctx context.Context, token *CancelToken, deploy *models.Deploy, project *models.Project, overrides []Selector) ([]*models.Build, error) {
	selectors := SelectorsFor(project, overrides)
	if len(selectors) == 0 {
		e.logger.Debug("no build selectors for deploy", "deploy_id", deploy.ID)
		return nil, nil
	}

	builds, err := e.poller.Resolve(ctx, token, deploy, project, selectors)
	if err != nil {
		return nil, err
	}

	finished := make([]*models.Build, 0, len(builds))
	for _, build := range builds {
		waited, err := e.waiter.Wait(ctx, token, build)
		if err != nil {
			return nil, err
		}
		finished = append(finished, waited)

		if token.Cancelled() {
			return finished, nil
		}

		if err := e.validator.Validate(ctx, waited, deploy); err != nil {
			return nil, err
		}
	}

	return finished, nil
}
