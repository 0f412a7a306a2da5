package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/store"
	"github.com/driftworks/slipway/pkg/config"
)

// pollState is the discovery poller's state.
type pollState int

const (
	statePolling pollState = iota
	stateExhausted
)

// Poller discovers the builds satisfying a deploy's selectors, polling the
// candidate pool until every selector is resolved or its retry budget is
// exhausted. On the final attempt it triggers creation of missing builds.
type Poller struct {
	builds  store.BuildStore
	creator *Creator
	clock   Clock
	output  Output
	logger  *slog.Logger
	cfg     config.ResolverConfig
}

// NewPoller creates a new discovery Poller.
func NewPoller(builds store.BuildStore, creator *Creator, clock Clock, output Output, cfg config.ResolverConfig, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = RealClock()
	}
	if output == nil {
		output = NewLogOutput(logger)
	}
	return &Poller{
		builds:  builds,
		creator: creator,
		clock:   clock,
		output:  output,
		logger:  logger,
		cfg:     cfg,
	}
}

// retryBudget computes how long discovery may wait before the final attempt.
//
// When build creation is disabled the engine can only wait for someone else
// to create the build, so the configurable external-build wait applies. A
// configured release branch gets a short fixed wait to absorb the race with
// the CI webhook that may be creating the same build. Otherwise there is
// nothing to wait for: resolve once and immediately create what is missing.
func (p *Poller) retryBudget(project *models.Project) time.Duration {
	switch {
	case project.BuildCreationDisabled:
		return p.cfg.ExternalBuildWait
	case project.ReleaseBranch != "":
		return p.cfg.ReleaseRaceWait
	default:
		return 0
	}
}

// Resolve maps every selector to exactly one build, polling the candidate
// pool until all are matched or the budget runs out. Cancellation stops the
// loop after the current tick and returns the builds resolved so far without
// error. Any other early return is a failure covering the whole set.
func (p *Poller) Resolve(ctx context.Context, token *CancelToken, deploy *models.Deploy, project *models.Project, selectors []Selector) ([]*models.Build, error) {
	if len(selectors) == 0 {
		return nil, nil
	}

	resolved := make(map[int]*models.Build, len(selectors))
	created := make(map[string]*models.Build)
	remaining := p.retryBudget(project)
	commits := deploy.CandidateCommits()
	state := statePolling

	for state == statePolling {
		if token.Cancelled() {
			break
		}

		// The budget is spent before the last-try determination, so a
		// zero budget makes the very first tick the final attempt.
		remaining -= p.cfg.DiscoveryInterval
		finalAttempt := remaining < 0

		candidates, err := p.builds.FindByCommits(ctx, commits)
		if err != nil {
			return nil, fmt.Errorf("fetching candidate builds: %w", err)
		}

		allResolved := true
		for i, sel := range selectors {
			if resolved[i] != nil {
				continue
			}

			build, err := p.resolveOne(ctx, deploy, project, sel, candidates, created, finalAttempt)
			if err != nil {
				return nil, err
			}
			if build == nil {
				allResolved = false
				continue
			}
			resolved[i] = build
		}

		switch {
		case allResolved:
			state = stateExhausted
		case finalAttempt:
			// resolveOne either matched, created, or errored on the
			// final attempt, so every selector is accounted for.
			state = stateExhausted
		default:
			p.clock.Sleep(p.cfg.DiscoveryInterval)
		}
	}

	builds := make([]*models.Build, 0, len(selectors))
	for i := range selectors {
		if resolved[i] != nil {
			builds = append(builds, resolved[i])
		}
	}
	return builds, nil
}

// resolveOne attempts to satisfy a single selector from the candidate pool.
// Before the final attempt an unmatched selector simply stays pending. On
// the final attempt an unmatched selector becomes a fatal failure when build
// creation is disabled, a freshly created build when a dockerfile is known,
// and an invariant violation otherwise.
func (p *Poller) resolveOne(ctx context.Context, deploy *models.Deploy, project *models.Project, sel Selector, candidates []*models.Build, created map[string]*models.Build, finalAttempt bool) (*models.Build, error) {
	failIfUnmatched := finalAttempt && project.BuildCreationDisabled
	build, err := resolveSelector(candidates, sel, failIfUnmatched)
	if err != nil {
		return nil, err
	}
	if build != nil {
		p.output.Sayf("Found build %s for %s", build.Name, sel)
		return build, nil
	}
	if !finalAttempt {
		return nil, nil
	}

	if sel.Dockerfile == "" {
		return nil, fmt.Errorf("%w: %s", ErrSelectorInvariant, sel)
	}

	if existing := created[sel.Dockerfile]; existing != nil {
		return existing, nil
	}

	p.output.Sayf("No existing build for %s, creating one", sel)
	build, err = p.creator.Create(ctx, deploy, project, sel)
	if err != nil {
		return nil, err
	}
	created[sel.Dockerfile] = build
	return build, nil
}
