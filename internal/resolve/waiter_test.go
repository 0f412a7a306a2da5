package resolve

import (
	"context"
	"testing"

	"github.com/driftworks/slipway/internal/models"
)

func newTestWaiter(builds *memBuildStore, clock *fakeClock) *Waiter {
	return NewWaiter(builds, clock, discardOutput{}, testResolverConfig(), nil)
}

func TestWaiter_TerminalBuildReturnsImmediately(t *testing.T) {
	build := &models.Build{ID: "b1", Name: "deploy-1-myapp", Status: models.BuildStatusSucceeded}
	builds := newMemBuildStore(build)
	clock := newFakeClock()
	waiter := newTestWaiter(builds, clock)

	got, err := waiter.Wait(context.Background(), nil, build)
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if got != build {
		t.Errorf("got %+v, want the build passed in", got)
	}
	if clock.sleepCount() != 0 {
		t.Errorf("slept %d times for a terminal build, want 0", clock.sleepCount())
	}
	if builds.getCount() != 0 {
		t.Errorf("re-read build %d times for a terminal build, want 0", builds.getCount())
	}
}

func TestWaiter_PollsUntilTerminal(t *testing.T) {
	build := &models.Build{ID: "b1", Status: models.BuildStatusActive}
	builds := newMemBuildStore(build)
	clock := newFakeClock()
	clock.onSleep = func(n int) {
		// The runner finishes during the third tick.
		if n == 3 {
			builds.setStatus("b1", models.BuildStatusSucceeded)
			builds.setDigest("b1", "sha256:feedface")
		}
	}
	waiter := newTestWaiter(builds, clock)

	got, err := waiter.Wait(context.Background(), nil, build)
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if got.Status != models.BuildStatusSucceeded {
		t.Errorf("returned status %q, want succeeded", got.Status)
	}
	if got.RepoDigest != "sha256:feedface" {
		t.Errorf("returned digest %q, want the runner's digest", got.RepoDigest)
	}
	if clock.sleepCount() != 3 {
		t.Errorf("slept %d times, want 3", clock.sleepCount())
	}
}

func TestWaiter_CancellationReturnsWithinOneTick(t *testing.T) {
	build := &models.Build{ID: "b1", Status: models.BuildStatusActive}
	builds := newMemBuildStore(build)
	clock := newFakeClock()
	token := NewCancelToken()
	clock.onSleep = func(n int) { token.Cancel() }
	waiter := newTestWaiter(builds, clock)

	got, err := waiter.Wait(context.Background(), token, build)
	if err != nil {
		t.Fatalf("cancellation must not be an error, got %v", err)
	}
	if got == nil || got.ID != "b1" {
		t.Fatalf("got %+v, want the last-read build", got)
	}
	if got.Active() {
		// Cancelled while the build was still running: the caller gets
		// the stale record, not a fabricated terminal one.
		t.Logf("build still active after cancellation, as expected")
	}
	if clock.sleepCount() != 1 {
		t.Errorf("slept %d times, want 1", clock.sleepCount())
	}
	if builds.getCount() != 0 {
		t.Errorf("re-read build %d times after cancellation, want 0", builds.getCount())
	}
}

func TestWaiter_CancellationBeforeFirstSleep(t *testing.T) {
	build := &models.Build{ID: "b1", Status: models.BuildStatusPending}
	builds := newMemBuildStore(build)
	clock := newFakeClock()
	token := NewCancelToken()
	token.Cancel()
	waiter := newTestWaiter(builds, clock)

	got, err := waiter.Wait(context.Background(), token, build)
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if got != build {
		t.Errorf("got %+v, want the build passed in", got)
	}
	if clock.sleepCount() != 0 {
		t.Errorf("slept %d times with a pre-cancelled token, want 0", clock.sleepCount())
	}
}
