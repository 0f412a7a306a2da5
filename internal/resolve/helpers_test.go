package resolve

import (
	"context"
	"sync"
	"time"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/store"
	"github.com/driftworks/slipway/pkg/config"
)

// testResolverConfig returns resolver settings with the production defaults.
func testResolverConfig() config.ResolverConfig {
	return config.ResolverConfig{
		ExternalBuildWait:  5 * time.Second,
		DiscoveryInterval:  5 * time.Second,
		CompletionInterval: 2 * time.Second,
		ReleaseRaceWait:    5 * time.Second,
	}
}

// fakeClock advances instantly on Sleep and can run hooks per sleep, which
// lets tests mutate builds or cancel the deploy "while" the engine waits.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	sleeps  []time.Duration
	onSleep func(n int)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	n := len(c.sleeps)
	hook := c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
}

func (c *fakeClock) sleepCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sleeps)
}

// memBuildStore is an in-memory store.BuildStore recording call counts.
type memBuildStore struct {
	mu        sync.Mutex
	builds    map[string]*models.Build
	creates   int
	finds     int
	gets      int
	createErr error
}

var _ store.BuildStore = (*memBuildStore)(nil)

func newMemBuildStore(builds ...*models.Build) *memBuildStore {
	s := &memBuildStore{builds: make(map[string]*models.Build)}
	for _, b := range builds {
		s.builds[b.ID] = b
	}
	return s
}

func (s *memBuildStore) Create(ctx context.Context, build *models.Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	copied := *build
	s.builds[build.ID] = &copied
	return nil
}

func (s *memBuildStore) Get(ctx context.Context, id string) (*models.Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	build, ok := s.builds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *build
	return &copied, nil
}

func (s *memBuildStore) FindByCommits(ctx context.Context, commits []string) ([]*models.Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	var result []*models.Build
	for _, commit := range commits {
		for _, build := range s.builds {
			if build.SourceCommit == commit {
				copied := *build
				result = append(result, &copied)
			}
		}
	}
	return result, nil
}

func (s *memBuildStore) Update(ctx context.Context, build *models.Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.builds[build.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *build
	s.builds[build.ID] = &copied
	return nil
}

func (s *memBuildStore) ListByProject(ctx context.Context, projectID string) ([]*models.Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.Build
	for _, build := range s.builds {
		if build.ProjectID == projectID {
			copied := *build
			result = append(result, &copied)
		}
	}
	return result, nil
}

// setStatus mutates a stored build the way the external runner would.
func (s *memBuildStore) setStatus(id string, status models.BuildStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if build, ok := s.builds[id]; ok {
		build.Status = status
	}
}

func (s *memBuildStore) setDigest(id, digest string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if build, ok := s.builds[id]; ok {
		build.RepoDigest = digest
	}
}

func (s *memBuildStore) createCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

func (s *memBuildStore) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

// created returns the builds inserted through Create, by dockerfile.
func (s *memBuildStore) byDockerfile(dockerfile string) *models.Build {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, build := range s.builds {
		if build.Dockerfile == dockerfile {
			copied := *build
			return &copied
		}
	}
	return nil
}

// fakeRepo answers FileExists from a fixed set of (commit, path) pairs.
type fakeRepo struct {
	files map[string]bool
	err   error
}

func newFakeRepo(paths ...string) *fakeRepo {
	r := &fakeRepo{files: make(map[string]bool)}
	for _, p := range paths {
		r.files[p] = true
	}
	return r
}

func (r *fakeRepo) FileExists(ctx context.Context, path, commit string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.files[commit+":"+path], nil
}

// fakeExecutor records started builds.
type fakeExecutor struct {
	mu      sync.Mutex
	started []*models.Build
	err     error
}

func (e *fakeExecutor) Start(ctx context.Context, build *models.Build) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.started = append(e.started, build)
	return nil
}

func (e *fakeExecutor) startedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.started)
}

// fakeChecks returns fixed verdicts.
type fakeChecks struct {
	verdicts []bool
	calls    int
}

func (c *fakeChecks) Run(ctx context.Context, build *models.Build, deploy *models.Deploy) []bool {
	c.calls++
	return c.verdicts
}

// discardOutput swallows progress lines.
type discardOutput struct{}

func (discardOutput) Sayf(format string, args ...any) {}

func testDeploy() *models.Deploy {
	return &models.Deploy{
		ID:           "dep-1",
		ProjectID:    "proj-1",
		TargetCommit: "abc123abc123abc123abc123abc123abc123abcd",
		TargetRef:    "refs/heads/main",
		Requester:    "casey",
	}
}

func testProject() *models.Project {
	return &models.Project{
		ID:          "proj-1",
		Name:        "myapp",
		Dockerfiles: []string{"Dockerfile"},
	}
}
