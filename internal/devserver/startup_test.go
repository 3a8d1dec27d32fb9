package devserver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/peaque/internal/fsys"
	"github.com/conneroisu/peaque/internal/router"
)

type fakeStartup struct {
	called bool
	err    error
}

func (f *fakeStartup) Run(ctx context.Context) error {
	f.called = true
	return f.err
}

type fakeJobsLoader struct {
	defs []JobDef
	err  error
	n    int
}

func (f *fakeJobsLoader) Load(ctx context.Context) ([]JobDef, error) {
	f.n++
	if f.err != nil {
		return nil, f.err
	}
	return f.defs, nil
}

func newStartupTestServer(t *testing.T) *Server {
	t.Helper()
	fs := fsys.NewMemFS()
	require.NoError(t, fs.WriteFile("/proj/src/pages/index/page.tsx", []byte("x")))
	return newTestServer(t, fs, fakeBackend{}, nil)
}

func TestStartRunsStartupBeforeBuildingRouters(t *testing.T) {
	s := newStartupTestServer(t)
	su := &fakeStartup{}

	err := s.Start(context.Background(), StartOptions{Startup: su})
	require.NoError(t, err)

	assert.True(t, su.called)
	assert.NotNil(t, s.pages.Load())
	assert.NotNil(t, s.api.Load())
}

func TestStartPropagatesStartupError(t *testing.T) {
	s := newStartupTestServer(t)
	su := &fakeStartup{err: errors.New("boom")}

	err := s.Start(context.Background(), StartOptions{Startup: su})
	require.Error(t, err)
}

func TestStartInstallsGlobalMiddleware(t *testing.T) {
	s := newStartupTestServer(t)
	middleware := router.Middleware(func(next router.HandlerFunc) router.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			next(w, r)
		}
	})

	err := s.Start(context.Background(), StartOptions{GlobalMiddleware: middleware})
	require.NoError(t, err)
	assert.NotNil(t, s.globalMiddleware)
}

func TestStartLoadsJobsOnce(t *testing.T) {
	s := newStartupTestServer(t)
	loader := &fakeJobsLoader{defs: []JobDef{{DisplayName: "cleanup", Schedule: []string{"* * * * *"}, Run: func(ctx context.Context) error { return nil }}}}

	err := s.Start(context.Background(), StartOptions{Jobs: loader})
	require.NoError(t, err)
	assert.Equal(t, 1, loader.n)
	s.Stop()
}

func TestReloadJobsHookReloadsOnJobsChange(t *testing.T) {
	s := newStartupTestServer(t)
	loader := &fakeJobsLoader{}

	err := s.Start(context.Background(), StartOptions{Jobs: loader})
	require.NoError(t, err)

	s.handleWatchEvent(fsnotify.Event{Name: "/proj/src/jobs/cleanup/job.ts", Op: fsnotify.Write})

	assert.Equal(t, 2, loader.n)
	s.Stop()
}

func TestStopStopsScheduledJobs(t *testing.T) {
	s := newStartupTestServer(t)
	loader := &fakeJobsLoader{defs: []JobDef{{DisplayName: "cleanup", Schedule: []string{"* * * * *"}, Run: func(ctx context.Context) error { return nil }}}}
	require.NoError(t, s.Start(context.Background(), StartOptions{Jobs: loader}))

	s.Stop()
	assert.NotNil(t, s.jobs)
}
