package devserver

import (
	"context"
	"fmt"

	"github.com/conneroisu/peaque/internal/jobs"
	"github.com/conneroisu/peaque/internal/router"
)

// Startup is the side-effect collaborator for src/startup.ts (spec.md
// §4.E startup step 1): real execution happens in the bundled JS
// module; this is the Go-side seam that runs it.
type Startup interface {
	Run(ctx context.Context) error
}

// JobDef is one discovered `src/jobs/**/job.ts` module's worth of
// scheduling information, the Go-side shape a JobsLoader produces.
type JobDef struct {
	DisplayName string
	Schedule    []string
	Run         func(ctx context.Context) error
}

// JobsLoader discovers every `src/jobs/**/job.ts` module. It is called
// once at startup and again whenever the watcher reports a change under
// src/jobs (spec.md §4.E "src/jobs/**: reload jobs"), so a job added,
// removed, or edited on disk takes effect without a server restart.
type JobsLoader interface {
	Load(ctx context.Context) ([]JobDef, error)
}

// StartOptions bundles the optional startup-sequence collaborators.
type StartOptions struct {
	Startup          Startup // src/startup.ts, if present
	Jobs             JobsLoader
	GlobalMiddleware router.Middleware // src/middleware.ts, if present
}

// Start runs spec.md §4.E's six-step startup sequence: (1) startup.ts,
// (2) jobs runner, (3) global middleware, (4) build both routers, (5)
// subscribe the watcher, (6) bind happens in the caller once Start
// returns a working handler.
func (s *Server) Start(ctx context.Context, opts StartOptions) error {
	if opts.Startup != nil {
		if err := opts.Startup.Run(ctx); err != nil {
			return fmt.Errorf("devserver: src/startup.ts failed: %w", err)
		}
	}

	s.startJobs(ctx, opts.Jobs)

	if opts.GlobalMiddleware != nil {
		s.SetGlobalMiddleware(opts.GlobalMiddleware)
	}

	if err := s.BuildPages(); err != nil {
		return err
	}
	if err := s.BuildAPI(); err != nil {
		return err
	}

	if err := s.Watch(ctx); err != nil {
		return fmt.Errorf("devserver: starting watcher: %w", err)
	}

	go s.hub.Run(ctx)

	return nil
}

func (s *Server) startJobs(ctx context.Context, loader JobsLoader) {
	s.jobsLoader = loader
	s.reloadJobs(ctx)
	s.SetJobsReloadHook(func() { s.reloadJobs(ctx) })
}

// reloadJobs stops whatever jobs are currently scheduled and re-runs
// JobsLoader, so edits under src/jobs take effect without a restart.
func (s *Server) reloadJobs(ctx context.Context) {
	if s.jobs != nil {
		s.jobs.Stop()
	}
	s.jobs = jobs.NewScheduler(nil, s.logger)

	if s.jobsLoader == nil {
		return
	}
	defs, err := s.jobsLoader.Load(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Error(ctx, err, "devserver: failed to load jobs")
		}
		return
	}

	jobList := make([]jobs.Job, 0, len(defs))
	for _, d := range defs {
		jobList = append(jobList, jobs.Job{DisplayName: d.DisplayName, Schedule: d.Schedule, Run: d.Run})
	}
	s.jobs.Start(ctx, jobList)
}

// Stop releases the server's long-lived state (spec.md §5
// "Cancellation": scheduled jobs are stopped before the listener
// exits).
func (s *Server) Stop() {
	if s.jobs != nil {
		s.jobs.Stop()
	}
}
