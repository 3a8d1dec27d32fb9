// Package jobs implements the jobs runner spec.md §4.H describes: for
// every scheduled job, one cron subscription is created per schedule
// string with overlap prevention, and the job's run function is invoked
// inside a recover-guarded call so a panicking or erroring job never
// kills the scheduler.
package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/conneroisu/peaque/internal/logging"
)

// RunFunc is a scheduled job's body. Real execution happens in the
// bundled JS module the generated backend entry imports; this signature
// is the Go-side seam a job registration calls into.
type RunFunc func(ctx context.Context) error

// Job is one `src/jobs/**/job.ts` module's worth of scheduling
// information.
type Job struct {
	// DisplayName is the directory-relative path with the trailing
	// "/job.ts" stripped, per spec.md §4.H.
	DisplayName string
	Schedule    []string
	Run         RunFunc
}

// CronScheduler is the external cron collaborator's contract (spec.md
// §6: `Cron(expression, {protect: true}, callback)`, where protect means
// a second tick is dropped if the callback is still running). It is
// named here as a small interface rather than a hand-rolled cron parser
// so a real cron library can be substituted by the generated backend
// entry in a production deployment; Scheduler's own ticker-based
// implementation below satisfies it for development and for tests.
type CronScheduler interface {
	// Schedule starts a recurring subscription for expression and
	// returns a cancel function. protect being true means an
	// already-running callback causes the next tick to be skipped
	// rather than run concurrently.
	Schedule(expression string, protect bool, callback func()) (cancel func(), err error)
}

// Scheduler runs a fixed set of Jobs against a CronScheduler, logging
// (never propagating) whatever each job's Run returns or panics with.
type Scheduler struct {
	cron   CronScheduler
	logger logging.Logger

	mu      sync.Mutex
	cancels []func()
}

// NewScheduler constructs a Scheduler. If cron is nil, an in-process
// ticker-based implementation is used (TickerCronScheduler).
func NewScheduler(cron CronScheduler, logger logging.Logger) *Scheduler {
	if cron == nil {
		cron = NewTickerCronScheduler()
	}
	return &Scheduler{cron: cron, logger: logger}
}

// Start subscribes every schedule string of every job. A job with
// multiple schedule strings gets one subscription per string, all
// calling the same Run. Malformed schedule strings are logged and
// skipped; they do not prevent the job's other schedules, or other
// jobs, from starting.
func (s *Scheduler) Start(ctx context.Context, jobList []Job) {
	for _, job := range jobList {
		job := job
		for _, expr := range job.Schedule {
			expr := expr
			cancel, err := s.cron.Schedule(expr, true, func() {
				s.invoke(ctx, job)
			})
			if err != nil {
				if s.logger != nil {
					s.logger.Error(ctx, err, "jobs: failed to schedule job", "job", job.DisplayName, "schedule", expr)
				}
				continue
			}
			s.mu.Lock()
			s.cancels = append(s.cancels, cancel)
			s.mu.Unlock()
		}
	}
}

// invoke runs job.Run inside a recover-guarded call, logging any error
// or panic under the job's display name and never propagating it.
func (s *Scheduler) invoke(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			if s.logger != nil {
				s.logger.Error(ctx, fmt.Errorf("panic: %v", r), "jobs: job panicked", "job", job.DisplayName)
			}
		}
	}()

	if err := job.Run(ctx); err != nil {
		if s.logger != nil {
			s.logger.Error(ctx, err, "jobs: job failed", "job", job.DisplayName)
		}
	}
}

// Stop cancels every subscription. Per spec.md §4's cancellation
// ordering, this runs before the listener exits on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}

// DisplayName derives a job's display name from its directory-relative
// path, stripping a trailing "/job.ts" (spec.md §4.H).
func DisplayName(relPath string) string {
	const suffix = "/job.ts"
	if len(relPath) >= len(suffix) && relPath[len(relPath)-len(suffix):] == suffix {
		return relPath[:len(relPath)-len(suffix)]
	}
	return relPath
}
