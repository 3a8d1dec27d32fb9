package jobs

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TickerCronScheduler is the in-process stand-in for the external cron
// collaborator (spec.md §6), used when no real cron library is wired.
// It accepts a subset of 5-field cron expressions (minute hour
// day-of-month month day-of-week, each either "*" or a non-negative
// integer — enough to express the fixed-interval and daily-at-a-time
// schedules the spec's scenarios exercise) and drives each subscription
// off a one-minute ticker, grounded on the teacher's
// ticker-plus-stop-channel pattern (internal/server/ratelimit.go's
// cleanup goroutine).
type TickerCronScheduler struct {
	tick func() <-chan time.Time
}

// NewTickerCronScheduler constructs a TickerCronScheduler that checks
// every real minute.
func NewTickerCronScheduler() *TickerCronScheduler {
	return &TickerCronScheduler{tick: func() <-chan time.Time {
		return time.NewTicker(time.Minute).C
	}}
}

type cronSpec struct {
	minute, hour, dom, month, dow *int // nil means "*"
}

func parseCronExpression(expr string) (cronSpec, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return cronSpec{}, fmt.Errorf("jobs: schedule %q must have 5 fields, got %d", expr, len(fields))
	}
	var spec cronSpec
	slots := []**int{&spec.minute, &spec.hour, &spec.dom, &spec.month, &spec.dow}
	for i, field := range fields {
		if field == "*" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return cronSpec{}, fmt.Errorf("jobs: schedule %q field %d: %w", expr, i, err)
		}
		*slots[i] = &n
	}
	return spec, nil
}

func (s cronSpec) matches(t time.Time) bool {
	return matchField(s.minute, t.Minute()) &&
		matchField(s.hour, t.Hour()) &&
		matchField(s.dom, t.Day()) &&
		matchField(s.month, int(t.Month())) &&
		matchField(s.dow, int(t.Weekday()))
}

func matchField(want *int, got int) bool {
	return want == nil || *want == got
}

// Schedule implements CronScheduler. protect means a tick is skipped
// entirely (not queued) if the previous callback invocation is still
// running.
func (s *TickerCronScheduler) Schedule(expression string, protect bool, callback func()) (func(), error) {
	spec, err := parseCronExpression(expression)
	if err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	var running sync.Mutex

	go func() {
		ticker := s.tick()
		for {
			select {
			case <-stop:
				return
			case now, ok := <-ticker:
				if !ok {
					return
				}
				if !spec.matches(now) {
					continue
				}
				if protect {
					if !running.TryLock() {
						continue
					}
					go func() {
						defer running.Unlock()
						callback()
					}()
				} else {
					go callback()
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
	}, nil
}
