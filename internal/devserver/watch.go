package devserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/peaque/internal/watcher"
)

// watchDebounce groups the burst of fsnotify events a single save (or a
// formatter rewriting a directory of page files) produces into one
// batch, so src/pages/** changes don't rebuild the router once per file.
const watchDebounce = 50 * time.Millisecond

// Watch subscribes to every directory under cfg.Root/src that the
// watcher event rules (spec.md §4.E "Watcher handling") care about and
// applies those rules until ctx is cancelled. Grounded on the teacher's
// debounced FileWatcher (internal/watcher/watcher.go): recursive Add
// over a filepath.Walk, one goroutine draining the debounced batches.
func (s *Server) Watch(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return err
	}

	fw.AddFilter(watcher.NoVendorFilter)
	fw.AddFilter(watcher.NoGitFilter)
	fw.AddFilter(watcher.NoTestFilter)

	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, ev := range events {
			s.handleWatchEvent(fsnotify.Event{
				Name: ev.Path,
				Op:   changeEventOp(ev.Type),
			})
		}
		return nil
	})

	if err := fw.AddRecursive(filepath.Join(s.cfg.Root, "src")); err != nil {
		_ = fw.Stop()
		return err
	}

	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return err
	}

	go func() {
		<-ctx.Done()
		_ = fw.Stop()
	}()

	return nil
}

// changeEventOp maps a watcher.EventType onto the fsnotify.Op that
// handleWatchEvent's rules switch on.
func changeEventOp(t watcher.EventType) fsnotify.Op {
	switch t {
	case watcher.EventTypeCreated:
		return fsnotify.Create
	case watcher.EventTypeDeleted:
		return fsnotify.Remove
	case watcher.EventTypeRenamed:
		return fsnotify.Rename
	default:
		return fsnotify.Write
	}
}

// handleWatchEvent applies spec.md §4.E's watcher event handling rules.
func (s *Server) handleWatchEvent(ev fsnotify.Event) {
	rel := strings.TrimPrefix(filepath.ToSlash(ev.Name), filepath.ToSlash(s.cfg.Root)+"/")

	switch {
	case strings.HasPrefix(rel, "src/pages/"):
		if ev.Op&(fsnotify.Create|fsnotify.Remove) != 0 {
			if err := s.BuildPages(); err == nil {
				s.broadcast("change", "/peaque.js")
			}
			return
		}
		if ev.Op&fsnotify.Write != 0 && strings.HasSuffix(rel, ".tsx") {
			s.broadcast("update", withoutExtension(rel))
		}

	case strings.HasPrefix(rel, "src/api/"):
		_ = s.BuildAPI()

	case strings.HasPrefix(rel, "src/jobs/"):
		if s.onJobsReload != nil {
			s.onJobsReload()
		}

	default:
		if ev.Op&fsnotify.Write != 0 && strings.HasSuffix(rel, ".tsx") {
			s.broadcast("update", withoutExtension(rel))
		}
	}
}

func withoutExtension(p string) string {
	ext := filepath.Ext(p)
	return strings.TrimSuffix(p, ext)
}

func (s *Server) broadcast(event, path string) {
	msg, err := json.Marshal(map[string]HMREvent{"data": {Event: event, Path: path}})
	if err != nil {
		return
	}
	s.hub.Broadcast(msg)
}

// SetJobsReloadHook installs the callback invoked when any file under
// src/jobs changes (spec.md §4.E "src/jobs/**: reload jobs").
func (s *Server) SetJobsReloadHook(fn func()) {
	s.onJobsReload = fn
}
