package devserver

import (
	"context"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/peaque/internal/fsys"
)

func newWatchTestServer(t *testing.T) *Server {
	t.Helper()
	fs := fsys.NewMemFS()
	require.NoError(t, fs.WriteFile("/proj/src/pages/about/page.tsx", []byte("x")))
	s := newTestServer(t, fs, fakeBackend{}, nil)
	require.NoError(t, s.BuildPages())
	require.NoError(t, s.BuildAPI())
	return s
}

func runHub(t *testing.T, s *Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.hub.Run(ctx)
}

func registerPeer(s *Server) *peer {
	p := &peer{send: make(chan []byte, 4)}
	s.hub.register <- p
	return p
}

// expectBroadcast receives one HMR frame and checks that it contains every
// given substring.
func expectBroadcast(t *testing.T, p *peer, contains ...string) {
	t.Helper()
	select {
	case msg := <-p.send:
		for _, c := range contains {
			assert.Contains(t, string(msg), c)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for broadcast containing %q", contains)
	}
}

func expectNoBroadcast(t *testing.T, p *peer) {
	t.Helper()
	select {
	case msg := <-p.send:
		t.Fatalf("unexpected broadcast: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleWatchEventPageCreateRebuildsAndBroadcastsChange(t *testing.T) {
	s := newWatchTestServer(t)
	runHub(t, s)
	p := registerPeer(s)

	s.handleWatchEvent(fsnotify.Event{Name: "/proj/src/pages/contact/page.tsx", Op: fsnotify.Create})

	expectBroadcast(t, p, `"event":"change"`, `"path":"/peaque.js"`)
}

func TestHandleWatchEventPageWriteBroadcastsComponentUpdate(t *testing.T) {
	s := newWatchTestServer(t)
	runHub(t, s)
	p := registerPeer(s)

	s.handleWatchEvent(fsnotify.Event{Name: "/proj/src/pages/about/page.tsx", Op: fsnotify.Write})

	expectBroadcast(t, p, `"event":"update"`, `"path":"src/pages/about/page"`)
}

func TestHandleWatchEventAPIChangeRebuildsWithoutBroadcast(t *testing.T) {
	s := newWatchTestServer(t)
	runHub(t, s)
	p := registerPeer(s)

	s.handleWatchEvent(fsnotify.Event{Name: "/proj/src/api/users/route.ts", Op: fsnotify.Write})

	expectNoBroadcast(t, p)
}

func TestHandleWatchEventJobsChangeInvokesReloadHook(t *testing.T) {
	s := newWatchTestServer(t)
	runHub(t, s)

	called := false
	s.SetJobsReloadHook(func() { called = true })

	s.handleWatchEvent(fsnotify.Event{Name: "/proj/src/jobs/cleanup/job.ts", Op: fsnotify.Write})

	assert.True(t, called)
}

func TestHandleWatchEventOtherTsxWriteBroadcastsComponentUpdate(t *testing.T) {
	s := newWatchTestServer(t)
	runHub(t, s)
	p := registerPeer(s)

	s.handleWatchEvent(fsnotify.Event{Name: "/proj/src/components/button.tsx", Op: fsnotify.Write})

	expectBroadcast(t, p, `"path":"src/components/button"`)
}

func TestWithoutExtensionStripsSuffix(t *testing.T) {
	assert.Equal(t, "src/pages/about/page", withoutExtension("src/pages/about/page.tsx"))
	assert.Equal(t, "src/lib/util", withoutExtension("src/lib/util.ts"))
}
