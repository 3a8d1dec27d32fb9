// Package devserver wires the route tree builder, the transform/cache
// layer, the request router, the cross-origin guard, and the
// server-action dispatcher into the single HTTP listener spec.md §4.E
// describes: one listener, WebSocket upgrade at /hmr, and an ordered URL
// family dispatch table where the first matching family wins.
package devserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/conneroisu/peaque/internal/action"
	"github.com/conneroisu/peaque/internal/cache"
	"github.com/conneroisu/peaque/internal/csrf"
	"github.com/conneroisu/peaque/internal/fsys"
	"github.com/conneroisu/peaque/internal/jobs"
	"github.com/conneroisu/peaque/internal/logging"
	"github.com/conneroisu/peaque/internal/router"
	"github.com/conneroisu/peaque/internal/routetree"
	"github.com/conneroisu/peaque/internal/transform"
)

// Config holds everything Server needs beyond its collaborators.
type Config struct {
	Root           string // absolute project root
	PagesDir       string // default "<Root>/src/pages"
	APIDir         string // default "<Root>/src/api"
	PublicDir      string // default "<Root>/src/public"
	Aliases        map[string]string
	TrustedOrigins []string
	BypassPaths    []string
}

// Server is the dev server's long-lived state (spec.md §3 "Lifecycle"):
// trees, caches, watcher subscription, and WebSocket peers live for the
// server's lifetime and are released on shutdown.
type Server struct {
	cfg      Config
	fs       fsys.FS
	cache    *cache.Cache
	rewriter *transform.Rewriter
	guard    *csrf.Guard
	backend  Backend
	bundler  Bundler
	parser   transform.Parser // src/actions export parser (spec.md §6 "Collaborator contracts")
	dispatch *action.Dispatcher
	jobs     *jobs.Scheduler
	hub      *Hub
	logger   logging.Logger

	pages atomic.Pointer[router.Router]
	api   atomic.Pointer[router.Router]

	globalMiddleware router.Middleware
	onJobsReload     func()
	jobsLoader       JobsLoader
}

// New constructs a Server. Call Start to run the startup sequence.
func New(cfg Config, fs fsys.FS, backend Backend, bundler Bundler, parser transform.Parser, moduleLoader action.ModuleLoader, logger logging.Logger) *Server {
	if cfg.PagesDir == "" {
		cfg.PagesDir = cfg.Root + "/src/pages"
	}
	if cfg.APIDir == "" {
		cfg.APIDir = cfg.Root + "/src/api"
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = cfg.Root + "/src/public"
	}

	guard := csrf.NewGuard(cfg.TrustedOrigins, compileRegexps(cfg.BypassPaths))

	s := &Server{
		cfg:      cfg,
		fs:       fs,
		cache:    cache.New(fs, cfg.Root+"/.peaque/cache"),
		rewriter: transform.NewRewriter(cfg.Aliases),
		guard:    guard,
		backend:  backend,
		bundler:  bundler,
		parser:   parser,
		hub:      NewHub(logger),
		logger:   logger,
	}
	s.dispatch = action.NewDispatcher(guard, moduleLoader)
	return s
}

// BuildPages (re)builds the page router from cfg.PagesDir and atomically
// installs it.
func (s *Server) BuildPages() error {
	root, err := routetree.Build(s.cfg.PagesDir, s.fs, routetree.PageConfig)
	if err != nil {
		return fmt.Errorf("devserver: building page router: %w", err)
	}
	s.pages.Store(router.New(root))
	return nil
}

// BuildAPI (re)builds the API router from cfg.APIDir and atomically
// installs it.
func (s *Server) BuildAPI() error {
	root, err := routetree.Build(s.cfg.APIDir, s.fs, routetree.APIConfig)
	if err != nil {
		return fmt.Errorf("devserver: building api router: %w", err)
	}
	s.api.Store(router.New(root))
	return nil
}

// SetGlobalMiddleware installs src/middleware.ts's handler as the
// outermost middleware (spec.md §4.E startup step 3).
func (s *Server) SetGlobalMiddleware(mw router.Middleware) {
	s.globalMiddleware = mw
}

// Hub exposes the HMR broadcaster so callers can start its goroutine and
// feed it watcher-derived events.
func (s *Server) Hub() *Hub { return s.hub }

// ServeHTTP implements spec.md §4.E's ordered URL family dispatch table:
// the first matching family wins.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path

	switch {
	case strings.HasPrefix(p, "/@deps/"):
		s.serveDeps(w, r, strings.TrimPrefix(p, "/@deps/"))
	case strings.HasPrefix(p, "/@src/"):
		s.serveSrc(w, r, strings.TrimPrefix(p, "/@src/"))
	case strings.HasPrefix(p, "/api/__rpc/"):
		s.dispatch.ServeHTTP(w, r)
	case strings.HasPrefix(p, "/api/"):
		s.serveAPI(w, r)
	case isRuntimeAsset(p):
		s.serveRuntimeAsset(w, r, p)
	case p == "/hmr":
		s.hub.Upgrade(w, r)
	default:
		s.servePageOrShell(w, r)
	}
}

// serveDeps handles `/@deps/<name>` (spec.md §4.E row 1).
func (s *Server) serveDeps(w http.ResponseWriter, r *http.Request, name string) {
	if s.bundler == nil {
		http.NotFound(w, r)
		return
	}
	js, err := s.bundler.BundleDependency(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(js)
}

// serveSrc handles `/@src/<path>` (spec.md §4.E row 2): resolve against
// the candidate suffix list, transform through the cache, wrap fast
// refresh, and serve.
func (s *Server) serveSrc(w http.ResponseWriter, r *http.Request, p string) {
	resolved, ok, err := resolveSource(s.fs, s.cfg.Root, p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	source, err := s.fs.ReadTextFile(resolved)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	key := projectRelative(s.cfg.Root, resolved)
	hash := contentHash(source)

	output, err := s.cache.GetOrProduce(key, hash, func() ([]byte, error) {
		return []byte(s.transformOne(key, source)), nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(output)
}

func (s *Server) transformOne(key, source string) string {
	if transform.IsServerModule(source) {
		if s.parser == nil {
			return throwingModule("devserver: no export parser configured for 'use server' modules")
		}
		shim, err := transform.GenerateShim(s.parser, key, source)
		if err == nil {
			return shim.Source
		}
		// spec.md §7 kind "source": synthesize a throwing module rather
		// than fail the whole transform pass.
		return throwingModule(err.Error())
	}

	rewritten := s.rewriter.Rewrite(key, source)
	return transform.WrapFastRefresh(key, rewritten)
}

func throwingModule(message string) string {
	return "throw new Error(" + strconv.Quote(message) + ");\n"
}

// serveAPI handles `/api/…` (spec.md §4.E row 4 / §4.D).
func (s *Server) serveAPI(w http.ResponseWriter, r *http.Request) {
	ro := s.api.Load()
	if ro == nil {
		http.NotFound(w, r)
		return
	}

	match, ok := ro.Match(strings.TrimPrefix(r.URL.Path, "/api"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	handlerRef, ok := match.Names[routetree.RoleHandler]
	if !ok {
		http.NotFound(w, r)
		return
	}

	handler, ok, err := s.backend.LoadHandler(r.Context(), handlerRef, r.Method)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	chain, err := s.buildAPIChain(r.Context(), match, handler)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	r = r.WithContext(WithParams(r.Context(), match.Params))
	chain(w, r)
}

func (s *Server) buildAPIChain(ctx context.Context, match routetree.Match, handler router.HandlerFunc) (router.HandlerFunc, error) {
	middlewares := make([]router.Middleware, 0, len(match.Stacks[routetree.RoleMiddleware])+1)
	if s.globalMiddleware != nil {
		middlewares = append(middlewares, s.globalMiddleware)
	}
	for _, ref := range match.Stacks[routetree.RoleMiddleware] {
		mw, err := s.backend.LoadMiddleware(ctx, ref)
		if err != nil {
			return nil, err
		}
		middlewares = append(middlewares, mw)
	}
	return router.Chain(handler, middlewares...), nil
}

// servePageOrShell handles every remaining path: it matches the page
// router first, then falls back to the public folder, then to the SPA
// shell (spec.md §4.E's final row).
func (s *Server) servePageOrShell(w http.ResponseWriter, r *http.Request) {
	ro := s.pages.Load()
	if ro != nil {
		if match, ok := ro.Match(r.URL.Path); ok && match.Names[routetree.RolePage] != "" {
			html, err := s.backend.RenderPage(r.Context(), match, r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(html)
			return
		}
	}

	if s.servePublicAsset(w, r) {
		return
	}

	html, err := s.backend.RenderPage(r.Context(), routetree.Match{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

func (s *Server) servePublicAsset(w http.ResponseWriter, r *http.Request) bool {
	candidate := s.cfg.PublicDir + "/" + strings.TrimPrefix(r.URL.Path, "/")
	if !withinRoot(s.cfg.PublicDir, candidate) {
		return false
	}
	info, err := s.fs.Stat(candidate)
	if err != nil || info.IsDir {
		return false
	}
	data, err := s.fs.ReadFile(candidate)
	if err != nil {
		return false
	}
	_, _ = w.Write(data)
	return true
}

func contentHash(source string) string {
	return sha1Hex(source)
}
