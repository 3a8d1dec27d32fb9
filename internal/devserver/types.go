package devserver

import (
	"context"
	"net/http"

	"github.com/conneroisu/peaque/internal/router"
	"github.com/conneroisu/peaque/internal/routetree"
)

// paramsKey is the context key path params are stashed under before a
// matched handler runs, the same request-scoped-value pattern
// internal/action uses for its request context (spec.md §9).
type paramsKey struct{}

// WithParams returns a context carrying the matched route's path
// params, readable via ParamsFromContext inside a handler or
// middleware.
func WithParams(ctx context.Context, params map[string]string) context.Context {
	return context.WithValue(ctx, paramsKey{}, params)
}

// ParamsFromContext returns the path params the current request's route
// match carried, or nil if none were set.
func ParamsFromContext(ctx context.Context) map[string]string {
	params, _ := ctx.Value(paramsKey{}).(map[string]string)
	return params
}

// Backend resolves the file references a matched route node carries
// (spec.md §3 "names"/"stacks") into callables. It is the seam standing
// in for the JS engine that actually runs route.ts/middleware.ts/
// page.tsx — the same pattern internal/action.ModuleLoader uses for
// server actions. Handlers and middleware reuse internal/router's plain
// net/http shapes; path params travel through the request context
// (WithParams/ParamsFromContext) rather than as an extra parameter.
type Backend interface {
	// LoadHandler resolves a route.ts file reference to its exported
	// method handler for method, or (nil, false) if that method is not
	// exported.
	LoadHandler(ctx context.Context, fileRef, method string) (router.HandlerFunc, bool, error)
	// LoadMiddleware resolves a middleware.ts file reference.
	LoadMiddleware(ctx context.Context, fileRef string) (router.Middleware, error)
	// RenderPage renders the page matched by match (already resolved
	// against the page router, zero-value for the SPA-shell fallback) to
	// a full HTML document.
	RenderPage(ctx context.Context, match routetree.Match, r *http.Request) ([]byte, error)
}

// Bundler is the external bundler collaborator's contract for on-demand
// dependency bundling (spec.md §4.E `/@deps/<name>`).
type Bundler interface {
	BundleDependency(ctx context.Context, name string) ([]byte, error)
}
