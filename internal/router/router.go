// Package router implements the request router (component D): matching a
// request's method and path against a route tree, and composing the
// middleware chain the matched stacks carry. The HTTP server collaborator
// spec.md §6 describes is, for this Go rendition, the standard library's
// net/http — the core never reimplements HTTP/1.1 framing (an explicit
// non-goal), so HandlerFunc and Middleware are plain net/http shapes
// rather than a bespoke request abstraction.
package router

import (
	"net/http"

	"github.com/conneroisu/peaque/internal/routetree"
)

// HandlerFunc is the terminal handler a middleware chain ultimately calls.
type HandlerFunc func(w http.ResponseWriter, r *http.Request)

// Middleware wraps a HandlerFunc with additional behavior. A middleware
// that never calls next short-circuits the chain (spec.md §4.D).
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares from outermost to innermost around handler:
// middlewares[0] runs first and wraps everything after it.
func Chain(handler HandlerFunc, middlewares ...Middleware) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// Router pairs a route tree with the request-matching entry point.
type Router struct {
	tree *routetree.Node
}

// New wraps tree for matching. A Router's tree is fixed once built; on
// structural rebuilds the dev server stores a new *Router behind an atomic
// pointer, so in-flight matches are not blocked (see internal/devserver).
func New(tree *routetree.Node) *Router {
	return &Router{tree: tree}
}

// Match resolves path against the router's tree, ignoring method: method
// applicability is the caller's concern (an API route's handler module may
// or may not export a function for the request's method; that is a
// not-found condition surfaced after the match, not during tree
// resolution — spec.md §7 kind "not-found").
func (ro *Router) Match(path string) (routetree.Match, bool) {
	return routetree.Resolve(ro.tree, routetree.SplitPath(path))
}

// Tree returns the underlying route tree.
func (ro *Router) Tree() *routetree.Node {
	return ro.tree
}
