package action

import (
	"context"
	"net/http"
)

// RequestContext is the per-request state a server action can retrieve
// without it being threaded through as a parameter (spec.md §9 "Request
// context propagation"). Go deliberately has no goroutine-local storage;
// context.Context is the idiomatic equivalent of the task-local slot the
// design note describes; every request's handler goroutine carries one
// value down through whatever it calls, including into server-action
// invocations dispatched on the same goroutine.
type RequestContext struct {
	Request *http.Request
	Method  string
	Path    string
}

type contextKey struct{}

// WithRequest returns a context carrying rc, the way the dispatcher
// establishes the request-scoped slot before invoking a server action
// (spec.md §4.F step 5).
func WithRequest(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext is the "maybe" accessor: it returns the current
// RequestContext and whether one is present, never panicking.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(contextKey{}).(*RequestContext)
	return rc, ok
}

// MustFromContext is the throwing accessor: it panics if called outside a
// request task, per spec.md §9 ("forbid reading it outside a request
// task").
func MustFromContext(ctx context.Context) *RequestContext {
	rc, ok := FromContext(ctx)
	if !ok {
		panic("action: MustFromContext called outside a request task")
	}
	return rc
}
