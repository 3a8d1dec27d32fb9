// Package action implements the server-action RPC dispatcher (component
// F): it reverse-maps an `/api/__rpc/<module>/<fn>` URL to a loaded
// function, decodes arguments through the wire codec, establishes the
// request-scoped context, invokes the function, and encodes the result.
package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/conneroisu/peaque/internal/csrf"
	"github.com/conneroisu/peaque/internal/wire"
)

// Function is an exported server action, as resolved from a loaded
// module. Real execution happens in the JS engine the bundler produces;
// this signature is the Go-side seam a ModuleLoader implementation calls
// into (directly in tests, or via an embedded runtime bridge in
// production).
type Function func(ctx context.Context, args []interface{}) (interface{}, error)

// Module is a loaded 'use server' module's exported functions, keyed by
// export name ("default" for the default export).
type Module struct {
	Functions map[string]Function
}

// ModuleLoader resolves a project-relative module path to its loaded
// exports, routing through the transform/cache layer (component C).
type ModuleLoader interface {
	Load(ctx context.Context, modulePath string) (*Module, error)
}

// NotFoundError marks a dispatch failure that should surface as 404
// (spec.md §7 kind "not-found").
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Dispatcher implements spec.md §4.F's seven-step RPC procedure.
type Dispatcher struct {
	Guard  *csrf.Guard
	Loader ModuleLoader
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(guard *csrf.Guard, loader ModuleLoader) *Dispatcher {
	return &Dispatcher{Guard: guard, Loader: loader}
}

// ServeHTTP implements the RPC dispatch procedure for a single request.
// It is only ever reached for POST /api/__rpc/<module>/<fn> — routing that
// prefix here is the caller's (devserver's) responsibility.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !d.Guard.Allow(r) {
		writeJSONError(w, http.StatusForbidden, "Forbidden: Cross-origin request rejected")
		return
	}

	modulePath, fnName, err := parseRPCPath(r.URL.Path)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	mod, err := d.Loader.Load(r.Context(), modulePath)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	fn, ok := mod.Functions[fnName]
	if !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no exported function %q in %s", fnName, modulePath))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "could not read request body")
		return
	}

	decoded, err := wire.Decode(body)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "malformed request body")
		return
	}

	args, err := extractArgs(decoded)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	rc := &RequestContext{Request: r, Method: r.Method, Path: r.URL.Path}
	ctx := WithRequest(r.Context(), rc)

	result, err := fn(ctx, args)
	if err != nil {
		// Deliberate per spec.md §4.G: server actions rely on throw/catch
		// for control flow, so the error message is surfaced as-is.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	encoded, err := wire.Encode(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(encoded)
}

const rpcPrefix = "/api/__rpc/"

func parseRPCPath(path string) (modulePath, fnName string, err error) {
	if !strings.HasPrefix(path, rpcPrefix) {
		return "", "", errors.New("not an RPC path")
	}
	rest := strings.TrimPrefix(path, rpcPrefix)
	idx := strings.LastIndex(rest, "/")
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", errors.New("malformed RPC path: expected /api/__rpc/<module>/<fn>")
	}
	return rest[:idx], rest[idx+1:], nil
}

// extractArgs pulls the `args` array out of the decoded `{args: [...]}`
// envelope the shim sends (spec.md §4.C step 4 / §4.F step 4).
func extractArgs(decoded interface{}) ([]interface{}, error) {
	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, errors.New("request body must be an object with an args array")
	}
	args, ok := obj["args"].([]interface{})
	if !ok {
		return nil, errors.New("request body missing args array")
	}
	return args, nil
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}
