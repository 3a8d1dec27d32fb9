package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"

	"github.com/conneroisu/peaque/internal/action"
	"github.com/conneroisu/peaque/internal/router"
	"github.com/conneroisu/peaque/internal/routetree"
	"github.com/conneroisu/peaque/internal/transform"
)

// ExecBackend shells out to the external JS engine collaborator (spec.md
// §6: rendering pages and running route.ts/middleware.ts modules are out
// of scope for this module) via a single configured command, one process
// per resolved handler/middleware/page. Mirrors internal/build.ExecBundler's
// stdin-request/stdout-JSON-response shape.
type ExecBackend struct {
	Command string
	Args    []string
}

func (e ExecBackend) run(ctx context.Context, op string, input []byte) ([]byte, error) {
	args := append(append([]string{}, e.Args...), op)
	cmd := exec.CommandContext(ctx, e.Command, args...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

type invokeRequest struct {
	FileRef string              `json:"fileRef"`
	Method  string              `json:"method,omitempty"`
	Path    string              `json:"path"`
	Params  map[string]string   `json:"params,omitempty"`
	Headers map[string][]string `json:"headers"`
	Body    []byte              `json:"body,omitempty"`
}

type invokeResponse struct {
	Status  int                 `json:"status"`
	Headers map[string][]string `json:"headers"`
	Body    []byte              `json:"body"`
}

// LoadHandler implements Backend.
func (e ExecBackend) LoadHandler(ctx context.Context, fileRef, method string) (router.HandlerFunc, bool, error) {
	out, err := e.run(ctx, "handler-exports", []byte(fileRef))
	if err != nil {
		return nil, false, err
	}
	var exports []string
	if err := json.Unmarshal(out, &exports); err != nil {
		return nil, false, err
	}
	found := false
	for _, m := range exports {
		if m == method {
			found = true
			break
		}
	}
	if !found {
		return nil, false, nil
	}

	return func(w http.ResponseWriter, r *http.Request) {
		e.invoke(w, r, "handler-invoke", invokeRequest{
			FileRef: fileRef,
			Method:  method,
			Path:    r.URL.Path,
			Params:  ParamsFromContext(r.Context()),
		})
	}, true, nil
}

// LoadMiddleware implements Backend.
func (e ExecBackend) LoadMiddleware(ctx context.Context, fileRef string) (router.Middleware, error) {
	if _, err := e.run(ctx, "middleware-probe", []byte(fileRef)); err != nil {
		return nil, err
	}
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			out, err := e.run(r.Context(), "middleware-invoke", mustJSON(invokeRequest{
				FileRef: fileRef,
				Path:    r.URL.Path,
				Params:  ParamsFromContext(r.Context()),
			}))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			var resp invokeResponse
			if err := json.Unmarshal(out, &resp); err != nil {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			if resp.Status != 0 {
				writeInvokeResponse(w, resp)
				return
			}
			next(w, r)
		}
	}, nil
}

// RenderPage implements Backend.
func (e ExecBackend) RenderPage(ctx context.Context, match routetree.Match, r *http.Request) ([]byte, error) {
	out, err := e.run(ctx, "render-page", mustJSON(invokeRequest{
		FileRef: match.Names[routetree.RolePage],
		Path:    r.URL.Path,
		Params:  match.Params,
	}))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BundleDependency implements Bundler.
func (e ExecBackend) BundleDependency(ctx context.Context, name string) ([]byte, error) {
	return e.run(ctx, "bundle-dep", []byte(name))
}

func (e ExecBackend) invoke(w http.ResponseWriter, r *http.Request, op string, req invokeRequest) {
	body, _ := io.ReadAll(r.Body)
	req.Body = body
	req.Headers = r.Header

	out, err := e.run(r.Context(), op, mustJSON(req))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	var resp invokeResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeInvokeResponse(w, resp)
}

func writeInvokeResponse(w http.ResponseWriter, resp invokeResponse) {
	for k, vs := range resp.Headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}

// ExecParser shells out to the same external engine to satisfy
// transform.Parser (spec.md §6: the core never implements a JS/TS parser
// itself).
type ExecParser struct {
	Command string
	Args    []string
}

// ParseExports implements transform.Parser.
func (e ExecParser) ParseExports(source string) ([]transform.Export, error) {
	backend := ExecBackend{Command: e.Command, Args: e.Args}
	out, err := backend.run(context.Background(), "parse-exports", []byte(source))
	if err != nil {
		return nil, err
	}
	var exports []transform.Export
	if err := json.Unmarshal(out, &exports); err != nil {
		return nil, err
	}
	return exports, nil
}

// ExecModuleLoader shells out to the external engine to load and invoke a
// 'use server' module's exported functions, satisfying action.ModuleLoader.
type ExecModuleLoader struct {
	Command string
	Args    []string
}

type moduleCallRequest struct {
	ModulePath string        `json:"modulePath"`
	Function   string        `json:"function"`
	Args       []interface{} `json:"args"`
}

// Load implements action.ModuleLoader.
func (e ExecModuleLoader) Load(ctx context.Context, modulePath string) (*action.Module, error) {
	backend := ExecBackend{Command: e.Command, Args: e.Args}
	out, err := backend.run(ctx, "module-exports", []byte(modulePath))
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(out, &names); err != nil {
		return nil, err
	}

	functions := make(map[string]action.Function, len(names))
	for _, name := range names {
		fnName := name
		functions[fnName] = func(ctx context.Context, args []interface{}) (interface{}, error) {
			payload := mustJSON(moduleCallRequest{ModulePath: modulePath, Function: fnName, Args: args})
			out, err := backend.run(ctx, "module-call", payload)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", modulePath, fnName, err)
			}
			var result interface{}
			if err := json.Unmarshal(out, &result); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", modulePath, fnName, err)
			}
			return result, nil
		}
	}
	return &action.Module{Functions: functions}, nil
}
