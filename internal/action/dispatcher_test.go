package action

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/peaque/internal/csrf"
)

type fakeLoader struct {
	modules map[string]*Module
}

func (f fakeLoader) Load(ctx context.Context, modulePath string) (*Module, error) {
	mod, ok := f.modules[modulePath]
	if !ok {
		return nil, &NotFoundError{Message: "no such module: " + modulePath}
	}
	return mod, nil
}

func TestDispatcherScenario4ShapeSucceeds(t *testing.T) {
	loader := fakeLoader{modules: map[string]*Module{
		"src/api/users": {
			Functions: map[string]Function{
				"updateUser": func(ctx context.Context, args []interface{}) (interface{}, error) {
					rc := MustFromContext(ctx)
					return map[string]interface{}{"ok": true, "path": rc.Path, "arg0": args[0]}, nil
				},
			},
		},
	}}

	d := NewDispatcher(csrf.NewGuard(nil, nil), loader)

	req := httptest.NewRequest(http.MethodPost, "/api/__rpc/src/api/users/updateUser", strings.NewReader(`{"args":["x"]}`))
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestDispatcherCSRFDeniesBeforeLoaderRuns(t *testing.T) {
	called := false
	loader := fakeLoader{modules: map[string]*Module{
		"m": {Functions: map[string]Function{"f": func(ctx context.Context, args []interface{}) (interface{}, error) {
			called = true
			return nil, nil
		}}},
	}}

	d := NewDispatcher(csrf.NewGuard(nil, nil), loader)

	req := httptest.NewRequest(http.MethodPost, "/api/__rpc/m/f", strings.NewReader(`{"args":[]}`))
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
	assert.JSONEq(t, `{"error":"Forbidden: Cross-origin request rejected"}`, rec.Body.String())
}

func TestDispatcherMissingFunctionIs404(t *testing.T) {
	loader := fakeLoader{modules: map[string]*Module{"m": {Functions: map[string]Function{}}}}
	d := NewDispatcher(csrf.NewGuard(nil, nil), loader)

	req := httptest.NewRequest(http.MethodPost, "/api/__rpc/m/missing", strings.NewReader(`{"args":[]}`))
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatcherFunctionErrorSurfacesAs500(t *testing.T) {
	loader := fakeLoader{modules: map[string]*Module{
		"m": {Functions: map[string]Function{"f": func(ctx context.Context, args []interface{}) (interface{}, error) {
			return nil, assertErr{}
		}}},
	}}
	d := NewDispatcher(csrf.NewGuard(nil, nil), loader)

	req := httptest.NewRequest(http.MethodPost, "/api/__rpc/m/f", strings.NewReader(`{"args":[]}`))
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestMustFromContextPanicsOutsideRequest(t *testing.T) {
	assert.Panics(t, func() {
		MustFromContext(context.Background())
	})
}

func TestFromContextMaybeAccessor(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithRequest(context.Background(), &RequestContext{Path: "/x"})
	rc, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "/x", rc.Path)
}
