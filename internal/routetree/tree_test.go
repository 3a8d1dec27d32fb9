package routetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/peaque/internal/fsys"
)

func TestResolveStaticBeatsParam(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.WriteFile("src/pages/page.tsx", []byte("root")))
	require.NoError(t, fs.WriteFile("src/pages/users/page.tsx", []byte("users")))
	require.NoError(t, fs.WriteFile("src/pages/users/[id]/page.tsx", []byte("user")))

	root, err := Build("src/pages", fs, PageConfig)
	require.NoError(t, err)

	m, ok := Resolve(root, SplitPath("/users/42"))
	require.True(t, ok)
	assert.Equal(t, "/users/:id", m.Pattern)
	assert.Equal(t, "42", m.Params["id"])

	m, ok = Resolve(root, SplitPath("/users"))
	require.True(t, ok)
	assert.Equal(t, "/users", m.Pattern)
}

func TestResolveGroupExcludedFromPath(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.WriteFile("src/pages/(auth)/login/page.tsx", []byte("login")))

	root, err := Build("src/pages", fs, PageConfig)
	require.NoError(t, err)

	m, ok := Resolve(root, SplitPath("/login"))
	require.True(t, ok)
	assert.Equal(t, "/login", m.Pattern)

	_, ok = Resolve(root, SplitPath("/auth/login"))
	assert.False(t, ok)
}

func TestResolveStackFlattening(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.WriteFile("src/pages/layout.tsx", []byte("L0")))
	require.NoError(t, fs.WriteFile("src/pages/dashboard/layout.tsx", []byte("L1")))
	require.NoError(t, fs.WriteFile("src/pages/dashboard/settings/page.tsx", []byte("P")))

	root, err := Build("src/pages", fs, PageConfig)
	require.NoError(t, err)

	m, ok := Resolve(root, SplitPath("/dashboard/settings"))
	require.True(t, ok)
	require.Len(t, m.Stacks[RoleLayout], 2)
	assert.Equal(t, "src/pages/layout.tsx", m.Stacks[RoleLayout][0])
	assert.Equal(t, "src/pages/dashboard/layout.tsx", m.Stacks[RoleLayout][1])
	assert.Equal(t, "src/pages/dashboard/settings/page.tsx", m.Names[RolePage])
}

func TestResolveWildcardConsumesRemainder(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.WriteFile("src/pages/docs/[...slug]/page.tsx", []byte("doc")))

	root, err := Build("src/pages", fs, PageConfig)
	require.NoError(t, err)

	m, ok := Resolve(root, SplitPath("/docs/a/b/c"))
	require.True(t, ok)
	assert.Equal(t, "a/b/c", m.Params["slug"])
	assert.Equal(t, "/docs/*slug", m.Pattern)
}

func TestBuildMissingRootYieldsEmptyTree(t *testing.T) {
	fs := fsys.NewMemFS()
	root, err := Build("src/pages", fs, PageConfig)
	require.NoError(t, err)
	assert.False(t, root.Accept)

	_, ok := Resolve(root, SplitPath("/anything"))
	assert.False(t, ok)
}

func TestMiddlewareScalarForPagesStackForAPI(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.WriteFile("src/pages/middleware.ts", []byte("m")))
	require.NoError(t, fs.WriteFile("src/pages/page.tsx", []byte("p")))
	require.NoError(t, fs.WriteFile("src/api/middleware.ts", []byte("m")))
	require.NoError(t, fs.WriteFile("src/api/route.ts", []byte("r")))

	pages, err := Build("src/pages", fs, PageConfig)
	require.NoError(t, err)
	assert.Equal(t, "src/pages/middleware.ts", pages.Names[RoleMiddleware])
	assert.Empty(t, pages.Stacks[RoleMiddleware])

	api, err := Build("src/api", fs, APIConfig)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/api/middleware.ts"}, api.Stacks[RoleMiddleware])
}

func TestCollectImportsDeduplicatesAndIsDeterministic(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.WriteFile("src/pages/layout.tsx", []byte("L0")))
	require.NoError(t, fs.WriteFile("src/pages/dashboard/layout.tsx", []byte("L1")))
	require.NoError(t, fs.WriteFile("src/pages/dashboard/settings/page.tsx", []byte("P")))
	require.NoError(t, fs.WriteFile("src/pages/dashboard/other/page.tsx", []byte("P2")))

	root, err := Build("src/pages", fs, PageConfig)
	require.NoError(t, err)

	first := CollectImports(root)
	second := CollectImports(root)
	assert.Equal(t, first, second)

	byPath := map[string]string{}
	for _, d := range first {
		byPath[d.ImportPath] = d.Identifier
	}
	assert.Equal(t, "SrcPagesLayout", byPath["src/pages/layout.tsx"])
}

func TestIdentifierStripsRoutingSyntax(t *testing.T) {
	assert.Equal(t, "SrcPagesUsersIdPage", Identifier("src/pages/users/[id]/page.tsx"))
	assert.Equal(t, "SrcPagesDocsSlugPage", Identifier("src/pages/docs/[...slug]/page.tsx"))
	assert.Equal(t, "SrcPagesAuthLoginPage", Identifier("src/pages/(auth)/login/page.tsx"))
}
