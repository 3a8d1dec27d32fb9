package build

import (
	"context"
	"strings"

	"github.com/conneroisu/peaque/internal/codegen"
	"github.com/conneroisu/peaque/internal/fsys"
	"github.com/conneroisu/peaque/internal/head"
	"github.com/conneroisu/peaque/internal/jobs"
	"github.com/conneroisu/peaque/internal/routetree"
)

// Bundler is the external bundler collaborator's contract for the
// production pipeline (spec.md §6 "Collaborator contracts" — the same
// seam devserver.Bundler stands in for, widened to the three bundling
// shapes a production build needs). FrontendBundle.ServerModules is the
// list of 'use server' modules the bundler encountered while walking the
// frontend entry's import graph (spec.md §4.H step 2).
type Bundler interface {
	BundleFrontend(ctx context.Context, entrySource string) (FrontendBundle, error)
	BundleCSS(ctx context.Context, root string) ([]byte, error)
	BundleBackend(ctx context.Context, entrySource string) ([]byte, error)
}

// FrontendBundle is what BundleFrontend returns: the bundled JS plus every
// 'use server' module path the bundler's import walk discovered.
type FrontendBundle struct {
	JS            []byte
	ServerModules []string
}

// HeadLoader resolves a head.ts file reference to its descriptor (spec.md
// §6 "Collaborator contracts"), the production-build analogue of the
// parsing devserver does inline for dev requests.
type HeadLoader interface {
	LoadHead(ctx context.Context, fileRef string) (head.Descriptor, error)
}

// Builder runs the production pipeline spec.md §4.H describes: bundle
// frontend and backend entries, rewrite and precompress assets, render
// head HTML per route, and generate the standalone backend entry.
type Builder struct {
	cfg        Config
	fs         fsys.FS
	bundler    Bundler
	headLoader HeadLoader
	cache      *BuildCache
	metrics    *BuildMetrics
}

// New constructs a Builder. cache may be nil; Run does not read or write
// the cache, so every Run bundles afresh.
func New(cfg Config, fs fsys.FS, bundler Bundler, headLoader HeadLoader, cache *BuildCache) *Builder {
	return &Builder{
		cfg:        cfg.withDefaults(),
		fs:         fs,
		bundler:    bundler,
		headLoader: headLoader,
		cache:      cache,
		metrics:    NewBuildMetrics(),
	}
}

// Result is everything a production build produced, ready for a caller
// (the `peaque build` command) to write to DistDir.
type Result struct {
	Hash               string
	AssetDir           string
	AssetPrefix        string
	ServerModules      []string
	Pages              []routetree.RouteDescriptor
	APIRoutes          []routetree.RouteDescriptor
	HeadHTML           map[string]string // stack key -> rendered <head>...</head>
	PageHeadKey        map[string]string // page pattern -> stack key
	FrontendJS         []byte
	CSS                []byte
	BackendEntrySource string
	MainCJSSource      string
	Jobs               []JobDescriptor
}

// JobDescriptor is one discovered src/jobs/**/job.ts module, ready for the
// backend entry generator (spec.md §4.H "Jobs").
type JobDescriptor struct {
	DisplayName string
	ImportPath  string
	Identifier  string
}

// Run executes the ten-step pipeline and returns its result. It never
// writes to DistDir itself; Materialize does that once Run succeeds.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	pagesTree, err := routetree.Build(b.cfg.PagesDir, b.fs, routetree.PageConfig)
	if err != nil {
		return nil, err
	}
	apiTree, err := routetree.Build(b.cfg.APIDir, b.fs, routetree.APIConfig)
	if err != nil {
		return nil, err
	}

	// Step 1: build the page tree and emit the frontend entry.
	entrySource := codegen.RenderFrontendEntry(routetree.CollectImports(pagesTree))

	// Step 2: hand the entry to the bundler; collect 'use server' modules.
	frontend, err := b.bundler.BundleFrontend(ctx, entrySource)
	if err != nil {
		return nil, err
	}

	hash := ContentHash(entrySource)
	assetDir := b.cfg.DistDir + "/assets-" + hash
	assetPrefix := "/assets-" + hash

	// Step 3: rewrite absolute /src/public/... references in the bundled
	// JS to the asset prefix.
	rewrittenJS := RewritePublicReferences(frontend.JS, assetPrefix)

	// Step 4: bundle CSS once with the same rewrite.
	css, err := b.bundler.BundleCSS(ctx, b.cfg.Root)
	if err != nil {
		return nil, err
	}
	rewrittenCSS := RewritePublicReferences(css, assetPrefix)

	// Step 7: build the API tree (done above already; recorded here).
	apiRoutes := routetree.CollectRoutes(apiTree)
	pages := routetree.CollectRoutes(pagesTree)

	// Step 8: collect head stacks, render one HTML per distinct stack key.
	headHTML, pageHeadKey, err := b.renderHeadStacks(ctx, pages, assetPrefix)
	if err != nil {
		return nil, err
	}

	jobDescs, err := b.discoverJobs(ctx)
	if err != nil {
		return nil, err
	}

	// Step 9: generate the standalone backend entry.
	backendEntry := RenderBackendEntry(BackendEntryInput{
		APIRoutes:     apiRoutes,
		Pages:         pages,
		Jobs:          jobDescs,
		AssetDir:      "assets-" + hash,
		AssetPrefix:   assetPrefix,
		ServerModules: frontend.ServerModules,
	})

	// Step 10: bundle the backend entry into commonjs, plus a thin loader.
	backendJS, err := b.bundler.BundleBackend(ctx, backendEntry)
	if err != nil {
		return nil, err
	}
	mainCJS := RenderMainLoader()

	result := &Result{
		Hash:               hash,
		AssetDir:           assetDir,
		AssetPrefix:        assetPrefix,
		ServerModules:      frontend.ServerModules,
		Pages:              pages,
		APIRoutes:          apiRoutes,
		HeadHTML:           headHTML,
		PageHeadKey:        pageHeadKey,
		FrontendJS:         rewrittenJS,
		CSS:                rewrittenCSS,
		BackendEntrySource: string(backendJS),
		MainCJSSource:      mainCJS,
		Jobs:               jobDescs,
	}
	return result, nil
}

func (b *Builder) renderHeadStacks(ctx context.Context, pages []routetree.RouteDescriptor, assetPrefix string) (map[string]string, map[string]string, error) {
	html := map[string]string{}
	keyByPattern := map[string]string{}

	for _, p := range pages {
		stack := p.Stacks[routetree.RoleHeads]
		key := head.StackKey(stack)
		keyByPattern[p.Pattern] = key
		if _, done := html[key]; done {
			continue
		}

		descriptors := make([]head.Descriptor, 0, len(stack))
		for _, ref := range stack {
			d, err := b.headLoader.LoadHead(ctx, ref)
			if err != nil {
				return nil, nil, err
			}
			descriptors = append(descriptors, d)
		}
		merged := head.MergeStack(head.Descriptor{}, descriptors)
		html[key] = head.Render(merged, assetPrefix)
	}

	return html, keyByPattern, nil
}

// discoverJobs walks JobsDir for every job.ts file, the same directory
// convention routetree.Build classifies pages and API routes against, but
// jobs have no routing shape to reconstruct — only a display name (spec.md
// §4.H "Jobs").
func (b *Builder) discoverJobs(ctx context.Context) ([]JobDescriptor, error) {
	if !b.fs.Exists(b.cfg.JobsDir) {
		return nil, nil
	}

	var out []JobDescriptor
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := b.fs.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			path := dir + "/" + e.Name
			if e.IsDir {
				if err := walk(path); err != nil {
					return err
				}
				continue
			}
			if e.Name != "job.ts" {
				continue
			}
			rel := strings.TrimPrefix(path, b.cfg.JobsDir+"/")
			name := jobs.DisplayName(rel)
			out = append(out, JobDescriptor{
				DisplayName: name,
				ImportPath:  path,
				Identifier:  jobIdentifier(name),
			})
		}
		return nil
	}
	if err := walk(b.cfg.JobsDir); err != nil {
		return nil, err
	}
	return out, nil
}

func jobIdentifier(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '/' || r == '-' || r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(toUpperRune(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return "job" + b.String()
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
