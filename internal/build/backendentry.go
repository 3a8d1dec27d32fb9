package build

import (
	"github.com/conneroisu/peaque/internal/codegen"
	"github.com/conneroisu/peaque/internal/routetree"
)

// BackendEntryInput is everything RenderBackendEntry needs to generate the
// standalone production server module (spec.md §4.H step 9).
type BackendEntryInput struct {
	APIRoutes     []routetree.RouteDescriptor
	Pages         []routetree.RouteDescriptor
	Jobs          []JobDescriptor
	AssetDir      string
	AssetPrefix   string
	ServerModules []string
}

// RenderBackendEntry generates the backend entry module: it imports every
// API handler and every 'use server' module statically (no dynamic
// require, so a single bundler pass captures the whole server), registers
// one route per API handler, one server.page registration per page pattern
// and a static handler for the asset directory, subscribes every
// discovered job's schedules, and parses --port/-p before listening. It
// does not import src/startup.ts or src/middleware.ts.
// Deterministic across reruns against an unchanged route tree (spec.md §8
// scenario 7), the same property RenderFrontendEntry upholds.
func RenderBackendEntry(in BackendEntryInput) string {
	imports := codegen.NewImportCollector()
	imports.AddNamed("/@deps/peaque-runtime", "createServer")
	imports.AddNamed("/@deps/peaque-runtime", "serveStatic")
	if len(in.Jobs) > 0 {
		imports.AddNamed("/@deps/cron", "Cron")
	}

	handlerIdents := make(map[string]string, len(in.APIRoutes))
	for i, r := range in.APIRoutes {
		if fileRef, ok := r.Names[routetree.RoleHandler]; ok {
			ident := "route" + identSuffix(i)
			imports.AddDefault(fileRef, ident)
			handlerIdents[r.Pattern] = ident
		}
	}
	for i, j := range in.Jobs {
		imports.AddDefault(j.ImportPath, "job"+identSuffix(i))
	}
	for i, m := range in.ServerModules {
		imports.AddNamespace(m, "serverModule"+identSuffix(i))
	}

	b := codegen.New()
	for _, line := range imports.Render() {
		b.Line(line)
	}
	b.Blank()

	b.Line("const server = createServer();")
	b.Blank()

	b.Block("serveStatic(server, {", "});", func(inner *codegen.Builder) {
		inner.Line("directory: " + jsString(in.AssetDir) + ",")
		inner.Line("prefix: " + jsString(in.AssetPrefix) + ",")
	})
	b.Blank()

	for _, r := range in.APIRoutes {
		ident, ok := handlerIdents[r.Pattern]
		if !ok {
			continue
		}
		b.Line("server.route(" + jsString(r.Pattern) + ", " + ident + ");")
	}
	b.Blank()

	for i := range in.Pages {
		b.Line("server.page(" + jsString(in.Pages[i].Pattern) + ");")
	}
	b.Blank()

	for i, j := range in.Jobs {
		ident := "job" + identSuffix(i)
		b.Line("// " + j.DisplayName)
		b.Block("for (const schedule of "+ident+".schedule) {", "}", func(inner *codegen.Builder) {
			inner.Block("new Cron(schedule, { protect: true }, () => {", "});", func(body *codegen.Builder) {
				body.Line(ident + ".run().catch((err) => console.error(" + jsString(j.DisplayName) + ", err));")
			})
		})
		b.Blank()
	}

	b.Line("const args = process.argv.slice(2);")
	b.Block("function flagValue(names) {", "}", func(inner *codegen.Builder) {
		inner.Block("for (const name of names) {", "}", func(loop *codegen.Builder) {
			loop.Line("const i = args.indexOf(name);")
			loop.Block("if (i !== -1 && args[i + 1]) {", "}", func(ifb *codegen.Builder) {
				ifb.Line("return args[i + 1];")
			})
		})
		inner.Line("return undefined;")
	})
	b.Line(`const port = Number(flagValue(["--port", "-p"])) || 3000;`)
	b.Blank()

	b.Line("const instance = server.listen(port);")
	b.Block(`process.on("SIGINT", () => {`, "});", func(inner *codegen.Builder) {
		inner.Line("instance.close(() => process.exit(0));")
	})
	b.Block(`process.on("SIGTERM", () => {`, "});", func(inner *codegen.Builder) {
		inner.Line("instance.close(() => process.exit(0));")
	})

	return b.String()
}

// RenderMainLoader generates the thin commonjs loader spec.md §4.H step 10
// describes, the single file a `node main.cjs` invocation needs.
func RenderMainLoader() string {
	b := codegen.New()
	b.Line(`require("./server.cjs");`)
	return b.String()
}

func identSuffix(i int) string {
	const digits = "0123456789"
	if i == 0 {
		return "0"
	}
	var out []byte
	for i > 0 {
		out = append([]byte{digits[i%10]}, out...)
		i /= 10
	}
	return string(out)
}

func jsString(s string) string {
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b = append(b, '\\')
		}
		b = append(b, string(r)...)
	}
	b = append(b, '"')
	return string(b)
}
