package codegen

import "github.com/conneroisu/peaque/internal/routetree"

// RenderFrontendEntry generates the small entry module spec.md §4.H step 1
// describes: a default import per discovered page component plus a
// `createRouter({...})` call, mounted to #root. Shared by the dev server
// (regenerated per request against the live tree) and the production
// builder (generated once and handed to the bundler), so the two never
// drift apart on the generated shape.
func RenderFrontendEntry(descriptors []routetree.ImportDescriptor) string {
	imports := NewImportCollector()
	imports.AddNamed("/@deps/peaque-runtime", "createRouter")
	for _, d := range descriptors {
		imports.AddDefault(d.ImportPath, d.Identifier)
	}

	b := New()
	for _, line := range imports.Render() {
		b.Line(line)
	}
	b.Blank()
	b.Block("const router = createRouter({", "});", func(inner *Builder) {
		for _, d := range descriptors {
			inner.Line(d.Identifier + ": " + d.Identifier + ",")
		}
	})
	b.Blank()
	b.Line("router.mount(document.getElementById(\"root\"));")

	return b.String()
}
