package devserver

import (
	"github.com/conneroisu/peaque/internal/codegen"
	"github.com/conneroisu/peaque/internal/routetree"
)

// renderFrontendEntry generates the small entry module spec.md §4.H step
// 1 describes: it imports every discovered page component identifier
// and renders the router. Using internal/codegen keeps this output
// deterministic across rebuilds with the same route tree (§8 scenario
// 7), which matters here too since /peaque.js is regenerated on every
// request.
func (s *Server) renderFrontendEntry() string {
	var tree *routetree.Node
	if ro := s.pages.Load(); ro != nil {
		tree = ro.Tree()
	}
	if tree == nil {
		tree = &routetree.Node{}
	}
	return codegen.RenderFrontendEntry(routetree.CollectImports(tree))
}
