// Package codegen provides the small code-builder abstraction spec.md §9
// calls for: the backend-entry generator (component H) assembles its
// output through line emission, indented blocks, and an import collector
// that always renders in sorted order, so two runs over identical inputs
// produce byte-identical files (spec.md §8 scenario 7).
package codegen

import (
	"sort"
	"strings"
)

// Builder accumulates lines and manages indentation depth.
type Builder struct {
	lines  []string
	indent int
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Line appends one line at the current indentation depth.
func (b *Builder) Line(s string) *Builder {
	b.lines = append(b.lines, strings.Repeat("  ", b.indent)+s)
	return b
}

// Blank appends an empty line.
func (b *Builder) Blank() *Builder {
	b.lines = append(b.lines, "")
	return b
}

// Block runs fn with the indentation depth increased by one, wrapping it
// between open and close lines emitted at the outer depth. Either open or
// close may be empty to omit that wrapping line.
func (b *Builder) Block(open, close string, fn func(*Builder)) *Builder {
	if open != "" {
		b.Line(open)
	}
	b.indent++
	fn(b)
	b.indent--
	if close != "" {
		b.Line(close)
	}
	return b
}

// String renders the accumulated lines, newline-joined with a trailing
// newline.
func (b *Builder) String() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// ImportKind distinguishes the three import shapes a generated module may
// need.
type ImportKind int

const (
	ImportNamed ImportKind = iota
	ImportDefault
	ImportNamespace
)

// Import is one collected import statement's worth of bindings from a
// single specifier.
type Import struct {
	Specifier string
	Kind      ImportKind
	Binding   string   // default/namespace binding name
	Names     []string // named bindings, for ImportNamed
}

// ImportCollector accumulates imports keyed by specifier so the same
// module is never imported twice, and always renders sorted by specifier
// for deterministic output.
type ImportCollector struct {
	bySpecifier map[string]*Import
}

// NewImportCollector returns an empty collector.
func NewImportCollector() *ImportCollector {
	return &ImportCollector{bySpecifier: map[string]*Import{}}
}

// AddNamed records a named import binding from specifier.
func (c *ImportCollector) AddNamed(specifier, name string) {
	imp := c.entry(specifier, ImportNamed)
	imp.Names = append(imp.Names, name)
}

// AddDefault records a default import binding from specifier.
func (c *ImportCollector) AddDefault(specifier, binding string) {
	c.entry(specifier, ImportDefault).Binding = binding
}

// AddNamespace records a namespace import binding from specifier.
func (c *ImportCollector) AddNamespace(specifier, binding string) {
	c.entry(specifier, ImportNamespace).Binding = binding
}

func (c *ImportCollector) entry(specifier string, kind ImportKind) *Import {
	imp, ok := c.bySpecifier[specifier]
	if !ok {
		imp = &Import{Specifier: specifier, Kind: kind}
		c.bySpecifier[specifier] = imp
	}
	return imp
}

// Render emits one `import ... from "specifier";` line per specifier, in
// sorted specifier order, with named bindings sorted within each line.
func (c *ImportCollector) Render() []string {
	specifiers := make([]string, 0, len(c.bySpecifier))
	for s := range c.bySpecifier {
		specifiers = append(specifiers, s)
	}
	sort.Strings(specifiers)

	out := make([]string, 0, len(specifiers))
	for _, s := range specifiers {
		imp := c.bySpecifier[s]
		switch imp.Kind {
		case ImportDefault:
			out = append(out, "import "+imp.Binding+" from \""+s+"\";")
		case ImportNamespace:
			out = append(out, "import * as "+imp.Binding+" from \""+s+"\";")
		default:
			names := append([]string(nil), imp.Names...)
			sort.Strings(names)
			out = append(out, "import { "+strings.Join(names, ", ")+" } from \""+s+"\";")
		}
	}
	return out
}
