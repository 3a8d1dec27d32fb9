package transform

import (
	"fmt"
	"strings"
)

// ExportKind distinguishes the shapes of export a 'use server' module may
// contain (spec.md §4.C step 2).
type ExportKind int

const (
	ExportNamed ExportKind = iota
	ExportDefault
	ExportReexport
	ExportStar
)

// Export describes one exported binding as reported by a Parser.
type Export struct {
	Name     string
	Kind     ExportKind
	Async    bool
	Location string
}

// Parser is the external collaborator that turns JS/TS source into export
// metadata (spec.md §6 "Collaborator contracts" — Parser). The core never
// implements a JS/TS parser itself.
type Parser interface {
	ParseExports(source string) ([]Export, error)
}

// useServerSingle and useServerDouble match the directive in either quote
// style, required to be the first non-whitespace content of the file.
const (
	useServerSingle = "'use server'"
	useServerDouble = `"use server"`
)

// IsServerModule reports whether source begins (ignoring leading
// whitespace) with the 'use server' directive.
func IsServerModule(source string) bool {
	trimmed := strings.TrimLeft(source, " \t\r\n")
	return strings.HasPrefix(trimmed, useServerSingle) || strings.HasPrefix(trimmed, useServerDouble)
}

// ShimError is the deterministic diagnostic produced when a 'use server'
// module fails validation (spec.md §7 kind "source").
type ShimError struct {
	Message string
}

func (e *ShimError) Error() string { return e.Message }

// Shim is the generated replacement for a 'use server' module: a
// client-side stub plus the function names it re-exports.
type Shim struct {
	ModulePath string
	Functions  []string
	Source     string
}

// GenerateShim implements spec.md §4.C's server-action shim generator.
// modulePath is the project-relative path used to build the RPC URL.
func GenerateShim(parser Parser, modulePath, source string) (*Shim, error) {
	exports, err := parser.ParseExports(source)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, ex := range exports {
		switch ex.Kind {
		case ExportStar:
			return nil, &ShimError{Message: fmt.Sprintf("%s: export * from '...' is not allowed in a 'use server' module", modulePath)}
		case ExportReexport:
			if !ex.Async {
				return nil, &ShimError{Message: fmt.Sprintf("%s: re-exported %s is not async", modulePath, ex.Name)}
			}
			names = append(names, ex.Name)
		case ExportDefault:
			if !ex.Async {
				return nil, &ShimError{Message: fmt.Sprintf("%s: default export is not async", modulePath)}
			}
			names = append(names, "default")
		case ExportNamed:
			if !ex.Async {
				return nil, &ShimError{Message: fmt.Sprintf("%s: %s is not async", modulePath, ex.Name)}
			}
			names = append(names, ex.Name)
		}
	}

	return &Shim{
		ModulePath: modulePath,
		Functions:  names,
		Source:     renderShimSource(modulePath, names),
	}, nil
}

func renderShimSource(modulePath string, names []string) string {
	var b strings.Builder
	b.WriteString("import { encode, decode } from \"/@deps/peaque-wire\";\n\n")
	fmt.Fprintf(&b, "function __rpcCall(name, args) {\n")
	fmt.Fprintf(&b, "  return fetch(%q + name, {\n", "/api/__rpc/"+modulePath+"/")
	b.WriteString("    method: \"POST\",\n")
	b.WriteString("    headers: { \"content-type\": \"application/json\" },\n")
	b.WriteString("    body: encode({ args }),\n")
	b.WriteString("  }).then((res) => res.text()).then(decode);\n")
	b.WriteString("}\n\n")

	for _, name := range names {
		if name == "default" {
			fmt.Fprintf(&b, "export default (...args) => __rpcCall(%q, args);\n", name)
			continue
		}
		fmt.Fprintf(&b, "export const %s = (...args) => __rpcCall(%q, args);\n", name, name)
	}

	return b.String()
}
