// Package transform implements the module transformation layer (component
// C's non-cache half): import specifier rewriting, fast-refresh wrapper
// injection, and 'use server' shim generation. Regex-driven source
// scanning follows the teacher's internal/registry/dependency.go pattern
// of matching import-like constructs with precompiled patterns rather than
// a full parse, reserving the Parser collaborator interface for the one
// place genuine AST information (export async-ness) is required.
package transform

import (
	"path"
	"regexp"
	"strings"
)

var jsExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// staticImportRe matches `import ... from "X"` and `export ... from "X"`
// (re-exports share the same trailing `from "X"` shape).
var staticImportRe = regexp.MustCompile(`(?m)^(\s*(?:import|export)(?:[^'"\n]*?)from\s*)(['"])([^'"]+)(['"])`)

// dynamicImportRe matches `import("X")`.
var dynamicImportRe = regexp.MustCompile(`\bimport\(\s*(['"])([^'"]+)(['"])\s*\)`)

// Rewriter rewrites import specifiers in a module according to spec.md
// §4.C's ordered rule list. Aliases mirrors a tsconfig-style `paths` map:
// prefix -> project-relative target directory.
type Rewriter struct {
	Aliases map[string]string
}

// NewRewriter constructs a Rewriter with the given alias table. A nil map
// is treated as empty.
func NewRewriter(aliases map[string]string) *Rewriter {
	if aliases == nil {
		aliases = map[string]string{}
	}
	return &Rewriter{Aliases: aliases}
}

// Rewrite rewrites every import specifier found in source, a module whose
// project-relative path is filePath (used to resolve relative imports).
func (r *Rewriter) Rewrite(filePath, source string) string {
	dir := path.Dir(filePath)

	source = staticImportRe.ReplaceAllStringFunc(source, func(m string) string {
		parts := staticImportRe.FindStringSubmatch(m)
		prefix, quote, spec := parts[1], parts[2], parts[3]
		return prefix + quote + r.rewriteSpecifier(dir, spec) + quote
	})

	source = dynamicImportRe.ReplaceAllStringFunc(source, func(m string) string {
		parts := dynamicImportRe.FindStringSubmatch(m)
		quote, spec := parts[1], parts[2]
		return "import(" + quote + r.rewriteSpecifier(dir, spec) + quote + ")"
	})

	return source
}

// rewriteSpecifier applies the five ordered rules of spec.md §4.C.
func (r *Rewriter) rewriteSpecifier(fromDir, spec string) string {
	switch {
	case strings.HasPrefix(spec, "/@deps/") || strings.HasPrefix(spec, "/@src/"):
		return spec

	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		resolved := path.Clean(path.Join(fromDir, spec))
		return "/@src/" + stripJSExtension(resolved)
	}

	if target := r.matchAlias(spec); target != "" {
		return "/@src/" + target
	}

	if strings.HasPrefix(spec, "/") {
		return "/@src/" + strings.TrimPrefix(spec, "/")
	}

	return "/@deps/" + spec
}

// matchAlias returns the rewritten target for spec under the longest
// matching alias prefix, or "" if none match.
func (r *Rewriter) matchAlias(spec string) string {
	var best, bestTarget string
	for prefix, target := range r.Aliases {
		if !strings.HasPrefix(spec, prefix) {
			continue
		}
		if len(prefix) <= len(best) {
			continue
		}
		best = prefix
		rest := strings.TrimPrefix(spec, prefix)
		bestTarget = strings.TrimPrefix(target+rest, "/")
	}
	return bestTarget
}

func stripJSExtension(p string) string {
	for _, ext := range jsExtensions {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}
