package routetree

import (
	"path"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ImportDescriptor is a de-duplicated binding from a deterministic
// identifier to the file path a code generator should import it from
// (spec.md §4.B "Component import descriptor").
type ImportDescriptor struct {
	Identifier string
	ImportPath string
}

var titleCaser = cases.Title(language.Und)

// CollectImports walks every name/stack reference reachable from root and
// returns a de-duplicated, deterministically ordered list of import
// descriptors. Two references to the same file path always produce the
// same identifier.
func CollectImports(root *Node) []ImportDescriptor {
	seen := map[string]string{}
	walkImports(root, seen)

	out := make([]ImportDescriptor, 0, len(seen))
	for path, ident := range seen {
		out = append(out, ImportDescriptor{Identifier: ident, ImportPath: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ImportPath < out[j].ImportPath })
	return out
}

func walkImports(node *Node, seen map[string]string) {
	if node == nil {
		return
	}

	for _, p := range node.Names {
		register(seen, p)
	}
	for _, ps := range node.Stacks {
		for _, p := range ps {
			register(seen, p)
		}
	}

	for _, child := range node.StaticChildren {
		walkImports(child, seen)
	}
	walkImports(node.ParamChild, seen)
	walkImports(node.WildcardChild, seen)
}

func register(seen map[string]string, filePath string) {
	if filePath == "" {
		return
	}
	if _, ok := seen[filePath]; ok {
		return
	}
	seen[filePath] = Identifier(filePath)
}

// Identifier derives a deterministic PascalCase identifier from a
// project-relative file path: extension and directory separators split the
// path into words, bracket/parenthesis routing syntax is stripped, and each
// word is title-cased via golang.org/x/text/cases before being joined.
func Identifier(filePath string) string {
	clean := strings.TrimSuffix(filePath, path.Ext(filePath))
	clean = strings.NewReplacer(
		"[...", "_", "[", "_", "]", "_", "(", "_", ")", "_",
	).Replace(clean)

	var words []string
	for _, raw := range strings.FieldsFunc(clean, func(r rune) bool {
		return r == '/' || r == '-' || r == '_' || r == '.'
	}) {
		words = append(words, raw)
	}

	var b strings.Builder
	for _, w := range words {
		b.WriteString(titleCaser.String(w))
	}

	ident := b.String()
	if ident == "" {
		return "Root"
	}
	if r := rune(ident[0]); !unicode.IsLetter(r) {
		ident = "N" + ident
	}
	return ident
}
