// Package routetree builds a radix-style route tree from a directory layout,
// the way the teacher's scanner package walks .templ files — except the
// walk here classifies each file against a declarative pattern table and
// turns directory names into routing structure ([param], [...wildcard],
// (group)) instead of parsing Go AST for component metadata.
package routetree

import (
	"sort"
	"strings"

	"github.com/conneroisu/peaque/internal/fsys"
)

// Role names the slot a matched file occupies on a node.
type Role string

const (
	RolePage       Role = "page"
	RoleHandler    Role = "handler"
	RoleLayout     Role = "layout"
	RoleGuard      Role = "guard"
	RoleHeads      Role = "heads"
	RoleMiddleware Role = "middleware"
)

// PatternConfig is one entry of a route file configuration (spec.md §3
// "Route file configuration"): a declarative binding from an exact filename
// to the role it fills, whether it accumulates as a stack, and whether its
// presence makes the node a match terminal.
type PatternConfig struct {
	Pattern string
	Role    Role
	Stacks  bool
	Accept  bool
}

// PageConfig is the route file configuration for the pages tree.
var PageConfig = []PatternConfig{
	{Pattern: "page.tsx", Role: RolePage, Accept: true},
	{Pattern: "layout.tsx", Role: RoleLayout, Stacks: true},
	{Pattern: "guard.ts", Role: RoleGuard, Stacks: true},
	{Pattern: "head.ts", Role: RoleHeads, Stacks: true},
	{Pattern: "middleware.ts", Role: RoleMiddleware},
}

// APIConfig is the route file configuration for the API tree.
var APIConfig = []PatternConfig{
	{Pattern: "route.ts", Role: RoleHandler, Accept: true},
	{Pattern: "middleware.ts", Role: RoleMiddleware, Stacks: true},
}

// Node is one segment of the route tree. See spec.md §3 for the field-level
// invariants this type upholds.
type Node struct {
	StaticChildren map[string]*Node
	ParamChild     *Node
	ParamName      string
	WildcardChild  *Node
	WildcardParam  string
	ExcludeFromPath bool

	Accept bool
	Names  map[Role]string
	Stacks map[Role][]string

	// segment is the literal path segment this node was reached by, kept
	// for diagnostics and pattern reconstruction; empty at the root.
	segment string
	ownStacks map[Role][]string
}

func newNode(segment string) *Node {
	return &Node{
		StaticChildren: make(map[string]*Node),
		Names:          make(map[Role]string),
		Stacks:         make(map[Role][]string),
		ownStacks:      make(map[Role][]string),
		segment:        segment,
	}
}

// Build walks root using fs and config, returning the tree's root node. A
// missing root directory yields an empty, accept-free root rather than an
// error (spec.md §4.B "Edge policies").
func Build(root string, fs fsys.FS, config []PatternConfig) (*Node, error) {
	if !fs.Exists(root) {
		return newNode(""), nil
	}

	node, err := buildNode(root, fs, config)
	if err != nil {
		return nil, err
	}

	propagate(node, nil)
	return node, nil
}

func buildNode(dir string, fs fsys.FS, config []PatternConfig) (*Node, error) {
	node := newNode(lastSegment(dir))

	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	// Sort entries for deterministic classification order; the tie-break
	// between static/param/wildcard children is structural, not order
	// dependent, but stable iteration keeps error messages reproducible.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	for _, e := range entries {
		childPath := dir + "/" + e.Name

		if e.IsDir {
			child, err := buildNode(childPath, fs, config)
			if err != nil {
				return nil, err
			}
			attachChild(node, e.Name, child)
			continue
		}

		classifyFile(node, e.Name, childPath, config)
	}

	return node, nil
}

// attachChild classifies a directory name into the three dynamic-segment
// shapes spec.md §4.B step 2 describes, or a plain static child.
func attachChild(parent *Node, name string, child *Node) {
	switch {
	case strings.HasPrefix(name, "[...") && strings.HasSuffix(name, "]"):
		child.WildcardParam = name[4 : len(name)-1]
		parent.WildcardChild = child
	case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
		child.ParamName = name[1 : len(name)-1]
		parent.ParamChild = child
	case strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")"):
		child.ExcludeFromPath = true
		parent.StaticChildren[name] = child
	default:
		parent.StaticChildren[name] = child
	}
}

func classifyFile(node *Node, name, path string, config []PatternConfig) {
	for _, pc := range config {
		if pc.Pattern != name {
			continue
		}
		if pc.Stacks {
			node.ownStacks[pc.Role] = append(node.ownStacks[pc.Role], path)
		} else {
			node.Names[pc.Role] = path
		}
		if pc.Accept {
			node.Accept = true
		}
	}
}

// propagate materializes stack inheritance (spec.md §4.B step 4 / §8
// property 2): every descendant's Stacks field becomes the concatenation of
// every ancestor's own stacks followed by its own, so match results never
// need to walk ancestors again.
func propagate(node *Node, inherited map[Role][]string) {
	node.Stacks = make(map[Role][]string, len(node.ownStacks))

	roles := map[Role]bool{}
	for role := range inherited {
		roles[role] = true
	}
	for role := range node.ownStacks {
		roles[role] = true
	}

	for role := range roles {
		combined := make([]string, 0, len(inherited[role])+len(node.ownStacks[role]))
		combined = append(combined, inherited[role]...)
		combined = append(combined, node.ownStacks[role]...)
		node.Stacks[role] = combined
	}

	for _, child := range node.StaticChildren {
		propagate(child, node.Stacks)
	}
	if node.ParamChild != nil {
		propagate(node.ParamChild, node.Stacks)
	}
	if node.WildcardChild != nil {
		propagate(node.WildcardChild, node.Stacks)
	}
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx == -1 {
		return path
	}
	return path[idx+1:]
}
