package routetree

import (
	"sort"
	"strings"
)

// RouteDescriptor is one accept-terminal route reachable from a tree: its
// reconstructed pattern (the same ":name"/"*name" shape Resolve produces)
// and its flattened names/stacks, ready for a generator that needs every
// route rather than one matched against a request (spec.md §4.H step 1/7,
// "collect head stacks").
type RouteDescriptor struct {
	Pattern string
	Names   map[Role]string
	Stacks  map[Role][]string
}

// CollectRoutes walks every accept-terminal node reachable from root and
// returns its route descriptors in deterministic, pattern-sorted order.
func CollectRoutes(root *Node) []RouteDescriptor {
	var out []RouteDescriptor
	walkRoutes(root, nil, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

func walkRoutes(node *Node, segments []string, out *[]RouteDescriptor) {
	if node == nil {
		return
	}

	if node.Accept {
		*out = append(*out, RouteDescriptor{
			Pattern: "/" + strings.Join(segments, "/"),
			Names:   node.Names,
			Stacks:  node.Stacks,
		})
	}

	names := make([]string, 0, len(node.StaticChildren))
	for name := range node.StaticChildren {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		child := node.StaticChildren[name]
		if child.ExcludeFromPath {
			walkRoutes(child, segments, out)
			continue
		}
		walkRoutes(child, append(append([]string{}, segments...), name), out)
	}

	if node.ParamChild != nil {
		walkRoutes(node.ParamChild, append(append([]string{}, segments...), ":"+node.ParamChild.ParamName), out)
	}
	if node.WildcardChild != nil {
		walkRoutes(node.WildcardChild, append(append([]string{}, segments...), "*"+node.WildcardChild.WildcardParam), out)
	}
}
