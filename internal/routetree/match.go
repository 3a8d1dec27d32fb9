package routetree

import "strings"

// Match is the result of successfully resolving a path against a tree:
// the reconstructed pattern, the extracted parameter values, and the
// terminal node's already-flattened names and stacks.
type Match struct {
	Pattern string
	Params  map[string]string
	Names   map[Role]string
	Stacks  map[Role][]string
}

// Resolve walks segments against root applying the static > parameter >
// wildcard tie-break of spec.md §4.B step 5. Group segments never appear in
// segments since they are stripped from the URL before matching, but
// (group) directories are still walked by name when a path happens to
// contain one literally is not possible — groups are excluded from the URL
// space entirely, so callers pass the already-decoded path segments.
func Resolve(root *Node, segments []string) (Match, bool) {
	params := map[string]string{}
	patternParts := make([]string, 0, len(segments))

	node := root
	for i := 0; i < len(segments); i++ {
		seg := segments[i]

		if child, ok := matchStatic(node, seg); ok {
			node = child
			patternParts = append(patternParts, seg)
			continue
		}

		if node.ParamChild != nil {
			params[node.ParamChild.ParamName] = seg
			patternParts = append(patternParts, ":"+node.ParamChild.ParamName)
			node = node.ParamChild
			continue
		}

		if node.WildcardChild != nil {
			rest := strings.Join(segments[i:], "/")
			params[node.WildcardChild.WildcardParam] = rest
			patternParts = append(patternParts, "*"+node.WildcardChild.WildcardParam)
			node = node.WildcardChild
			break
		}

		return Match{}, false
	}

	if !node.Accept {
		return Match{}, false
	}

	pattern := "/" + strings.Join(patternParts, "/")

	return Match{
		Pattern: pattern,
		Params:  params,
		Names:   node.Names,
		Stacks:  node.Stacks,
	}, true
}

// matchStatic finds the static child for seg, transparently walking through
// group directories that wrap it: a (group) child is itself a routing
// no-op, so a literal segment can match a static child nested one level
// inside a group without the group name appearing in the URL.
func matchStatic(node *Node, seg string) (*Node, bool) {
	if child, ok := node.StaticChildren[seg]; ok {
		return child, true
	}

	for _, child := range node.StaticChildren {
		if !child.ExcludeFromPath {
			continue
		}
		if grand, ok := matchStatic(child, seg); ok {
			return grand, true
		}
	}

	return nil, false
}

// SplitPath turns a request path into normalized, non-empty segments.
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
