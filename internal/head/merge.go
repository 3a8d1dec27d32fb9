package head

// Merge combines parent and child into one descriptor following spec.md
// §4.G: the child's title wins if present, each item kind collapses by its
// own identity rule with the child's version winning the slot, and extra
// items are pure concatenation.
func Merge(parent, child Descriptor) Descriptor {
	title := parent.Title
	if child.Title != "" {
		title = child.Title
	}

	return Descriptor{
		Title: title,
		Meta: mergeItems(parent.Meta, child.Meta, func(m MetaItem) (string, bool) {
			switch {
			case m.Name != "":
				return "name:" + m.Name, true
			case m.Property != "":
				return "property:" + m.Property, true
			case m.HTTPEquiv != "":
				return "http-equiv:" + m.HTTPEquiv, true
			default:
				return "", false
			}
		}),
		Link: mergeItems(parent.Link, child.Link, func(l LinkItem) (string, bool) {
			return l.Rel + "\x00" + l.Href, true
		}),
		Script: mergeItems(parent.Script, child.Script, func(s ScriptItem) (string, bool) {
			if s.Src == "" {
				return "", false
			}
			return s.Src, true
		}),
		Style: mergeItems(parent.Style, child.Style, func(s StyleItem) (string, bool) {
			return s.Type + "\x00" + s.InnerHTML, true
		}),
		Extra: append(append([]ExtraItem(nil), parent.Extra...), child.Extra...),
	}
}

// mergeItems collapses parent and child slices by identity: a child item
// whose identity matches a parent item replaces it in place; a child item
// with no matching identity (or no identity at all) is appended in order.
func mergeItems[T any](parent, child []T, identity func(T) (string, bool)) []T {
	var result []T
	result = append(result, parent...)

	index := make(map[string]int, len(parent))
	for i, p := range parent {
		if key, ok := identity(p); ok {
			index[key] = i
		}
	}

	for _, c := range child {
		key, ok := identity(c)
		if ok {
			if i, exists := index[key]; exists {
				result[i] = c
				continue
			}
			index[key] = len(result)
		}
		result = append(result, c)
	}

	return result
}
