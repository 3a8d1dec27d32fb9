package head

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// Render emits a merged Descriptor as an HTML <head>-body fragment.
// Attribute values are HTML-escaped; href/src values beginning with "/"
// (and not already "//" or the asset prefix) are prefixed with assetPrefix.
func Render(d Descriptor, assetPrefix string) string {
	var b strings.Builder

	if d.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(d.Title))
	}

	for _, m := range d.Meta {
		attrs := map[string]string{}
		if m.Name != "" {
			attrs["name"] = m.Name
		}
		if m.Property != "" {
			attrs["property"] = m.Property
		}
		if m.HTTPEquiv != "" {
			attrs["http-equiv"] = m.HTTPEquiv
		}
		if m.Content != "" {
			attrs["content"] = m.Content
		}
		fmt.Fprintf(&b, "<meta%s>\n", renderAttrs(attrs, assetPrefix))
	}

	for _, l := range d.Link {
		attrs := map[string]string{"rel": l.Rel, "href": l.Href}
		for k, v := range l.Attr {
			attrs[k] = v
		}
		fmt.Fprintf(&b, "<link%s>\n", renderAttrs(attrs, assetPrefix))
	}

	for _, s := range d.Script {
		attrs := map[string]string{}
		if s.Src != "" {
			attrs["src"] = s.Src
		}
		for k, v := range s.Attr {
			attrs[k] = v
		}
		fmt.Fprintf(&b, "<script%s>%s</script>\n", renderAttrs(attrs, assetPrefix), s.Inner)
	}

	for _, s := range d.Style {
		attrs := map[string]string{}
		if s.Type != "" {
			attrs["type"] = s.Type
		}
		fmt.Fprintf(&b, "<style%s>%s</style>\n", renderAttrs(attrs, assetPrefix), s.InnerHTML)
	}

	for _, e := range d.Extra {
		fmt.Fprintf(&b, "<%s%s>%s</%s>\n", e.Tag, renderAttrs(e.Attr, assetPrefix), e.InnerHTML, e.Tag)
	}

	return b.String()
}

// renderAttrs renders a map of attribute values in sorted key order for
// deterministic output, escaping values and rewriting root-relative
// href/src values to carry the asset prefix.
func renderAttrs(attrs map[string]string, assetPrefix string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := attrs[k]
		if (k == "href" || k == "src") && shouldPrefix(v, assetPrefix) {
			v = strings.TrimSuffix(assetPrefix, "/") + v
		}
		fmt.Fprintf(&b, " %s=%q", k, html.EscapeString(v))
	}
	return b.String()
}

func shouldPrefix(v, assetPrefix string) bool {
	if !strings.HasPrefix(v, "/") {
		return false
	}
	if strings.HasPrefix(v, "//") {
		return false
	}
	if strings.HasPrefix(v, assetPrefix) {
		return false
	}
	return true
}
