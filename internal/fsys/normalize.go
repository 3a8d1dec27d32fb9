package fsys

import "strings"

// normalize implements the path collapsing rules every backend must agree
// on: backslashes become forward slashes, "." segments are dropped, repeated
// slashes collapse, and a trailing slash (other than the root) is stripped.
func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")

	segments := strings.Split(p, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		default:
			out = append(out, seg)
		}
	}

	joined := strings.Join(out, "/")
	if strings.HasPrefix(p, "/") {
		return "/" + joined
	}
	if joined == "" {
		return "."
	}
	return joined
}
