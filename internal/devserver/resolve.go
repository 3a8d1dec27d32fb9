package devserver

import (
	"path"
	"strings"

	"github.com/conneroisu/peaque/internal/fsys"
)

// srcCandidateSuffixes is the resolution order spec.md §4.E specifies
// for `/@src/<p>`.
var srcCandidateSuffixes = []string{
	"",
	".ts",
	".tsx",
	".js",
	".jsx",
	"/index.ts",
	"/index.tsx",
	"/index.js",
	"/index.jsx",
}

// escapesRootError is returned by resolveSource when a candidate would
// normalize outside the project root (spec.md §4.E: "any candidate
// escaping it yields 403").
type escapesRootError struct{ path string }

func (e *escapesRootError) Error() string { return "devserver: path escapes project root: " + e.path }

// resolveSource finds the on-disk file backing requested project-
// relative path p, trying each candidate suffix in order and returning
// the first that names a regular file. It returns ("", false, nil) when
// no candidate matches, and a non-nil error only for a root-escape.
func resolveSource(fs fsys.FS, root, p string) (resolved string, ok bool, err error) {
	clean := path.Clean("/" + p)
	for _, suffix := range srcCandidateSuffixes {
		candidate := path.Join(root, clean+suffix)
		if !withinRoot(root, candidate) {
			return "", false, &escapesRootError{path: p}
		}
		info, statErr := fs.Stat(candidate)
		if statErr != nil {
			continue
		}
		if !info.IsDir {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// withinRoot reports whether candidate (already path.Join'd against
// root) still lives under root after normalization.
func withinRoot(root, candidate string) bool {
	root = path.Clean(root)
	candidate = path.Clean(candidate)
	return candidate == root || strings.HasPrefix(candidate, root+"/")
}

// projectRelative strips root and a leading slash from an absolute
// on-disk path, for use as a transform-cache key.
func projectRelative(root, absPath string) string {
	rel := strings.TrimPrefix(absPath, path.Clean(root))
	return strings.TrimPrefix(rel, "/")
}
