package head

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// StackKey computes a stable identifier for an ordered head-file stack: any
// two routes sharing the same stack (by file path, in order) collapse to
// the same key, so the builder only renders and stores their HTML once
// (spec.md §4.G last paragraph).
func StackKey(stack []string) string {
	sum := sha1.Sum([]byte(strings.Join(stack, "\x00")))
	return hex.EncodeToString(sum[:])
}

// MergeStack folds an ordered sequence of descriptors (root to leaf) onto
// a default descriptor, in the order the builder accumulates them.
func MergeStack(base Descriptor, stack []Descriptor) Descriptor {
	result := base
	for _, d := range stack {
		result = Merge(result, d)
	}
	return result
}
