package build

import (
	"crypto/sha1"
	"encoding/hex"
)

// ContentHash returns the first 8 hex characters of the sha1 digest of
// source, the asset-directory naming scheme spec.md §4.H assigns to a
// build (`assets-<hash>`, also the public asset prefix).
func ContentHash(source string) string {
	sum := sha1.Sum([]byte(source))
	return hex.EncodeToString(sum[:])[:8]
}
