//go:build property
// +build property

package cache

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/peaque/internal/fsys"
)

// TestCacheRoundTripProperty checks property 4: calling GetOrProduce twice
// with the same (key, hash) invokes the producer at most once, and calling
// it with the same key but a new hash always invokes the producer exactly
// once and removes the prior file.
func TestCacheRoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("same key+hash invokes producer at most once", prop.ForAll(
		func(key, hashA string) bool {
			if key == "" || hashA == "" {
				return true
			}
			fs := fsys.NewMemFS()
			c := New(fs, "cache")

			calls := 0
			produce := func() ([]byte, error) {
				calls++
				return []byte("v"), nil
			}

			if _, err := c.GetOrProduce(key, hashA, produce); err != nil {
				return false
			}
			if _, err := c.GetOrProduce(key, hashA, produce); err != nil {
				return false
			}
			return calls <= 1
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.Property("new hash for same key evicts and reproduces exactly once", prop.ForAll(
		func(key, hashA, hashB string) bool {
			if key == "" || hashA == "" || hashB == "" || hashA == hashB {
				return true
			}
			fs := fsys.NewMemFS()
			c := New(fs, "cache")

			if _, err := c.GetOrProduce(key, hashA, func() ([]byte, error) { return []byte("a"), nil }); err != nil {
				return false
			}

			calls := 0
			if _, err := c.GetOrProduce(key, hashB, func() ([]byte, error) {
				calls++
				return []byte("b"), nil
			}); err != nil {
				return false
			}

			if calls != 1 {
				return false
			}
			return !fs.Exists(fmt.Sprintf("cache/%s.%s.cache", safeKey(key), shortHash(hashA)))
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

// TestCacheVersionGateProperty checks property 5: whenever the persisted
// index version differs from FormatVersion, the cache directory is empty
// after Load, regardless of how many entries it held.
func TestCacheVersionGateProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("mismatched format_version purges the cache directory", prop.ForAll(
		func(badVersion int, n int) bool {
			if badVersion == FormatVersion {
				badVersion++
			}

			fs := fsys.NewMemFS()
			c := New(fs, "cache")
			for i := 0; i < n; i++ {
				key := fmt.Sprintf("mod%d.ts", i)
				if _, err := c.GetOrProduce(key, "hash", func() ([]byte, error) { return []byte("x"), nil }); err != nil {
					return false
				}
			}

			raw := fmt.Sprintf(`{"format_version":%d,"entries":[]}`, badVersion)
			if err := fs.WriteFile("cache/index.json", []byte(raw)); err != nil {
				return false
			}

			c2 := New(fs, "cache")
			if err := c2.Load(); err != nil {
				return false
			}

			entries, err := fs.ReadDir("cache")
			if err != nil {
				return true // directory gone entirely also satisfies "empty"
			}
			return len(entries) == 0
		},
		gen.IntRange(-5, 5),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}
