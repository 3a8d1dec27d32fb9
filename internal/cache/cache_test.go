package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/peaque/internal/fsys"
)

func TestGetOrProduceHitsWithoutReinvoking(t *testing.T) {
	fs := fsys.NewMemFS()
	c := New(fs, "cache")

	calls := 0
	produce := func() ([]byte, error) {
		calls++
		return []byte("output"), nil
	}

	data, err := c.GetOrProduce("mod.ts", "hash-a", produce)
	require.NoError(t, err)
	assert.Equal(t, "output", string(data))

	data, err = c.GetOrProduce("mod.ts", "hash-a", produce)
	require.NoError(t, err)
	assert.Equal(t, "output", string(data))
	assert.Equal(t, 1, calls)
}

func TestGetOrProduceNewHashEvictsOld(t *testing.T) {
	fs := fsys.NewMemFS()
	c := New(fs, "cache")

	_, err := c.GetOrProduce("mod.ts", "hash-a", func() ([]byte, error) { return []byte("a"), nil })
	require.NoError(t, err)
	assert.True(t, fs.Exists("cache/mod.ts.hash-a.cache"))

	calls := 0
	data, err := c.GetOrProduce("mod.ts", "hash-b", func() ([]byte, error) {
		calls++
		return []byte("b"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
	assert.Equal(t, 1, calls)
	assert.False(t, fs.Exists("cache/mod.ts.hash-a.cache"))
}

func TestGetOrProducePropagatesProducerError(t *testing.T) {
	fs := fsys.NewMemFS()
	c := New(fs, "cache")

	_, err := c.GetOrProduce("mod.ts", "hash-a", func() ([]byte, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)
}

func TestLoadPurgesOnVersionMismatch(t *testing.T) {
	fs := fsys.NewMemFS()
	require.NoError(t, fs.WriteFile("cache/index.json", []byte(`{"format_version":999,"entries":[{"key":"mod.ts","content_hash":"hash-a","timestamp":"2020-01-01T00:00:00Z"}]}`)))
	require.NoError(t, fs.WriteFile("cache/mod.ts.hash-a.cache", []byte("stale")))

	c := New(fs, "cache")
	require.NoError(t, c.Load())

	assert.False(t, fs.Exists("cache/mod.ts.hash-a.cache"))
	assert.False(t, fs.Exists("cache/index.json"))

	calls := 0
	data, err := c.GetOrProduce("mod.ts", "hash-a", func() ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
	assert.Equal(t, 1, calls)
}

func TestLoadKeepsEntriesOnVersionMatch(t *testing.T) {
	fs := fsys.NewMemFS()
	c1 := New(fs, "cache")
	_, err := c1.GetOrProduce("mod.ts", "hash-a", func() ([]byte, error) { return []byte("x"), nil })
	require.NoError(t, err)

	c2 := New(fs, "cache")
	require.NoError(t, c2.Load())

	calls := 0
	data, err := c2.GetOrProduce("mod.ts", "hash-a", func() ([]byte, error) {
		calls++
		return []byte("y"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
	assert.Equal(t, 0, calls)
}

type failingWriteFS struct {
	fsys.FS
}

func (f failingWriteFS) WriteFile(path string, data []byte) error {
	return errors.New("disk full")
}

func TestGetOrProduceDegradesGracefullyOnWriteError(t *testing.T) {
	base := fsys.NewMemFS()
	c := New(failingWriteFS{FS: base}, "cache")

	calls := 0
	data, err := c.GetOrProduce("mod.ts", "hash-a", func() ([]byte, error) {
		calls++
		return []byte("x"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
	assert.Equal(t, 1, calls)

	// A second call still misses since nothing could be persisted, but it
	// still returns the producer's value rather than erroring.
	data, err = c.GetOrProduce("mod.ts", "hash-a", func() ([]byte, error) {
		calls++
		return []byte("x2"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "x2", string(data))
	assert.Equal(t, 2, calls)
}
