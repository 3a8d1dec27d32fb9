// Package cache implements the content-addressed transform cache (spec.md
// §3 "Transform cache entry", §4.C). It follows the teacher's
// internal/build.BuildCache in spirit — a mutex-protected in-memory index
// with statistics — but persists entries to disk keyed by (key,
// content_hash) instead of evicting by size/TTL, since transform outputs
// are addressed by content rather than recency.
package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/peaque/internal/fsys"
)

// FormatVersion is the on-disk index format this process understands. A
// persisted index with a different version invalidates the whole cache on
// load (spec.md §8 property 5).
const FormatVersion = 1

// entry mirrors the persisted {key, content_hash, timestamp} record.
type entry struct {
	Key         string    `json:"key"`
	ContentHash string    `json:"content_hash"`
	Timestamp   time.Time `json:"timestamp"`
}

type index struct {
	FormatVersion int     `json:"format_version"`
	Entries       []entry `json:"entries"`
}

// Stats counts cache activity for diagnostics, following the teacher's
// BuildCache atomic-counter pattern.
type Stats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64
	Degraded  int64
}

// Producer computes a cache value when there is no hit. It is invoked at
// most once per (key, content_hash) pair between evictions.
type Producer func() ([]byte, error)

// Cache is a disk-backed, content-addressed transform cache with one
// in-flight producer per key (spec.md §4.E "Concurrency" via per-key
// locking described for cache producers).
type Cache struct {
	fs  fsys.FS
	dir string

	mu      sync.Mutex
	entries map[string]entry // key -> current entry
	locks   map[string]*sync.Mutex

	stats Stats
}

// New constructs a Cache rooted at dir on fs. Call Load to populate it from
// disk before use; a freshly constructed Cache with no Load call behaves as
// an empty cache.
func New(fs fsys.FS, dir string) *Cache {
	return &Cache{
		fs:      fs,
		dir:     dir,
		entries: make(map[string]entry),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (c *Cache) indexPath() string { return c.dir + "/index.json" }

func (c *Cache) cacheFilePath(key, contentHash string) string {
	return fmt.Sprintf("%s/%s.%s.cache", c.dir, safeKey(key), shortHash(contentHash))
}

func safeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	return r.Replace(key)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// Load reads the persisted index. If it is absent, the cache starts empty.
// If its format_version disagrees with FormatVersion, every file under dir
// is purged and the cache starts empty (spec.md §8 property 5).
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := c.fs.ReadFile(c.indexPath())
	if err != nil {
		return nil
	}

	var idx index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return c.purgeLocked()
	}

	if idx.FormatVersion != FormatVersion {
		return c.purgeLocked()
	}

	for _, e := range idx.Entries {
		c.entries[e.Key] = e
	}
	return nil
}

// purgeLocked removes every file under the cache directory, not just the
// entries this process happens to have tracked in memory: a version
// mismatch means the on-disk layout itself is untrusted, so spec.md §4.C
// requires wiping the directory outright rather than reconciling it.
func (c *Cache) purgeLocked() error {
	entries, err := c.fs.ReadDir(c.dir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir {
				continue
			}
			_ = c.fs.Remove(c.dir + "/" + e.Name)
		}
	}
	c.entries = make(map[string]entry)
	return nil
}

func (c *Cache) lockFor(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// GetOrProduce returns the cached bytes for (key, contentHash), invoking
// produce on a miss. A stale entry for the same key but a different
// content hash is deleted. I/O errors degrade gracefully: produce still
// runs and its result is returned uncached (spec.md §4.C last sentence).
func (c *Cache) GetOrProduce(key, contentHash string, produce Producer) ([]byte, error) {
	lock := c.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	existing, hit := c.entries[key]
	c.mu.Unlock()

	if hit && existing.ContentHash == contentHash {
		data, err := c.fs.ReadFile(c.cacheFilePath(key, contentHash))
		if err == nil {
			c.mu.Lock()
			c.stats.Hits++
			c.mu.Unlock()
			return data, nil
		}
		// Fall through: the index says we have it but the file is gone or
		// unreadable. Degrade to producing fresh.
	}

	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()

	data, err := produce()
	if err != nil {
		return nil, err
	}

	if hit && existing.ContentHash != contentHash {
		_ = c.fs.Remove(c.cacheFilePath(key, existing.ContentHash))
		c.mu.Lock()
		c.stats.Evictions++
		c.mu.Unlock()
	}

	if werr := c.store(key, contentHash, data); werr != nil {
		c.mu.Lock()
		c.stats.Degraded++
		c.mu.Unlock()
		return data, nil
	}

	return data, nil
}

func (c *Cache) store(key, contentHash string, data []byte) error {
	if err := c.fs.MkdirAll(c.dir); err != nil {
		return err
	}
	if err := c.fs.WriteFile(c.cacheFilePath(key, contentHash), data); err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = entry{Key: key, ContentHash: contentHash, Timestamp: time.Now()}
	c.stats.Sets++
	idx := c.snapshotLocked()
	c.mu.Unlock()

	return c.persist(idx)
}

func (c *Cache) snapshotLocked() index {
	idx := index{FormatVersion: FormatVersion, Entries: make([]entry, 0, len(c.entries))}
	for _, e := range c.entries {
		idx.Entries = append(idx.Entries, e)
	}
	return idx
}

func (c *Cache) persist(idx index) error {
	raw, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return c.fs.WriteFile(c.indexPath(), raw)
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Invalidate drops the cached entry for key, if any, deleting its file.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()

	if ok {
		_ = c.fs.Remove(c.cacheFilePath(key, e.ContentHash))
	}
}
