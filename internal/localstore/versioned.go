package localstore

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ReyWins/happeningnow-news-core/internal/model"
)

// CacheTTL bounds both the front-page and the search cache.
const CacheTTL = 2 * time.Minute

// Entry is one cached response. Version is the server's fetchedAt stamp.
type Entry struct {
	SavedAt  int64           `json:"savedAt"`
	Version  int64           `json:"version"`
	Sections []model.Section `json:"sections"`
}

// VersionedCache persists responses under a key prefix and remembers the
// last version applied per key, so a slow stale response never replaces a
// newer one.
type VersionedCache struct {
	store    *Store
	name     string
	prefix   string
	ttl      time.Duration
	resetKey string

	mu      sync.Mutex
	applied map[string]int64
}

// FrontCache is keyed by the selected category ids joined with "|". Entries
// saved before the last selection change are ignored.
func (s *Store) FrontCache() *VersionedCache {
	return &VersionedCache{
		store: s, name: "frontpage", prefix: FrontCachePrefix, ttl: CacheTTL,
		resetKey: KeyFrontReset, applied: make(map[string]int64),
	}
}

// SearchCache is keyed by the normalized query.
func (s *Store) SearchCache() *VersionedCache {
	return &VersionedCache{
		store: s, name: "search", prefix: SearchCachePrefix, ttl: CacheTTL,
		applied: make(map[string]int64),
	}
}

func FrontKey(ids []string) string {
	return strings.Join(ids, "|")
}

// Read returns a live entry with at least one section.
func (c *VersionedCache) Read(key string) (Entry, bool) {
	if key == "" {
		return Entry{}, false
	}
	var e Entry
	ok, err := c.store.GetJSON(c.prefix+key, &e)
	if err != nil {
		slog.Warn("cache entry unreadable", "cache", c.name, "key", key, "error", err)
		return Entry{}, false
	}
	if !ok || e.Sections == nil {
		return Entry{}, false
	}
	if c.resetKey != "" {
		var resetAt int64
		if _, err := c.store.GetJSON(c.resetKey, &resetAt); err == nil && resetAt > e.SavedAt {
			return Entry{}, false
		}
	}
	if c.store.Now().UnixMilli()-e.SavedAt > c.ttl.Milliseconds() {
		return Entry{}, false
	}
	return e, true
}

// Entries returns every live entry, keyed without the prefix.
func (c *VersionedCache) Entries() map[string]Entry {
	keys, err := c.store.Keys(c.prefix)
	if err != nil {
		slog.Warn("cache keys unreadable", "cache", c.name, "error", err)
		return nil
	}
	out := make(map[string]Entry, len(keys))
	for _, k := range keys {
		key := strings.TrimPrefix(k, c.prefix)
		if e, ok := c.Read(key); ok {
			out[key] = e
		}
	}
	return out
}

// Write stores sections stamped with version. The front cache skips empty
// writes.
func (c *VersionedCache) Write(key string, sections []model.Section, version int64) error {
	if c.resetKey != "" && (key == "" || len(sections) == 0) {
		return nil
	}
	if sections == nil {
		sections = []model.Section{}
	}
	return c.store.SetJSON(c.prefix+key, Entry{
		SavedAt:  c.store.Now().UnixMilli(),
		Version:  max(version, 0),
		Sections: sections,
	})
}

// Applied is the version last accepted for key, or 0.
func (c *VersionedCache) Applied(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied[key]
}

// Apply accepts version for key unless both it and the applied version are
// known and it is not strictly newer.
func (c *VersionedCache) Apply(key string, version int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.applied[key]
	if current != 0 && version != 0 && version <= current {
		slog.Debug("stale response skipped", "cache", c.name, "key", key, "current", current, "next", version)
		return false
	}
	c.applied[key] = version
	slog.Debug("response applied", "cache", c.name, "key", key, "version", version)
	return true
}

// Seed records version for key unconditionally, e.g. after serving a
// cached entry.
func (c *VersionedCache) Seed(key string, version int64) {
	c.mu.Lock()
	c.applied[key] = version
	c.mu.Unlock()
}

// Reset forgets the applied version for key.
func (c *VersionedCache) Reset(key string) {
	c.mu.Lock()
	delete(c.applied, key)
	c.mu.Unlock()
}
