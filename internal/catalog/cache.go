package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"dazhangman/internal/models"
)

// StaleFunc decides whether a cached list must be reloaded
type StaleFunc func(cached, current time.Time) bool

// VersionChanged reloads whenever the source version differs
func VersionChanged(cached, current time.Time) bool {
	return !cached.Equal(current)
}

type cacheEntry struct {
	words   []models.WordEntry
	version time.Time
}

// Cache keeps parsed word lists per level and reloads them when the source
// reports a newer version. Returned slices are shared and must not be modified.
type Cache struct {
	src      Source
	stale    StaleFunc
	fallback models.Level

	mu      sync.RWMutex
	entries map[models.Level]cacheEntry
}

// CacheOption configures a Cache
type CacheOption func(*Cache)

// WithStaleCheck replaces the default VersionChanged check
func WithStaleCheck(f StaleFunc) CacheOption {
	return func(c *Cache) { c.stale = f }
}

// WithFallbackLevel sets the level served when a level has no list
func WithFallbackLevel(level models.Level) CacheOption {
	return func(c *Cache) { c.fallback = level }
}

// NewCache wraps src
func NewCache(src Source, opts ...CacheOption) *Cache {
	c := &Cache{
		src:      src,
		stale:    VersionChanged,
		fallback: models.LevelA1,
		entries:  make(map[models.Level]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the word list for level. A level without a list is served
// from the fallback level; ErrCatalogUnavailable is returned only when
// neither exists.
func (c *Cache) Load(ctx context.Context, level models.Level) ([]models.WordEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words, err := c.load(level)
	if errors.Is(err, ErrCatalogUnavailable) && level != c.fallback {
		return c.load(c.fallback)
	}
	return words, err
}

func (c *Cache) load(level models.Level) ([]models.WordEntry, error) {
	version, err := c.src.Version(level)
	if err != nil {
		c.evict(level)
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.entries[level]
	c.mu.RUnlock()
	if ok && !c.stale(entry.version, version) {
		return entry.words, nil
	}

	words, err := c.src.Read(level)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[level] = cacheEntry{words: words, version: version}
	c.mu.Unlock()
	return words, nil
}

func (c *Cache) evict(level models.Level) {
	c.mu.Lock()
	delete(c.entries, level)
	c.mu.Unlock()
}

// Warm loads every level so the first requests do not pay for parsing.
// Missing levels are skipped.
func (c *Cache) Warm(ctx context.Context) (int, error) {
	var errs []error
	loaded := 0
	for _, level := range models.Levels {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		_, err := c.load(level)
		switch {
		case err == nil:
			loaded++
		case errors.Is(err, ErrCatalogUnavailable):
		default:
			errs = append(errs, err)
		}
	}
	return loaded, errors.Join(errs...)
}
