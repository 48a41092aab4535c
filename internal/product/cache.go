package product

import (
	"context"
	"sync"
	"time"

	"github.com/korzewarrior/smartkart/pkg/logger"
)

// CacheStore is the persistence collaborator behind the in-memory cache.
// Only resolved products are persisted; not-found sentinels stay in memory.
type CacheStore interface {
	Save(ctx context.Context, record Record) error
	Truncate(ctx context.Context) error
}

type cacheEntry struct {
	record   Record
	storedAt time.Time
}

// Cache is the single source of truth consulted before any network call.
// Reads and writes may race with a reset; last writer wins.
type Cache struct {
	mu          sync.RWMutex
	entries     map[string]cacheEntry
	negativeTTL time.Duration
	store       CacheStore
	logg        *logger.Logger
	now         func() time.Time
}

// CacheOptions configures the cache. Store and Logger are optional.
type CacheOptions struct {
	NegativeTTL time.Duration
	Store       CacheStore
	Logger      *logger.Logger
	Now         func() time.Time
}

func NewCache(opts CacheOptions) *Cache {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries:     make(map[string]cacheEntry),
		negativeTTL: opts.NegativeTTL,
		store:       opts.Store,
		logg:        opts.Logger,
		now:         now,
	}
}

// Get returns the cached record for the exact barcode, if present. Not-found
// sentinels past their retention window are evicted and reported as misses so
// a genuinely unknown barcode retries the network eventually.
func (c *Cache) Get(barcode string) (Record, bool) {
	c.mu.RLock()
	entry, ok := c.entries[barcode]
	c.mu.RUnlock()
	if !ok {
		return Record{}, false
	}

	if !entry.record.Found() && c.negativeTTL > 0 && c.now().Sub(entry.storedAt) >= c.negativeTTL {
		c.mu.Lock()
		if current, still := c.entries[barcode]; still && current.storedAt.Equal(entry.storedAt) {
			delete(c.entries, barcode)
		}
		c.mu.Unlock()
		return Record{}, false
	}

	return entry.record, true
}

// Put stores the record in memory and writes resolved products through to the
// persistent store. Store failures are logged, never surfaced; the in-memory
// entry stands regardless.
func (c *Cache) Put(ctx context.Context, record Record) {
	c.mu.Lock()
	c.entries[record.Barcode] = cacheEntry{record: record, storedAt: c.now()}
	c.mu.Unlock()

	if c.store == nil || !record.Found() {
		return
	}
	if err := c.store.Save(ctx, record); err != nil && c.logg != nil {
		c.logg.Error(c.logg.WithBarcode(ctx, record.Barcode), "persisting product failed", err)
	}
}

// Warm seeds the cache from persisted records without touching the store.
func (c *Cache) Warm(records []Record) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range records {
		c.entries[record.Barcode] = cacheEntry{record: record, storedAt: now}
	}
}

// Reset clears all entries and truncates the persistence layer.
func (c *Cache) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.Truncate(ctx)
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
