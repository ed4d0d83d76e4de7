package repositories

import (
	"context"
	"fmt"
	"sync"

	"tripdash/internal/domain/models"
	"tripdash/internal/utils"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	fingerprint string
	table       *models.TripTable
}

// TripCache keeps one loaded table per source key and reloads it when the
// source fingerprint changes. Tables handed out are shared and read-only.
type TripCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

func NewTripCache() *TripCache {
	return &TripCache{entries: map[string]cacheEntry{}}
}

// Get returns the cached table for src, loading it on a miss or a stale fingerprint.
// A failed load drops any previous entry for the key. The load is shared by
// concurrent callers, so it does not stop when one caller's context is cancelled.
func (c *TripCache) Get(ctx context.Context, src TripSource) (*models.TripTable, error) {
	key := src.Key()
	fp, err := src.Fingerprint(ctx)
	if err != nil {
		c.Invalidate(key)
		return nil, err
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if ok && e.fingerprint == fp {
		return e.table, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key+"\x00"+fp, func() (any, error) {
		table, err := src.Load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{fingerprint: fp, table: table}
		c.mu.Unlock()
		utils.LogEvent("", "dataset", "load", fmt.Sprintf("source=%s rows=%d", key, table.Len()))
		return table, nil
	})
	if err != nil {
		c.Invalidate(key)
		return nil, err
	}
	return v.(*models.TripTable), nil
}

// Invalidate forgets one source so the next Get reloads it.
func (c *TripCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Reset forgets every source.
func (c *TripCache) Reset() {
	c.mu.Lock()
	c.entries = map[string]cacheEntry{}
	c.mu.Unlock()
}

func (c *TripCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
