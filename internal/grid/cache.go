// Package grid holds the dataset engine behind the task grid: the shared
// snapshot cache, the background refresh loops, the row/column cursor and
// the cell editor buffer.
package grid

import (
	"sync"
	"time"

	"github.com/tOgg1/taskdeck/internal/models"
)

// Snapshot is one complete fetch of a dataset. Rows are never mutated after
// the snapshot is built; replacing data means replacing the snapshot.
type Snapshot struct {
	Kind      models.Kind
	Filter    string
	Rows      []models.Record
	FetchedAt time.Time
}

// Len returns the number of rows.
func (s Snapshot) Len() int {
	return len(s.Rows)
}

// Cache holds the latest snapshot of each dataset and the filter shared by
// the foreground and both refresh loops.
type Cache struct {
	mu        sync.RWMutex
	filter    string
	snapshots map[models.Kind]Snapshot
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{snapshots: make(map[models.Kind]Snapshot, len(models.Kinds))}
}

// Filter returns the current search filter.
func (c *Cache) Filter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// SetFilter replaces the search filter. Refresh loops pick it up on their next tick.
func (c *Cache) SetFilter(filter string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
}

// Publish stores a copy of snap as the latest snapshot of its kind and
// returns the stored copy.
func (c *Cache) Publish(snap Snapshot) Snapshot {
	stored := snap
	stored.Rows = models.CloneRecords(snap.Rows)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[snap.Kind] = stored
	return stored
}

// Snapshot returns the latest snapshot of kind.
func (c *Cache) Snapshot(kind models.Kind) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[kind]
	return snap, ok
}
