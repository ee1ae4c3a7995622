package store

import "sync"

// Collection holds a flat list of raw records keyed by K. Every mutation
// bumps a monotone version counter; selectors key their memoization on it so
// recomputation only happens when the underlying collection actually changed.
type Collection[K comparable, T any] struct {
	mu      sync.RWMutex
	key     func(T) K
	items   []T
	version uint64
}

// NewCollection builds an empty collection keyed by the given function.
func NewCollection[K comparable, T any](key func(T) K) *Collection[K, T] {
	return &Collection[K, T]{key: key}
}

// ReplaceAll swaps the entire collection for records. A full re-fetch always
// replaces, never merges; replacing with an empty slice clears the
// collection.
func (c *Collection[K, T]) ReplaceAll(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]T, len(records))
	copy(c.items, records)
	c.version++
}

// UpsertOne inserts or replaces a single record by key.
func (c *Collection[K, T]) UpsertOne(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := c.key(record)
	for i := range c.items {
		if c.key(c.items[i]) == k {
			c.items[i] = record
			c.version++
			return
		}
	}
	c.items = append(c.items, record)
	c.version++
}

// DeleteOne removes the record with the given key, if present.
func (c *Collection[K, T]) DeleteOne(k K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.key(c.items[i]) == k {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.version++
			return
		}
	}
}

// Get returns the record with the given key.
func (c *Collection[K, T]) Get(k K) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.items {
		if c.key(c.items[i]) == k {
			return c.items[i], true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy of the current records.
func (c *Collection[K, T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the current record count.
func (c *Collection[K, T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Version returns the mutation counter.
func (c *Collection[K, T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// ChildIndex is a secondary index from a parent id to its child records.
// A missing key means the children were never fetched for that parent, which
// is distinct from an empty child list; the view layer relies on that
// distinction to avoid serving stale children.
type ChildIndex[T any] struct {
	mu      sync.RWMutex
	byID    map[int][]T
	version uint64
}

// NewChildIndex builds an empty index.
func NewChildIndex[T any]() *ChildIndex[T] {
	return &ChildIndex[T]{byID: make(map[int][]T)}
}

// Set records the child list for a parent. An empty (non-nil) list marks the
// parent as fetched with no children.
func (x *ChildIndex[T]) Set(parentID int, children []T) {
	x.mu.Lock()
	defer x.mu.Unlock()
	cp := make([]T, len(children))
	copy(cp, children)
	x.byID[parentID] = cp
	x.version++
}

// Get returns the child list and whether the parent has been fetched.
func (x *ChildIndex[T]) Get(parentID int) ([]T, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	children, ok := x.byID[parentID]
	if !ok {
		return nil, false
	}
	out := make([]T, len(children))
	copy(out, children)
	return out, true
}

// Delete forgets the children of a parent.
func (x *ChildIndex[T]) Delete(parentID int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.byID[parentID]; ok {
		delete(x.byID, parentID)
		x.version++
	}
}

// Clear forgets all children.
func (x *ChildIndex[T]) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.byID = make(map[int][]T)
	x.version++
}

// Version returns the mutation counter.
func (x *ChildIndex[T]) Version() uint64 {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.version
}
