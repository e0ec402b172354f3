package main

import (
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slices"
)

type moveCacheKey struct {
	Hash  uint64
	Depth int
	Width int
}

type MoveCacheEntry struct {
	Key      uint64 `json:"key"`
	Depth    int    `json:"depth"`
	Width    int    `json:"width"`
	Move     Move   `json:"move"`
	Value    int    `json:"value"`
	Hits     uint32 `json:"hits"`
	LastUsed uint64 `json:"-"`
}

// MoveCache remembers engine answers for stateless move requests, keyed by
// position, side to move and search shape. When full, the least hit entry
// (oldest on ties) makes room.
type MoveCache struct {
	mu      sync.RWMutex
	limit   int
	entries map[moveCacheKey]*MoveCacheEntry
	clock   atomic.Uint64
	hits    atomic.Uint64
	misses  atomic.Uint64
}

func NewMoveCache(limit int) *MoveCache {
	return &MoveCache{limit: limit, entries: make(map[moveCacheKey]*MoveCacheEntry)}
}

func (c *MoveCache) Probe(hash uint64, depth, width int) (MoveCacheEntry, bool) {
	if c == nil || c.limit <= 0 {
		return MoveCacheEntry{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[moveCacheKey{Hash: hash, Depth: depth, Width: width}]
	if !ok {
		c.misses.Add(1)
		return MoveCacheEntry{}, false
	}
	c.hits.Add(1)
	entry.Hits++
	entry.LastUsed = c.clock.Add(1)
	return *entry, true
}

func (c *MoveCache) Store(hash uint64, depth, width int, move Move, value int) {
	if c == nil || c.limit <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := moveCacheKey{Hash: hash, Depth: depth, Width: width}
	if entry, ok := c.entries[key]; ok {
		entry.Move = move
		entry.Value = value
		entry.LastUsed = c.clock.Add(1)
		return
	}
	if len(c.entries) >= c.limit {
		c.evictLocked()
	}
	c.entries[key] = &MoveCacheEntry{
		Key:      hash,
		Depth:    depth,
		Width:    width,
		Move:     move,
		Value:    value,
		LastUsed: c.clock.Add(1),
	}
}

func (c *MoveCache) evictLocked() {
	var victim moveCacheKey
	var worst *MoveCacheEntry
	for key, entry := range c.entries {
		if worst == nil || entry.Hits < worst.Hits || (entry.Hits == worst.Hits && entry.LastUsed < worst.LastUsed) {
			victim = key
			worst = entry
		}
	}
	if worst != nil {
		delete(c.entries, victim)
	}
}

func (c *MoveCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[moveCacheKey]*MoveCacheEntry)
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *MoveCache) Count() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MoveCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *MoveCache) TopEntriesByHits(offset int, limit int) ([]MoveCacheEntry, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	c.mu.RLock()
	valid := make([]MoveCacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		valid = append(valid, *entry)
	}
	c.mu.RUnlock()
	slices.SortFunc(valid, func(a, b MoveCacheEntry) int {
		switch {
		case a.Hits != b.Hits:
			return int(b.Hits) - int(a.Hits)
		case a.Depth != b.Depth:
			return b.Depth - a.Depth
		case a.LastUsed != b.LastUsed:
			if a.LastUsed > b.LastUsed {
				return -1
			}
			return 1
		case a.Key != b.Key:
			if a.Key < b.Key {
				return -1
			}
			return 1
		default:
			return a.Width - b.Width
		}
	})
	total := len(valid)
	if offset >= total {
		return []MoveCacheEntry{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return valid[offset:end], total
}
