package main

import "testing"

func TestMoveCacheProbeAndStore(t *testing.T) {
	cache := NewMoveCache(4)
	if _, ok := cache.Probe(1, 5, 10); ok {
		t.Fatalf("expected miss on empty cache")
	}
	cache.Store(1, 5, 10, Move{X: 3, Y: 4}, 120)
	entry, ok := cache.Probe(1, 5, 10)
	if !ok || entry.Move != (Move{X: 3, Y: 4}) || entry.Value != 120 {
		t.Fatalf("expected stored entry, got %+v ok=%v", entry, ok)
	}
	if _, ok := cache.Probe(1, 4, 10); ok {
		t.Fatalf("expected depth to be part of the key")
	}
	hits, misses := cache.Stats()
	if hits != 1 || misses != 2 {
		t.Fatalf("expected 1 hit and 2 misses, got %d/%d", hits, misses)
	}
}

func TestMoveCacheEvictsLeastHit(t *testing.T) {
	cache := NewMoveCache(2)
	cache.Store(1, 1, 1, Move{}, 0)
	cache.Store(2, 1, 1, Move{}, 0)
	cache.Probe(1, 1, 1)
	cache.Store(3, 1, 1, Move{}, 0)
	if cache.Count() != 2 {
		t.Fatalf("expected cache to stay at its limit, got %d", cache.Count())
	}
	if _, ok := cache.Probe(2, 1, 1); ok {
		t.Fatalf("expected the unused entry to be evicted")
	}
	if _, ok := cache.Probe(1, 1, 1); !ok {
		t.Fatalf("expected the hit entry to survive")
	}
}

func TestMoveCacheTopEntriesAndClear(t *testing.T) {
	cache := NewMoveCache(8)
	for i := uint64(1); i <= 3; i++ {
		cache.Store(i, 2, 2, Move{X: int(i)}, 0)
	}
	cache.Probe(3, 2, 2)
	cache.Probe(3, 2, 2)
	cache.Probe(2, 2, 2)
	entries, total := cache.TopEntriesByHits(0, 2)
	if total != 3 || len(entries) != 2 {
		t.Fatalf("expected 2 of 3 entries, got %d of %d", len(entries), total)
	}
	if entries[0].Key != 3 || entries[1].Key != 2 {
		t.Fatalf("expected entries ordered by hits, got %+v", entries)
	}
	cache.Clear()
	if cache.Count() != 0 {
		t.Fatalf("expected empty cache after clear")
	}
}

func TestMoveCacheDisabled(t *testing.T) {
	cache := NewMoveCache(0)
	cache.Store(1, 1, 1, Move{}, 0)
	if _, ok := cache.Probe(1, 1, 1); ok {
		t.Fatalf("expected a zero-limit cache to store nothing")
	}
}
