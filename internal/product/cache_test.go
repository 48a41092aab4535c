package product

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu        sync.Mutex
	saved     []Record
	truncated int
	saveErr   error
}

func (f *fakeStore) Save(_ context.Context, record Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeStore) Truncate(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.truncated++
	return nil
}

func TestCachePutAndGet(t *testing.T) {
	store := &fakeStore{}
	cache := NewCache(CacheOptions{Store: store})

	record := Record{Barcode: "111", Name: "Oats", Brand: "Acme"}
	cache.Put(context.Background(), record)

	got, ok := cache.Get("111")
	if !ok || got.Name != "Oats" {
		t.Fatalf("expected cached record, got %+v ok=%v", got, ok)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected write-through to store, got %d saves", len(store.saved))
	}
	if _, ok := cache.Get("222"); ok {
		t.Fatal("expected miss for unknown barcode")
	}
}

func TestCacheNegativeEntriesExpire(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	store := &fakeStore{}
	cache := NewCache(CacheOptions{NegativeTTL: 15 * time.Minute, Store: store, Now: now})

	cache.Put(context.Background(), NotFound("999"))

	if _, ok := cache.Get("999"); !ok {
		t.Fatal("expected negative entry to be served within its retention window")
	}
	if len(store.saved) != 0 {
		t.Fatal("sentinel records must not be persisted")
	}

	clock = clock.Add(15 * time.Minute)
	if _, ok := cache.Get("999"); ok {
		t.Fatal("expected negative entry to expire after the retention window")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, len=%d", cache.Len())
	}
}

func TestCachePositiveEntriesDoNotExpire(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	cache := NewCache(CacheOptions{NegativeTTL: time.Minute, Now: now})

	cache.Put(context.Background(), Record{Barcode: "111", Name: "Oats", Brand: "Acme"})
	clock = clock.Add(24 * time.Hour)

	if _, ok := cache.Get("111"); !ok {
		t.Fatal("resolved products must not age out")
	}
}

func TestCacheResetTruncatesStore(t *testing.T) {
	store := &fakeStore{}
	cache := NewCache(CacheOptions{Store: store})
	cache.Put(context.Background(), Record{Barcode: "111", Name: "Oats", Brand: "Acme"})

	if err := cache.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() returned unexpected error: %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache after reset, len=%d", cache.Len())
	}
	if store.truncated != 1 {
		t.Fatalf("expected persistence truncation, got %d", store.truncated)
	}
}

func TestCachePutSurvivesStoreFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	cache := NewCache(CacheOptions{Store: store})

	cache.Put(context.Background(), Record{Barcode: "111", Name: "Oats", Brand: "Acme"})

	if _, ok := cache.Get("111"); !ok {
		t.Fatal("in-memory entry must stand even when persistence fails")
	}
}

func TestCacheWarm(t *testing.T) {
	cache := NewCache(CacheOptions{})
	cache.Warm([]Record{
		{Barcode: "1", Name: "A", Brand: "X"},
		{Barcode: "2", Name: "B", Brand: "Y"},
	})
	if cache.Len() != 2 {
		t.Fatalf("expected 2 warmed entries, got %d", cache.Len())
	}
	if _, ok := cache.Get("2"); !ok {
		t.Fatal("expected warmed entry to be readable")
	}
}
