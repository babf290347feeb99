package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStorage keeps keys in process memory with the same expiry semantics as RedisStorage.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (that *MemoryStorage) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = that.now().Add(ttl)
	}

	that.entries[key] = entry

	return nil
}

func (that *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.lookup(key)
	if !ok {
		return nil, ErrNotFound
	}

	return append([]byte(nil), entry.value...), nil
}

func (that *MemoryStorage) Delete(_ context.Context, key string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.entries, key)

	return nil
}

func (that *MemoryStorage) Keys(_ context.Context, prefix string) ([]string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	keys := make([]string, 0, len(that.entries))
	for key := range that.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		if _, ok := that.lookup(key); ok {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys, nil
}

func (that *MemoryStorage) Close() error {
	return nil
}

// lookup drops the entry if it expired. Callers hold mu.
func (that *MemoryStorage) lookup(key string) (memoryEntry, bool) {
	entry, ok := that.entries[key]
	if !ok {
		return memoryEntry{}, false
	}

	if !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt) {
		delete(that.entries, key)
		return memoryEntry{}, false
	}

	return entry, true
}
