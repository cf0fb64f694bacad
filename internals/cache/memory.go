package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemorySize is the number of entries kept by NewMemoryStore(0)
const DefaultMemorySize = 128

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryStore is a size bounded in memory cache. Least recently used entries are evicted first
type MemoryStore struct {
	entries *lru.Cache[string, memoryEntry]
	Now     Clock
}

// NewMemoryStore returns a MemoryStore holding at most size entries
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	// only errors for size <= 0
	entries, _ := lru.New[string, memoryEntry](size)
	return &MemoryStore{entries: entries, Now: time.Now}
}

func (m *MemoryStore) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Get returns the value if it is not expired. Expired entries are removed
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	if expired(m.now(), entry.expires) {
		m.entries.Remove(key)
		return nil, false
	}
	return entry.value, true
}

// Put stores a copy of value
func (m *MemoryStore) Put(key string, value []byte, ttl time.Duration) error {
	copied := append([]byte(nil), value...)
	m.entries.Add(key, memoryEntry{value: copied, expires: expiry(m.now(), ttl)})
	return nil
}

// Delete removes a key
func (m *MemoryStore) Delete(key string) error {
	m.entries.Remove(key)
	return nil
}

// Len returns the number of entries (including expired ones not yet evicted)
func (m *MemoryStore) Len() int {
	return m.entries.Len()
}

// Purge removes every entry
func (m *MemoryStore) Purge() {
	m.entries.Purge()
}
