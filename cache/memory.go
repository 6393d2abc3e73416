package cache

import (
	"sync"
	"time"
)

// entry holds a cached translation with its write time.
type entry struct {
	value   string
	written time.Time
}

// Memory is a thread-safe in-memory translation cache with optional TTL.
type Memory struct {
	entries map[string]entry
	mu      sync.RWMutex
	ttl     time.Duration
}

// NewMemory creates an in-memory cache. A zero or negative ttl means entries
// never expire.
func NewMemory(ttl time.Duration) *Memory {
	if ttl < 0 {
		ttl = 0
	}
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get retrieves a translation. Expired entries are removed on access.
func (c *Memory) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if c.ttl > 0 && time.Since(e.written) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}

	return e.value, true
}

// Set stores a translation.
func (c *Memory) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:   value,
		written: time.Now(),
	}
	return nil
}

// Delete removes a single entry.
func (c *Memory) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries, including any not yet expired-on-read.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Entries returns all live entries as key-value pairs, for export.
func (c *Memory) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string, len(c.entries))
	now := time.Now()
	for key, e := range c.entries {
		if c.ttl > 0 && now.Sub(e.written) > c.ttl {
			continue
		}
		result[key] = e.value
	}
	return result
}

// Verify Memory implements TranslationCache
var _ TranslationCache = (*Memory)(nil)
