package request

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"
)

// Cache memoizes successful response bodies for the lifetime of the
// process. There is no expiry and no explicit invalidation; callers opt
// in per request.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	return raw, ok
}

func (c *Cache) Set(key string, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cacheKey(method, url string, payload []byte) string {
	h := sha1.New()
	h.Write([]byte(method))
	h.Write([]byte{'|'})
	h.Write([]byte(url))
	h.Write([]byte{'|'})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
