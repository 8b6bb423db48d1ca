package server

import (
	"sort"
	"strings"
	"sync"
)

// memoCache memoizes derived computation results (trained models, segment
// runs) keyed by their input parameters. It is a plain map; the mutex exists
// only because net/http serves requests concurrently.
type memoCache struct {
	mu sync.Mutex
	m  map[string]any
}

func newMemoCache() *memoCache {
	return &memoCache{m: make(map[string]any)}
}

func (c *memoCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *memoCache) set(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = v
}

// memoKey builds a stable cache key from a prefix and parameter pairs.
func memoKey(prefix string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(prefix)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(params[k])
	}
	return b.String()
}
