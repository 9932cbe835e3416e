// Package pagecache caches rendered GET responses per path so repeated
// listing reads skip the database until a mutation invalidates the path.
package pagecache

import (
	"sync"
	"time"
)

// Page is a cached response.
type Page struct {
	Status      int
	ContentType string
	Body        []byte
}

type entry struct {
	page      Page
	expiresAt time.Time
}

// Cache maps path -> raw query -> page with a TTL per entry. Every
// invalidation bumps a generation so a render that started before it is
// never stored.
type Cache struct {
	mu    sync.RWMutex
	pages map[string]map[string]*entry
	gens  map[string]uint64
	epoch uint64
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		pages: make(map[string]map[string]*entry),
		gens:  make(map[string]uint64),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached page for path and its variant key, if fresh.
func (c *Cache) Get(path, variant string) (Page, bool) {
	c.mu.RLock()
	e, ok := c.pages[path][variant]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return Page{}, false
	}
	return e.page, true
}

// Generation identifies the invalidation state of path. Pass it to
// SetIfCurrent with a page rendered after reading it.
func (c *Cache) Generation(path string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch + c.gens[path]
}

// Set stores a page for path and variant.
func (c *Cache) Set(path, variant string, p Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(path, variant, p)
}

// SetIfCurrent stores p only when path was not invalidated since gen was
// read. It reports whether the page was stored.
func (c *Cache) SetIfCurrent(path, variant string, gen uint64, p Page) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch+c.gens[path] != gen {
		return false
	}
	c.set(path, variant, p)
	return true
}

func (c *Cache) set(path, variant string, p Page) {
	variants, ok := c.pages[path]
	if !ok {
		variants = make(map[string]*entry)
		c.pages[path] = variants
	}
	variants[variant] = &entry{page: p, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate marks every cached variant of path as stale.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.pages, path)
	c.gens[path]++
	c.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.pages = make(map[string]map[string]*entry)
	c.epoch++
	c.mu.Unlock()
}

// Len reports the number of cached variants across all paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, v := range c.pages {
		n += len(v)
	}
	return n
}
