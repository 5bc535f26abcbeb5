// Package assets resolves and caches external resources referenced by
// glTF documents, such as texture files stored next to a .gltf.
package assets

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no root holds the requested resource.
var ErrNotFound = errors.New("resource not found")

// Manager loads resources by relative URI from a list of root directories.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a manager searching the given roots.
func NewManager(roots ...string) *Manager {
	m := &Manager{cache: NewCache()}
	for _, r := range roots {
		m.AddRoot(r)
	}
	return m
}

// AddRoot adds a directory to search.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) {
	if dir == "" {
		dir = "."
	}
	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
}

// Load reads the resource at uri. The URI is percent-decoded and must stay
// inside the root it resolves against.
func (m *Manager) Load(uri string) ([]byte, error) {
	rel, err := cleanURI(uri)
	if err != nil {
		return nil, err
	}

	// Check cache first
	if data, ok := m.cache.Get(rel); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := os.ReadFile(filepath.Join(m.roots[i], rel))
		if err == nil {
			m.cache.Set(rel, data)
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
}

// Close forgets all roots and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = nil
	m.cache.Clear()
}

// Stats returns cache hit and miss counts.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

func cleanURI(uri string) (string, error) {
	p, err := url.PathUnescape(uri)
	if err != nil {
		return "", fmt.Errorf("invalid uri %q: %w", uri, err)
	}
	rel := filepath.Clean(filepath.FromSlash(p))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("uri %q escapes the document directory", uri)
	}
	return rel, nil
}

// Cache is a simple in-memory cache for loaded resources.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
