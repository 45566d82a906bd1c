package treecache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"

	"github.com/artigo/artigo/pkg/template"
)

// Cache is an in-memory LRU of parsed template trees keyed by the sha256 of
// the template source. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*list.Element
	lru     *list.List
}

type entry struct {
	key  string
	tree *template.Tree
}

// New returns a cache holding at most maxSize trees. A maxSize of zero or
// less disables caching.
func New(maxSize int) *Cache {
	return &Cache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *Cache) Get(src string) (*template.Tree, bool) {
	if c == nil || c.maxSize <= 0 {
		return nil, false
	}
	key := hash(src)
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(el)
	slog.Debug("template cache hit", "key", key[:12])
	return el.Value.(*entry).tree, true
}

func (c *Cache) Put(src string, tree *template.Tree) {
	if c == nil || c.maxSize <= 0 || tree == nil {
		return
	}
	key := hash(src)
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).tree = tree
		c.lru.MoveToFront(el)
		return
	}
	c.entries[key] = c.lru.PushFront(&entry{key: key, tree: tree})
	for c.lru.Len() > c.maxSize {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

// Len reports the number of cached trees.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Clear drops every cached tree.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

var _ template.TreeCache = &Cache{}
