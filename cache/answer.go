// Package cache holds answered questions so repeated phrasings skip the
// retrieval and generation round-trips.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/schema"
)

type entry struct {
	key     string
	answer  string
	expires time.Time
	element *list.Element
}

// AnswerCache is an LRU of final answers keyed by normalized question and
// scope. Safe for concurrent use.
type AnswerCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry
	order    *list.List
}

// NewAnswerCache builds a cache from configuration. Returns nil when the
// cache is disabled; callers treat a nil cache as a miss on every lookup.
func NewAnswerCache(cfg config.CacheConfig) *AnswerCache {
	if !cfg.Enable {
		return nil
	}
	capacity := cfg.MaxEntries
	if capacity <= 0 {
		capacity = 512
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnswerCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		order:    list.New(),
	}
}

// Key normalizes a question and scope into a cache key. Case and
// surrounding whitespace do not affect hits.
func Key(question string, docType schema.DocType) string {
	return string(docType) + "|" + strings.ToLower(strings.TrimSpace(question))
}

func (c *AnswerCache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok {
		return "", false
	}
	if time.Now().After(ent.expires) {
		c.removeEntry(ent)
		return "", false
	}
	c.order.MoveToFront(ent.element)
	return ent.answer, true
}

func (c *AnswerCache) Set(key, answer string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.answer = answer
		ent.expires = time.Now().Add(c.ttl)
		c.order.MoveToFront(ent.element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(key)
	c.items[key] = &entry{
		key:     key,
		answer:  answer,
		expires: time.Now().Add(c.ttl),
		element: elem,
	}
}

// Purge drops every entry, used when the corpus is re-ingested.
func (c *AnswerCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.order.Init()
}

func (c *AnswerCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	key := elem.Value.(string)
	if ent, ok := c.items[key]; ok {
		c.removeEntry(ent)
	}
}

func (c *AnswerCache) removeEntry(ent *entry) {
	if ent.element != nil {
		c.order.Remove(ent.element)
	}
	delete(c.items, ent.key)
}
