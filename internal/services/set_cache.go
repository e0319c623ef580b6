package services

import (
	"fmt"
	"time"

	"github.com/aswin071/MindNotes/internal/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DailySetCache is a read-through cache for assembled daily sets, keyed
// by (user, date). Entries expire after the configured TTL and every set
// mutation invalidates the affected key.
type DailySetCache interface {
	Get(userID int, date time.Time) (*models.DailySet, bool)
	Put(userID int, date time.Time, set *models.DailySet)
	Invalidate(userID int, date time.Time)
	Purge()
}

// LRUSetCache implements DailySetCache on an expirable LRU.
type LRUSetCache struct {
	cache *expirable.LRU[string, *models.DailySet]
}

// NewLRUSetCache creates a cache holding up to size sets for ttl each.
func NewLRUSetCache(size int, ttl time.Duration) *LRUSetCache {
	return &LRUSetCache{
		cache: expirable.NewLRU[string, *models.DailySet](size, nil, ttl),
	}
}

func cacheKey(userID int, date time.Time) string {
	return fmt.Sprintf("%d|%s", userID, date.Format("2006-01-02"))
}

// Get returns the cached set for (user, date) when present and fresh.
func (c *LRUSetCache) Get(userID int, date time.Time) (*models.DailySet, bool) {
	return c.cache.Get(cacheKey(userID, date))
}

// Put stores the set for (user, date).
func (c *LRUSetCache) Put(userID int, date time.Time, set *models.DailySet) {
	c.cache.Add(cacheKey(userID, date), set)
}

// Invalidate drops the cached set for (user, date).
func (c *LRUSetCache) Invalidate(userID int, date time.Time) {
	c.cache.Remove(cacheKey(userID, date))
}

// Purge drops every cached set.
func (c *LRUSetCache) Purge() {
	c.cache.Purge()
}
