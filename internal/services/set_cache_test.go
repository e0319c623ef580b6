package services

import (
	"testing"
	"time"

	"github.com/aswin071/MindNotes/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCachePutGetInvalidate(t *testing.T) {
	cache := NewLRUSetCache(4, time.Hour)
	day := date(2026, time.March, 1)
	set := &models.DailySet{ID: 1, UserID: 1, SetDate: day}

	_, ok := cache.Get(1, day)
	assert.False(t, ok)

	cache.Put(1, day, set)
	got, ok := cache.Get(1, day)
	require.True(t, ok)
	assert.Same(t, set, got)

	// Different user and date miss
	_, ok = cache.Get(2, day)
	assert.False(t, ok)
	_, ok = cache.Get(1, day.AddDate(0, 0, 1))
	assert.False(t, ok)

	cache.Invalidate(1, day)
	_, ok = cache.Get(1, day)
	assert.False(t, ok)
}

func TestSetCacheExpires(t *testing.T) {
	cache := NewLRUSetCache(4, 20*time.Millisecond)
	day := date(2026, time.March, 1)
	cache.Put(1, day, &models.DailySet{ID: 1, UserID: 1, SetDate: day})

	_, ok := cache.Get(1, day)
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok = cache.Get(1, day)
	assert.False(t, ok)
}

func TestSetCachePurge(t *testing.T) {
	cache := NewLRUSetCache(4, time.Hour)
	day := date(2026, time.March, 1)
	cache.Put(1, day, &models.DailySet{ID: 1})
	cache.Put(2, day, &models.DailySet{ID: 2})

	cache.Purge()

	_, ok := cache.Get(1, day)
	assert.False(t, ok)
	_, ok = cache.Get(2, day)
	assert.False(t, ok)
}
