package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/schema"
)

func newTestCache(maxEntries int) *AnswerCache {
	return NewAnswerCache(config.CacheConfig{Enable: true, MaxEntries: maxEntries, TTLSeconds: 60})
}

func TestAnswerCacheHitAndMiss(t *testing.T) {
	c := newTestCache(10)
	key := Key("What about wages?", schema.DocTypePlatform)

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, "We support raising the minimum wage")
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "We support raising the minimum wage", got)
}

func TestAnswerCacheKeyNormalizesCaseAndWhitespace(t *testing.T) {
	a := Key("  What About Wages?  ", schema.DocTypePlatform)
	b := Key("what about wages?", schema.DocTypePlatform)
	assert.Equal(t, a, b)

	c := Key("what about wages?", schema.DocTypeHistory)
	assert.NotEqual(t, a, c)
}

func TestAnswerCacheEvictsOldest(t *testing.T) {
	c := newTestCache(2)
	c.Set("a", "1")
	c.Set("b", "2")

	// Touch a so b becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", "3")

	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestAnswerCacheDisabledIsAlwaysMiss(t *testing.T) {
	c := NewAnswerCache(config.CacheConfig{Enable: false})
	require.Nil(t, c)

	c.Set("k", "v")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestAnswerCachePurge(t *testing.T) {
	c := newTestCache(10)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
	c.Purge()
	for i := 0; i < 5; i++ {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		assert.False(t, ok)
	}
}
