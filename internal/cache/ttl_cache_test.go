package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache_SetGetExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	c := NewTTLCache[string, int](time.Minute, 0)
	defer c.Stop()
	c.now = func() time.Time { return now }

	c.Set("token-a", 7)

	value, ok := c.Get("token-a")
	assert.True(t, ok)
	assert.Equal(t, 7, value)
	assert.Equal(t, 1, c.ActiveSize())

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("token-a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.ActiveSize())

	c.performCleanup()
	c.mutex.RLock()
	assert.Empty(t, c.items)
	c.mutex.RUnlock()
}

func TestTTLCache_DeleteAndClear(t *testing.T) {
	c := NewTTLCache[string, string](time.Minute, time.Hour)
	defer c.Stop()

	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.ActiveSize())

	c.Clear()
	assert.Equal(t, 0, c.ActiveSize())

	c.Stop()
	assert.NotPanics(t, c.Stop)
}
