package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(50*time.Millisecond, time.Minute)

	c.Set("key", "value")

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	// default expiration applies when none is given
	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("key")
	assert.False(t, ok)
}

func TestCacheExplicitExpiration(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)

	c.Set("key", 42, 30*time.Millisecond)

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get("key")
	assert.False(t, ok)
}

func TestCacheFlush(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCacheKeyUserByAccessToken(t *testing.T) {
	hash := []byte{0x01, 0x02}
	assert.Equal(t, "user_by_access_token:\x01\x02", CacheKeyUserByAccessToken(hash))
}
