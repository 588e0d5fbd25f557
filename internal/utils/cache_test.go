package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheExpiredEntriesAreGone(t *testing.T) {
	c := GetCache()
	c.Set("expiry:fresh", "v", time.Minute)
	c.Set("expiry:stale", "v", -time.Second)

	assert.Equal(t, "v", c.Get("expiry:fresh"))
	assert.Nil(t, c.Get("expiry:stale"))
}

func TestCacheDeletePrefix(t *testing.T) {
	c := GetCache()
	c.Set("pfx:a", 1, time.Minute)
	c.Set("pfx:b", 2, time.Minute)
	c.Set("other:c", 3, time.Minute)

	c.DeletePrefix("pfx:")

	assert.Nil(t, c.Get("pfx:a"))
	assert.Nil(t, c.Get("pfx:b"))
	assert.Equal(t, 3, c.Get("other:c"))
}

func TestGetCacheIsOneInstance(t *testing.T) {
	var wg sync.WaitGroup
	caches := make([]*GlobalCache, 8)
	for i := range caches {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caches[i] = GetCache()
		}(i)
	}
	wg.Wait()

	for _, c := range caches {
		assert.Same(t, caches[0], c)
	}
}
