package cache

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortURLCache(t *testing.T) {
	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "test set and get entry",
			fn: func(t *testing.T) {
				shortURLCache := CreateShortURLCache(DefaultBucketCount)

				shortURLCache.Set("abc1234", "https://example.com/a")
				targetURL, ok := shortURLCache.Get("abc1234")
				assert.True(t, ok)
				assert.Equal(t, "https://example.com/a", targetURL)
				assert.Equal(t, 1, shortURLCache.Count())
			},
		},
		{
			scenario: "test get unknown entry",
			fn: func(t *testing.T) {
				shortURLCache := CreateShortURLCache(DefaultBucketCount)

				targetURL, ok := shortURLCache.Get("unknown")
				assert.False(t, ok)
				assert.Equal(t, "", targetURL)
			},
		},
		{
			scenario: "test overwrite entry keep count stable",
			fn: func(t *testing.T) {
				shortURLCache := CreateShortURLCache(DefaultBucketCount)

				shortURLCache.Set("abc1234", "https://example.com/a")
				shortURLCache.Set("abc1234", "https://example.com/b")
				targetURL, ok := shortURLCache.Get("abc1234")
				assert.True(t, ok)
				assert.Equal(t, "https://example.com/b", targetURL)
				assert.Equal(t, 1, shortURLCache.Count())
			},
		},
		{
			scenario: "test keys are independent even when bucket collides",
			fn: func(t *testing.T) {
				// with a single bucket every key collides
				shortURLCache := CreateShortURLCache(1)

				shortURLCache.Set("abc1234", "https://example.com/a")
				shortURLCache.Set("zzz9999", "https://example.com/z")

				targetURL, ok := shortURLCache.Get("abc1234")
				assert.True(t, ok)
				assert.Equal(t, "https://example.com/a", targetURL)
				targetURL, ok = shortURLCache.Get("zzz9999")
				assert.True(t, ok)
				assert.Equal(t, "https://example.com/z", targetURL)
				assert.Equal(t, 2, shortURLCache.Count())
			},
		},
		{
			scenario: "test delete entry only once",
			fn: func(t *testing.T) {
				shortURLCache := CreateShortURLCache(DefaultBucketCount)

				shortURLCache.Set("abc1234", "https://example.com/a")
				assert.True(t, shortURLCache.Delete("abc1234"))
				assert.False(t, shortURLCache.Delete("abc1234"))
				assert.Equal(t, 0, shortURLCache.Count())

				_, ok := shortURLCache.Get("abc1234")
				assert.False(t, ok)
			},
		},
		{
			scenario: "test delete unknown entry",
			fn: func(t *testing.T) {
				shortURLCache := CreateShortURLCache(DefaultBucketCount)

				assert.False(t, shortURLCache.Delete("unknown"))
				assert.Equal(t, 0, shortURLCache.Count())
			},
		},
		{
			scenario: "test concurrent set get delete",
			fn: func(t *testing.T) {
				// few buckets to force contention on the bucket locks
				shortURLCache := CreateShortURLCache(8)

				wg := new(sync.WaitGroup)
				wg.Add(100)
				for i := 0; i < 100; i++ {
					go func(i int) {
						defer wg.Done()

						key := "key" + strconv.Itoa(i)
						shortURLCache.Set(key, "https://example.com/"+strconv.Itoa(i))
						targetURL, ok := shortURLCache.Get(key)
						assert.True(t, ok)
						assert.Equal(t, "https://example.com/"+strconv.Itoa(i), targetURL)
					}(i)
				}
				wg.Wait()

				assert.Equal(t, 100, shortURLCache.Count())

				for i := 0; i < 100; i++ {
					assert.True(t, shortURLCache.Delete("key"+strconv.Itoa(i)))
				}
				assert.Equal(t, 0, shortURLCache.Count())
			},
		},
		{
			scenario: "test concurrent set same key count once",
			fn: func(t *testing.T) {
				shortURLCache := CreateShortURLCache(DefaultBucketCount)

				wg := new(sync.WaitGroup)
				wg.Add(100)
				for i := 0; i < 100; i++ {
					go func(i int) {
						defer wg.Done()

						shortURLCache.Set("abc1234", "https://example.com/"+strconv.Itoa(i))
					}(i)
				}
				wg.Wait()

				assert.Equal(t, 1, shortURLCache.Count())
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}
