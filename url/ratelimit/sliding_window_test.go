package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindowRateLimit(t *testing.T) {
	baseTime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "test allow until max requests then reject",
			fn: func(t *testing.T) {
				rateLimit := CreateSlidingWindowRateLimit(time.Minute, 10)
				rateLimit.nowFunc = func() time.Time { return baseTime }

				for i := 0; i < 10; i++ {
					decision := rateLimit.IsAllowed("user-1")
					assert.True(t, decision.Allowed)
					assert.Equal(t, 10-(i+1), decision.Remaining)
				}

				decision := rateLimit.IsAllowed("user-1")
				assert.False(t, decision.Allowed)
				assert.Equal(t, 60, decision.RetryAfterSeconds)
			},
		},
		{
			scenario: "test keys do not share budget",
			fn: func(t *testing.T) {
				rateLimit := CreateSlidingWindowRateLimit(time.Minute, 1)
				rateLimit.nowFunc = func() time.Time { return baseTime }

				assert.True(t, rateLimit.IsAllowed("user-1").Allowed)
				assert.False(t, rateLimit.IsAllowed("user-1").Allowed)
				assert.True(t, rateLimit.IsAllowed("user-2").Allowed)
			},
		},
		{
			scenario: "test expired timestamps readmit",
			fn: func(t *testing.T) {
				now := baseTime
				rateLimit := CreateSlidingWindowRateLimit(time.Minute, 2)
				rateLimit.nowFunc = func() time.Time { return now }

				assert.True(t, rateLimit.IsAllowed("user-1").Allowed)
				now = now.Add(30 * time.Second)
				assert.True(t, rateLimit.IsAllowed("user-1").Allowed)
				assert.False(t, rateLimit.IsAllowed("user-1").Allowed)

				// first timestamp falls out of the window, second remains
				now = now.Add(31 * time.Second)
				decision := rateLimit.IsAllowed("user-1")
				assert.True(t, decision.Allowed)
				assert.Equal(t, 0, decision.Remaining)
				assert.False(t, rateLimit.IsAllowed("user-1").Allowed)
			},
		},
		{
			scenario: "test retry after counts from oldest timestamp",
			fn: func(t *testing.T) {
				now := baseTime
				rateLimit := CreateSlidingWindowRateLimit(time.Minute, 1)
				rateLimit.nowFunc = func() time.Time { return now }

				assert.True(t, rateLimit.IsAllowed("user-1").Allowed)

				now = now.Add(45 * time.Second)
				decision := rateLimit.IsAllowed("user-1")
				assert.False(t, decision.Allowed)
				assert.Equal(t, 15, decision.RetryAfterSeconds)
			},
		},
		{
			scenario: "test get request count",
			fn: func(t *testing.T) {
				rateLimit := CreateSlidingWindowRateLimit(time.Minute, 10)
				rateLimit.nowFunc = func() time.Time { return baseTime }

				assert.Equal(t, 0, rateLimit.GetRequestCount("user-1"))
				rateLimit.IsAllowed("user-1")
				rateLimit.IsAllowed("user-1")
				assert.Equal(t, 2, rateLimit.GetRequestCount("user-1"))
			},
		},
		{
			scenario: "test reset drops key",
			fn: func(t *testing.T) {
				rateLimit := CreateSlidingWindowRateLimit(time.Minute, 1)
				rateLimit.nowFunc = func() time.Time { return baseTime }

				assert.True(t, rateLimit.IsAllowed("user-1").Allowed)
				assert.False(t, rateLimit.IsAllowed("user-1").Allowed)

				rateLimit.Reset("user-1")
				assert.Equal(t, 0, rateLimit.GetRequestCount("user-1"))
				assert.True(t, rateLimit.IsAllowed("user-1").Allowed)
			},
		},
		{
			scenario: "test cleanup removes only fully expired keys",
			fn: func(t *testing.T) {
				now := baseTime
				rateLimit := CreateSlidingWindowRateLimit(time.Minute, 10)
				rateLimit.nowFunc = func() time.Time { return now }

				rateLimit.IsAllowed("stale")
				now = now.Add(30 * time.Second)
				rateLimit.IsAllowed("active")

				now = now.Add(45 * time.Second)
				rateLimit.Cleanup()

				_, ok := rateLimit.windows.Load("stale")
				assert.False(t, ok)
				_, ok = rateLimit.windows.Load("active")
				assert.True(t, ok)
			},
		},
		{
			scenario: "test pass adapter",
			fn: func(t *testing.T) {
				now := baseTime
				rateLimit := CreateSlidingWindowRateLimit(time.Minute, 2)
				rateLimit.nowFunc = func() time.Time { return now }

				pass, lastRequests, curExpiry, err := rateLimit.Pass(context.Background(), "user-1")
				assert.Nil(t, err)
				assert.True(t, pass)
				assert.Equal(t, 1, lastRequests)
				assert.Equal(t, 60, curExpiry)

				rateLimit.IsAllowed("user-1")
				now = now.Add(20 * time.Second)
				pass, _, curExpiry, err = rateLimit.Pass(context.Background(), "user-1")
				assert.Nil(t, err)
				assert.False(t, pass)
				assert.Equal(t, 40, curExpiry)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}
