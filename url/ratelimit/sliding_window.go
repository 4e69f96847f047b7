package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/Java-Project-IM/Url-shortener-be/domain"
	"github.com/Java-Project-IM/Url-shortener-be/kit/util"
)

// Decision is the admission outcome for one request.
type Decision struct {
	Allowed   bool
	Remaining int

	// RetryAfterSeconds is computed from the current oldest timestamp even if
	// that timestamp is about to be trimmed, so the hint can be slightly
	// pessimistic. It can also go non-positive under clock skew; callers clamp.
	RetryAfterSeconds int
}

type window struct {
	lock       sync.Mutex
	timestamps []time.Time

	// gone marks a window removed from the table by cleanup or reset; a
	// concurrent admission check that loaded it must retry instead of
	// appending to orphaned state.
	gone bool
}

func (w *window) trim(cutoff time.Time) {
	// timestamps are appended in order, so expiry is a prefix trim
	validIdx := 0
	for validIdx < len(w.timestamps) && w.timestamps[validIdx].Before(cutoff) {
		validIdx++
	}
	if validIdx > 0 {
		w.timestamps = w.timestamps[validIdx:]
	}
}

// SlidingWindowRateLimit tracks request timestamps per identifier over a
// sliding window. Admission is advisory: it never errors, and an unknown
// identifier simply has zero prior requests.
type SlidingWindowRateLimit struct {
	window      time.Duration
	maxRequests int
	windows     util.GenericSyncMap[string, *window]
	nowFunc     func() time.Time
}

var _ domain.RateLimit = (*SlidingWindowRateLimit)(nil)

func CreateSlidingWindowRateLimit(windowDuration time.Duration, maxRequests int) *SlidingWindowRateLimit {
	return &SlidingWindowRateLimit{
		window:      windowDuration,
		maxRequests: maxRequests,
		nowFunc:     time.Now,
	}
}

// IsAllowed trims the identifier's expired timestamps, then either appends the
// current request or rejects with a retry hint. Trim and append happen under
// one per-identifier lock so concurrent requests cannot both be admitted over
// budget. Identifiers that hash to different windows never contend.
func (r *SlidingWindowRateLimit) IsAllowed(key string) Decision {
	now := r.nowFunc()

	for {
		w, _ := r.windows.LoadOrStore(key, &window{})

		w.lock.Lock()
		if w.gone {
			w.lock.Unlock()
			continue
		}

		w.trim(now.Add(-r.window))

		if len(w.timestamps) >= r.maxRequests {
			oldest := w.timestamps[0]
			w.lock.Unlock()

			retryAfter := int(math.Ceil(oldest.Add(r.window).Sub(now).Seconds()))
			return Decision{Allowed: false, RetryAfterSeconds: retryAfter}
		}

		w.timestamps = append(w.timestamps, now)
		remaining := r.maxRequests - len(w.timestamps)
		w.lock.Unlock()

		return Decision{Allowed: true, Remaining: remaining}
	}
}

// GetRequestCount returns the identifier's window length as of its last trim,
// 0 for unknown identifiers.
func (r *SlidingWindowRateLimit) GetRequestCount(key string) int {
	w, ok := r.windows.Load(key)
	if !ok {
		return 0
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	return len(w.timestamps)
}

// Reset drops the identifier's window entirely.
func (r *SlidingWindowRateLimit) Reset(key string) {
	w, ok := r.windows.Load(key)
	if !ok {
		return
	}

	w.lock.Lock()
	w.gone = true
	w.lock.Unlock()

	r.windows.Delete(key)
}

// Cleanup sweeps every tracked identifier and removes the ones whose window
// is fully expired. IsAllowed self-trims, so this only bounds memory held for
// one-shot or abandoned identifiers.
func (r *SlidingWindowRateLimit) Cleanup() {
	cutoff := r.nowFunc().Add(-r.window)

	r.windows.Range(func(key string, w *window) bool {
		w.lock.Lock()
		w.trim(cutoff)
		if len(w.timestamps) == 0 {
			w.gone = true
			w.lock.Unlock()
			r.windows.Delete(key)
			return true
		}
		w.lock.Unlock()
		return true
	})
}

// StartCleanup runs Cleanup on the given interval until ctx is canceled.
func (r *SlidingWindowRateLimit) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Pass adapts IsAllowed to the endpoint middleware signature.
func (r *SlidingWindowRateLimit) Pass(ctx context.Context, key string) (pass bool, lastRequests, curExpiry int, err error) {
	decision := r.IsAllowed(key)
	if !decision.Allowed {
		return false, 0, decision.RetryAfterSeconds, nil
	}
	return true, decision.Remaining, int(r.window / time.Second), nil
}
