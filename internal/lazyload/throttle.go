package lazyload

import (
	"sync"
	"time"
)

// DefaultPollInterval is the sampling rate of the polling visibility fallback.
const DefaultPollInterval = 200 * time.Millisecond

// Throttle wraps fn so it executes at most once per interval, measured from
// the last actual invocation rather than a fixed schedule. Calls arriving
// inside the window are dropped, not queued.
func Throttle(fn func(), interval time.Duration) func() {
	var mu sync.Mutex
	var last time.Time
	return func() {
		mu.Lock()
		now := time.Now()
		if !last.IsZero() && now.Sub(last) < interval {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()
		fn()
	}
}
