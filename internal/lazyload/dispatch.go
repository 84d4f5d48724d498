// Package lazyload defers fetching of media assets until the region that
// displays them scrolls into (or near) the visible viewport. A single
// cooperative dispatch loop serializes visibility callbacks, fetch
// completions and retry timers so controller state never needs cross-goroutine
// locking for transitions; fetch I/O runs off-loop and posts results back.
package lazyload

import (
	"sync"
	"time"
)

// Loop is the cooperative scheduler shared by monitors, fetchers and
// controllers. All state transitions execute on its single goroutine.
type Loop struct {
	ch   chan func()
	stop chan struct{}
	done chan struct{}

	once sync.Once
}

// NewLoop creates and starts a dispatch loop.
func NewLoop() *Loop {
	l := &Loop{
		ch:   make(chan func(), 256),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			return
		case fn := <-l.ch:
			fn()
		}
	}
}

// Post schedules fn for execution on the loop goroutine.
// It reports false if the loop has been stopped; fn is then dropped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stop:
		return false
	case l.ch <- fn:
		return true
	}
}

// Sync blocks until every function posted before it has executed.
func (l *Loop) Sync() {
	done := make(chan struct{})
	if !l.Post(func() { close(done) }) {
		return
	}
	select {
	case <-done:
	case <-l.done:
	}
}

// Stop terminates the loop. Functions not yet dispatched are dropped,
// which is what teardown wants: nothing may fire against destroyed state.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

// Timer is a cancellable one-shot timer whose callback runs on the loop.
type Timer struct {
	mu      sync.Mutex
	stopped bool
	t       *time.Timer
}

// After schedules fn to run on the loop goroutine after d has elapsed.
// Stopping the returned timer before the callback is dispatched guarantees
// it never runs, even if the underlying timer already fired.
func (l *Loop) After(d time.Duration, fn func()) *Timer {
	tm := &Timer{}
	tm.t = time.AfterFunc(d, func() {
		l.Post(func() {
			tm.mu.Lock()
			stopped := tm.stopped
			tm.mu.Unlock()
			if stopped {
				return
			}
			fn()
		})
	})
	return tm
}

// Stop cancels the timer. Safe to call more than once and from any goroutine.
func (tm *Timer) Stop() {
	tm.mu.Lock()
	tm.stopped = true
	tm.mu.Unlock()
	tm.t.Stop()
}
