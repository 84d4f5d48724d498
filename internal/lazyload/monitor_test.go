package lazyload

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notifyEnv is a NotifyingEnvironment driven by tests: scrolling updates the
// viewport and pushes a change notification, like the TUI grid does.
type notifyEnv struct {
	mu     sync.Mutex
	vp     Rect
	subs   map[int]func()
	nextID int
}

func newNotifyEnv(vp Rect) *notifyEnv {
	return &notifyEnv{vp: vp, subs: make(map[int]func())}
}

func (e *notifyEnv) Viewport() Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vp
}

func (e *notifyEnv) NotifyChange(fn func()) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

func (e *notifyEnv) scrollTo(vp Rect) {
	e.mu.Lock()
	e.vp = vp
	subs := make([]func(), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (e *notifyEnv) subscriberCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// pollEnv has no change notifications, forcing the polling fallback.
type pollEnv struct {
	mu sync.Mutex
	vp Rect
}

func (e *pollEnv) Viewport() Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vp
}

func (e *pollEnv) scrollTo(vp Rect) {
	e.mu.Lock()
	e.vp = vp
	e.mu.Unlock()
}

// cell is a fixed region, one grid cell tall.
type cell struct{ rect Rect }

func (c cell) Bounds() (Rect, bool) { return c.rect, true }

func countingCallback() (func(), *int32) {
	var n int32
	var mu sync.Mutex
	return func() {
		mu.Lock()
		n++
		mu.Unlock()
	}, &n
}

func TestMonitorFiresForAlreadyVisibleRegion(t *testing.T) {
	loop := newTestLoop(t)
	env := newNotifyEnv(Rect{X: 0, Y: 0, Width: 80, Height: 24})
	m := NewMonitor(loop, env, MonitorOptions{})

	fired := make(chan struct{}, 1)
	m.Bind(cell{Rect{X: 0, Y: 5, Width: 20, Height: 1}}, func() { fired <- struct{}{} })
	loop.Sync()

	select {
	case <-fired:
	default:
		t.Fatal("bind must not miss an already-visible region")
	}
}

func TestMonitorFiresWhenScrolledIntoView(t *testing.T) {
	loop := newTestLoop(t)
	env := newNotifyEnv(Rect{X: 0, Y: 0, Width: 80, Height: 24})
	m := NewMonitor(loop, env, MonitorOptions{ProximityMargin: 2})

	fired := make(chan struct{}, 1)
	// Row 40 is far below the viewport, outside the 2-row margin.
	m.Bind(cell{Rect{X: 0, Y: 40, Width: 20, Height: 1}}, func() { fired <- struct{}{} })
	loop.Sync()
	require.Empty(t, fired)

	// Scroll so the expanded viewport covers row 40.
	env.scrollTo(Rect{X: 0, Y: 20, Width: 80, Height: 24})
	loop.Sync()

	select {
	case <-fired:
	default:
		t.Fatal("callback did not fire after scrolling into view")
	}
}

func TestMonitorProximityMarginPrefetch(t *testing.T) {
	loop := newTestLoop(t)
	env := newNotifyEnv(Rect{X: 0, Y: 0, Width: 80, Height: 24})
	m := NewMonitor(loop, env, MonitorOptions{ProximityMargin: 3})

	fired := make(chan struct{}, 1)
	// Row 26 is 2 rows past the viewport edge, inside the 3-row margin.
	m.Bind(cell{Rect{X: 0, Y: 26, Width: 20, Height: 1}}, func() { fired <- struct{}{} })
	loop.Sync()

	select {
	case <-fired:
	default:
		t.Fatal("region inside the proximity margin must count as visible")
	}
}

func TestMonitorFireOnceUnbinds(t *testing.T) {
	loop := newTestLoop(t)
	env := newNotifyEnv(Rect{X: 0, Y: 0, Width: 80, Height: 24})
	m := NewMonitor(loop, env, MonitorOptions{FireOnce: true})

	cb, n := countingCallback()
	m.Bind(cell{Rect{X: 0, Y: 1, Width: 20, Height: 1}}, cb)
	loop.Sync()
	require.EqualValues(t, 1, *n)
	assert.False(t, m.Bound())
	assert.Equal(t, 0, env.subscriberCount(), "fire-once must deregister its subscription")

	// Further viewport changes deliver nothing.
	env.scrollTo(Rect{X: 0, Y: 0, Width: 80, Height: 24})
	loop.Sync()
	assert.EqualValues(t, 1, *n)
}

func TestMonitorUnbindIsIdempotentAndReleases(t *testing.T) {
	loop := newTestLoop(t)
	env := newNotifyEnv(Rect{X: 0, Y: 0, Width: 80, Height: 24})
	m := NewMonitor(loop, env, MonitorOptions{})

	// Unbind before any bind is safe.
	m.Unbind()
	loop.Sync()

	cb, n := countingCallback()
	m.Bind(cell{Rect{X: 0, Y: 100, Width: 20, Height: 1}}, cb)
	loop.Sync()
	require.Equal(t, 1, env.subscriberCount())

	m.Unbind()
	m.Unbind()
	loop.Sync()
	assert.Equal(t, 0, env.subscriberCount(), "unbind must fully deregister listeners")

	env.scrollTo(Rect{X: 0, Y: 90, Width: 80, Height: 24})
	loop.Sync()
	assert.EqualValues(t, 0, *n)
}

func TestMonitorRebindReleasesPreviousBinding(t *testing.T) {
	loop := newTestLoop(t)
	env := newNotifyEnv(Rect{X: 0, Y: 0, Width: 80, Height: 24})
	m := NewMonitor(loop, env, MonitorOptions{})

	first, firstN := countingCallback()
	m.Bind(cell{Rect{X: 0, Y: 100, Width: 20, Height: 1}}, first)
	loop.Sync()

	second, secondN := countingCallback()
	m.Bind(cell{Rect{X: 0, Y: 5, Width: 20, Height: 1}}, second)
	loop.Sync()

	assert.Equal(t, 1, env.subscriberCount(), "at most one live binding per monitor")
	assert.EqualValues(t, 0, *firstN)
	assert.EqualValues(t, 1, *secondN)
}

func TestMonitorPollingFallbackConverges(t *testing.T) {
	loop := newTestLoop(t)
	env := &pollEnv{vp: Rect{X: 0, Y: 0, Width: 80, Height: 24}}
	m := NewMonitor(loop, env, MonitorOptions{FireOnce: true, PollInterval: 5 * time.Millisecond})

	fired := make(chan struct{}, 1)
	m.Bind(cell{Rect{X: 0, Y: 100, Width: 20, Height: 1}}, func() { fired <- struct{}{} })
	loop.Sync()
	require.Empty(t, fired)

	env.scrollTo(Rect{X: 0, Y: 90, Width: 80, Height: 24})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("polling fallback never observed the region")
	}

	assert.Eventually(t, func() bool { return !m.Bound() }, time.Second, 5*time.Millisecond,
		"fire-once polling must unregister itself after firing")
}

func TestVisibleThreshold(t *testing.T) {
	viewport := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	tests := []struct {
		name      string
		region    Rect
		threshold float64
		want      bool
	}{
		{"fully inside", Rect{X: 1, Y: 1, Width: 2, Height: 2}, 0.5, true},
		{"fully outside", Rect{X: 20, Y: 20, Width: 2, Height: 2}, 0.1, false},
		{"half overlap meets half threshold", Rect{X: 9, Y: 0, Width: 2, Height: 10}, 0.5, true},
		{"small overlap misses high threshold", Rect{X: 9, Y: 0, Width: 10, Height: 10}, 0.5, false},
		{"any overlap with zero threshold", Rect{X: 9, Y: 9, Width: 10, Height: 10}, 0, true},
		{"touching edge is not overlap", Rect{X: 10, Y: 0, Width: 5, Height: 5}, 0, false},
		{"zero-area region inside", Rect{X: 5, Y: 5}, 0.1, true},
		{"zero-area region outside", Rect{X: 50, Y: 5}, 0.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, visible(tt.region, viewport, tt.threshold))
		})
	}
}

func TestRectExpand(t *testing.T) {
	r := Rect{X: 5, Y: 5, Width: 10, Height: 10}.Expand(2)
	assert.Equal(t, Rect{X: 3, Y: 3, Width: 14, Height: 14}, r)
}
