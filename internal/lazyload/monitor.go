package lazyload

import (
	"time"
)

// Monitor option defaults. The proximity margin is measured in terminal
// cells here, not pixels; two rows of pre-fetch keeps scrolling smooth
// without loading the whole library up front.
const (
	DefaultProximityMargin     = 2
	DefaultVisibilityThreshold = 0.1
)

// Rect is an axis-aligned rectangle in cell coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Area returns the rectangle's area in cells.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Expand grows the rectangle by margin cells on every side.
func (r Rect) Expand(margin int) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Intersect returns the overlap of two rectangles. The result has zero area
// when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Region is a renderable area whose visibility is being watched. Bounds
// reports ok=false while the region is detached or not yet measurable.
type Region interface {
	Bounds() (Rect, bool)
}

// Environment describes the surface regions are rendered into. The minimal
// contract is a current viewport; environments that cannot push change
// notifications are sampled by polling.
type Environment interface {
	Viewport() Rect
}

// NotifyingEnvironment is an Environment that pushes a signal whenever the
// viewport may have changed (scroll, resize). When available it replaces
// polling entirely.
type NotifyingEnvironment interface {
	Environment

	// NotifyChange registers fn to be invoked on viewport changes and
	// returns a cancel function that deregisters it.
	NotifyChange(fn func()) (cancel func())
}

// MonitorOptions configures a visibility monitor. Zero values select the
// package defaults; an explicit zero threshold means "any overlap counts".
type MonitorOptions struct {
	ProximityMargin     int
	VisibilityThreshold float64
	FireOnce            bool
	PollInterval        time.Duration
}

func (o *MonitorOptions) setDefault() {
	if o.ProximityMargin == 0 {
		o.ProximityMargin = DefaultProximityMargin
	}
	if o.VisibilityThreshold == 0 {
		o.VisibilityThreshold = DefaultVisibilityThreshold
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
}

// Monitor watches one region and invokes a callback once the region
// intersects the environment's viewport expanded by the proximity margin.
// The strategy is chosen once at construction: environments that implement
// NotifyingEnvironment are event-driven, anything else is polled through
// Throttle at the configured interval.
//
// A monitor holds at most one binding. Rebinding releases the previous
// binding first, and Unbind is idempotent.
type Monitor struct {
	loop *Loop
	env  Environment
	opts MonitorOptions

	// Everything below is confined to the loop goroutine.
	region       Region
	callback     func()
	cancelNotify func()
	stopPoll     chan struct{}
	bound        bool
}

// NewMonitor creates a monitor dispatching on loop and measuring against env.
func NewMonitor(loop *Loop, env Environment, opts MonitorOptions) *Monitor {
	opts.setDefault()
	return &Monitor{loop: loop, env: env, opts: opts}
}

// Bind registers interest in region, replacing any previous binding. If the
// region is already within the expanded viewport the callback fires from the
// immediate check performed at bind time; a bind never silently misses an
// already-visible region.
func (m *Monitor) Bind(region Region, callback func()) {
	m.loop.Post(func() {
		m.unbind()
		m.region = region
		m.callback = callback
		m.bound = true

		if ne, ok := m.env.(NotifyingEnvironment); ok {
			m.cancelNotify = ne.NotifyChange(func() {
				m.loop.Post(m.check)
			})
		} else {
			m.startPolling()
		}

		m.check()
	})
}

// Unbind releases the current binding. Safe to call when not bound and safe
// to call repeatedly; once it returns no further callbacks are delivered.
func (m *Monitor) Unbind() {
	m.loop.Post(m.unbind)
}

// Bound reports whether a binding is currently active. Intended for tests.
func (m *Monitor) Bound() bool {
	var bound bool
	done := make(chan struct{})
	if !m.loop.Post(func() { bound = m.bound; close(done) }) {
		return false
	}
	<-done
	return bound
}

func (m *Monitor) unbind() {
	if !m.bound {
		return
	}
	m.bound = false
	m.region = nil
	m.callback = nil
	if m.cancelNotify != nil {
		m.cancelNotify()
		m.cancelNotify = nil
	}
	if m.stopPoll != nil {
		close(m.stopPoll)
		m.stopPoll = nil
	}
}

// startPolling launches the fallback sampler: a ticker at the poll interval
// whose checks are additionally throttled, so a congested loop draining
// several queued ticks at once still runs the check only once per window.
func (m *Monitor) startPolling() {
	stop := make(chan struct{})
	m.stopPoll = stop
	sample := Throttle(m.check, m.opts.PollInterval)

	go func() {
		ticker := time.NewTicker(m.opts.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.loop.Post(func() {
					if m.bound && m.stopPoll == stop {
						sample()
					}
				})
			}
		}
	}()
}

// check runs on the loop goroutine and fires the callback when the region
// intersects the expanded viewport by at least the visibility threshold.
func (m *Monitor) check() {
	if !m.bound {
		return
	}
	bounds, ok := m.region.Bounds()
	if !ok {
		return
	}
	if !visible(bounds, m.env.Viewport().Expand(m.opts.ProximityMargin), m.opts.VisibilityThreshold) {
		return
	}

	cb := m.callback
	if m.opts.FireOnce {
		m.unbind()
	}
	cb()
}

// visible reports whether region overlaps viewport by at least threshold of
// the region's own area. Zero-area regions count as visible when their
// origin lies inside the viewport.
func visible(region, viewport Rect, threshold float64) bool {
	area := region.Area()
	if area == 0 {
		return viewport.Contains(region.X, region.Y)
	}
	overlap := region.Intersect(viewport).Area()
	if overlap == 0 {
		return false
	}
	return float64(overlap)/float64(area) >= threshold
}
