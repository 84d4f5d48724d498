package lazyload

import (
	"sync"
	"time"
)

// State is the load lifecycle of one controller.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Event describes an observable change in a controller.
type Event struct {
	ID       string // resource identifier
	State    State
	Progress int
	Err      error // set on terminal error
}

// Observer receives controller events. Invoked on the dispatch loop, so
// implementations must not block; the TUI adapts this to a channel.
type Observer interface {
	OnLoadEvent(Event)
}

// NoOpObserver discards events.
type NoOpObserver struct{}

func (NoOpObserver) OnLoadEvent(Event) {}

// ControllerOptions mirrors the recognized lazy-load configuration surface.
// Zero values select package defaults.
type ControllerOptions struct {
	ProximityMargin     int
	VisibilityThreshold float64
	PollInterval        time.Duration
	Placeholder         string // asset reference shown while idle or loading
	ErrorAsset          string // asset reference shown on terminal error
	MaxRetries          int
	BaseDelay           time.Duration
	Eager               bool // load immediately, regardless of visibility
}

// Controller coordinates lazy loading for one rendered element: it binds a
// visibility monitor to the element's region, starts a retrying fetch when
// the region becomes visible, tracks the idle/loading/success/error state
// machine and exposes a manual retry entry point.
//
// Valid transitions are idle→loading on visibility (or eagerly), loading→
// success or loading→error from the fetcher, and error→loading only through
// RetryLoad. Success unbinds the monitor; nothing else re-triggers a load.
type Controller struct {
	loop     *Loop
	monitor  *Monitor
	fetcher  *Fetcher
	observer Observer
	id       string
	opts     ControllerOptions

	// mu guards the externally observable snapshot. Writes happen only on
	// the loop goroutine; reads may come from anywhere.
	mu       sync.Mutex
	state    State
	progress int
	asset    []byte
	err      error

	// Loop-confined.
	fetch  *Fetch
	closed bool
}

// NewController creates a controller for the asset identified by id (its
// source URL, which is also the cache key). An empty id yields a controller
// that stays idle forever: visibility events and retries are no-ops.
func NewController(loop *Loop, env Environment, fetcher *Fetcher, id string, opts ControllerOptions, observer Observer) *Controller {
	if observer == nil {
		observer = NoOpObserver{}
	}
	return &Controller{
		loop: loop,
		monitor: NewMonitor(loop, env, MonitorOptions{
			ProximityMargin:     opts.ProximityMargin,
			VisibilityThreshold: opts.VisibilityThreshold,
			PollInterval:        opts.PollInterval,
			FireOnce:            true,
		}),
		fetcher:  fetcher,
		observer: observer,
		id:       id,
		opts:     opts,
		state:    StateIdle,
	}
}

// Attach binds visibility monitoring to region. Attaching again releases the
// previous binding before creating the new one, so a controller never holds
// two live bindings. In eager mode the load starts immediately instead.
func (c *Controller) Attach(region Region) {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		if c.opts.Eager {
			c.onVisible()
			return
		}
		c.monitor.Bind(region, c.onVisible)
	})
}

// RetryLoad restarts the fetch after a terminal error, resetting the attempt
// counter to zero. It is a no-op unless the state is error and an identifier
// is bound.
func (c *Controller) RetryLoad() {
	c.loop.Post(func() {
		if c.closed || c.id == "" {
			return
		}
		if c.snapshotState() != StateError {
			return
		}
		c.startLoad()
	})
}

// Close tears the controller down: the visibility binding is released, any
// pending retry timer and in-flight fetch are abandoned, and no callback
// will mutate state afterwards.
func (c *Controller) Close() {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		c.closed = true
		c.monitor.Unbind()
		if c.fetch != nil {
			c.fetch.Cancel()
			c.fetch = nil
		}
	})
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress returns the current load progress percent. Only meaningful while
// the state is loading.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Err returns the terminal error, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Asset returns the fetched bytes once the state is success.
func (c *Controller) Asset() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asset
}

// AssetRef resolves what the presentation layer should display right now:
// the placeholder while idle or loading, the real asset reference on
// success, and the error asset after a terminal failure.
func (c *Controller) AssetRef() string {
	switch c.State() {
	case StateSuccess:
		return c.id
	case StateError:
		return c.opts.ErrorAsset
	default:
		return c.opts.Placeholder
	}
}

// onVisible runs on the loop when the monitor reports the region inside the
// expanded viewport. Only an idle controller starts loading; a visibility
// re-trigger never restarts a terminal state.
func (c *Controller) onVisible() {
	if c.closed || c.id == "" {
		return
	}
	if c.snapshotState() != StateIdle {
		return
	}
	c.startLoad()
}

func (c *Controller) startLoad() {
	c.set(StateLoading, 0, nil, nil)
	c.fetch = c.fetcher.Start(c.id, FetchHandlers{
		OnProgress: func(pct int) {
			if c.closed {
				return
			}
			c.setProgress(pct)
		},
		OnSuccess: func(data []byte) {
			if c.closed {
				return
			}
			c.fetch = nil
			c.monitor.Unbind()
			c.set(StateSuccess, 100, data, nil)
		},
		OnError: func(err error) {
			if c.closed {
				return
			}
			c.fetch = nil
			c.set(StateError, c.Progress(), nil, err)
		},
	})
}

func (c *Controller) snapshotState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) set(state State, progress int, asset []byte, err error) {
	c.mu.Lock()
	c.state = state
	c.progress = progress
	if asset != nil {
		c.asset = asset
	}
	c.err = err
	c.mu.Unlock()
	c.observer.OnLoadEvent(Event{ID: c.id, State: state, Progress: progress, Err: err})
}

func (c *Controller) setProgress(pct int) {
	c.mu.Lock()
	if c.state != StateLoading {
		c.mu.Unlock()
		return
	}
	c.progress = pct
	state := c.state
	c.mu.Unlock()
	c.observer.OnLoadEvent(Event{ID: c.id, State: state, Progress: pct})
}
