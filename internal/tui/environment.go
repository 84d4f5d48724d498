package tui

import (
	"sync"

	"github.com/vitrine-tui/vitrine/internal/lazyload"
)

// GalleryEnv exposes the grid's scroll window to the lazy-load machinery.
// It implements lazyload.NotifyingEnvironment: every viewport or layout
// change pushes a signal to subscribers, so no polling is needed.
//
// The Bubble Tea update goroutine writes the geometry and the dispatch
// loop reads it, hence the mutex. Rows are display positions in the grid's
// current order; an item that is filtered out has no row and its region
// reports not-measurable.
type GalleryEnv struct {
	mu     sync.Mutex
	vp     lazyload.Rect
	rows   map[string]int
	subs   map[int]func()
	nextID int
}

// NewGalleryEnv creates an environment with an empty viewport.
func NewGalleryEnv() *GalleryEnv {
	return &GalleryEnv{
		rows: make(map[string]int),
		subs: make(map[int]func()),
	}
}

// Viewport returns the current scroll window in cell coordinates.
func (e *GalleryEnv) Viewport() lazyload.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vp
}

// NotifyChange registers fn for viewport updates and returns a cancel
// function that deregisters it.
func (e *GalleryEnv) NotifyChange(fn func()) (cancel func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Update replaces the viewport and row layout, then notifies subscribers.
// rows maps item id to its display row; items absent from the map are
// currently filtered out of the grid.
func (e *GalleryEnv) Update(vp lazyload.Rect, rows map[string]int) {
	e.mu.Lock()
	e.vp = vp
	e.rows = rows
	subs := make([]func(), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// rowOf returns the display row of the item, if it is laid out.
func (e *GalleryEnv) rowOf(id string) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	row, ok := e.rows[id]
	return row, ok
}

// subscriberCount reports how many change callbacks are registered.
func (e *GalleryEnv) subscriberCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// ItemRegion is one grid row as a measurable region. Its bounds track the
// item's current display position, so filtering and scrolling are picked
// up on the next visibility check.
type ItemRegion struct {
	env *GalleryEnv
	id  string
}

// NewItemRegion creates a region for the item identified by id.
func NewItemRegion(env *GalleryEnv, id string) ItemRegion {
	return ItemRegion{env: env, id: id}
}

// Bounds returns the item's row as a one-cell-high rectangle spanning the
// viewport width. ok is false while the item is filtered out.
func (r ItemRegion) Bounds() (lazyload.Rect, bool) {
	row, ok := r.env.rowOf(r.id)
	if !ok {
		return lazyload.Rect{}, false
	}
	vp := r.env.Viewport()
	width := vp.Width
	if width < 1 {
		width = 1
	}
	return lazyload.Rect{X: vp.X, Y: row, Width: width, Height: 1}, true
}
