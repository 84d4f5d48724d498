// Package tui renders the gallery and wires grid scrolling into the
// lazy-load machinery: grid rows are regions, the scroll window is the
// viewport, and artwork loads as rows come into view.
package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitrine-tui/vitrine/internal/config"
	"github.com/vitrine-tui/vitrine/internal/lazyload"
	"github.com/vitrine-tui/vitrine/internal/library"
	"github.com/vitrine-tui/vitrine/internal/search"
	"github.com/vitrine-tui/vitrine/internal/tui/components"
	"github.com/vitrine-tui/vitrine/internal/tui/styles"
)

const statusTimeout = 3 * time.Second

// Deps are the services the gallery model is built from.
type Deps struct {
	Config  *config.Config
	Logger  *slog.Logger
	Loop    *lazyload.Loop
	Fetcher *lazyload.Fetcher
	Library *library.Service
	Search  *search.Service
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger

	loop       *lazyload.Loop
	fetcher    *lazyload.Fetcher
	env        *GalleryEnv
	loadCh     chan lazyload.Event
	observer   *ChannelObserver
	librarySvc *library.Service
	searchSvc  *search.Service

	grid        components.Grid
	controllers map[string]*lazyload.Controller // keyed by item id

	// Jump-to-title search
	searchActive bool
	searchInput  textinput.Model

	progressBar progress.Model
	status      string
	statusIsErr bool

	width  int
	height int
}

// NewModel assembles the gallery model. The lazy-load loop and fetcher are
// owned by the caller; the model only posts work to them.
func NewModel(deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	si := textinput.New()
	si.Placeholder = "jump to title..."
	si.Prompt = "search: "
	si.PromptStyle = styles.FilterPromptStyle
	si.TextStyle = styles.FilterStyle

	loadCh := make(chan lazyload.Event, 64)

	return &Model{
		cfg:         deps.Config,
		logger:      deps.Logger,
		loop:        deps.Loop,
		fetcher:     deps.Fetcher,
		env:         NewGalleryEnv(),
		loadCh:      loadCh,
		observer:    NewChannelObserver(loadCh),
		librarySvc:  deps.Library,
		searchSvc:   deps.Search,
		grid:        components.NewGrid(),
		controllers: make(map[string]*lazyload.Controller),
		searchInput: si,
		progressBar: progress.New(progress.WithDefaultGradient()),
	}
}

// Init kicks off the library load and the load-event pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		LoadLibraryCmd(m.librarySvc, m.cfg.Library.Path),
		WaitForLoadEventCmd(m.loadCh),
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(msg.Width-4, 40)
		m.grid.SetSize(msg.Width, msg.Height-3) // header + footer rows
		m.syncEnv()
		return m, nil

	case LibraryLoadedMsg:
		return m.handleLibraryLoaded(msg)

	case LoadEventMsg:
		return m.handleLoadEvent(msg)

	case ErrMsg:
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		m.status = msg.Error()
		m.statusIsErr = true
		return m, ClearStatusCmd(statusTimeout)

	case StatusMsg:
		m.status = msg.Message
		m.statusIsErr = msg.IsError
		return m, ClearStatusCmd(statusTimeout)

	case ClearStatusMsg:
		m.status = ""
		m.statusIsErr = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleLibraryLoaded(msg LibraryLoadedMsg) (tea.Model, tea.Cmd) {
	m.grid.SetItems(msg.Items)
	m.grid.SetBreadcrumb(fmt.Sprintf("Library (%d items)", len(msg.Items)))
	m.searchSvc.Index(msg.Items)

	// Layout must be published before the first bind so the initial
	// visibility check measures against the real viewport.
	m.syncEnv()

	opts := lazyload.ControllerOptions{
		ProximityMargin:     m.cfg.LazyLoad.ProximityMargin,
		VisibilityThreshold: m.cfg.LazyLoad.VisibilityThreshold,
		PollInterval:        m.cfg.LazyLoad.PollInterval(),
		Placeholder:         m.cfg.LazyLoad.Placeholder,
		ErrorAsset:          m.cfg.LazyLoad.ErrorAsset,
		MaxRetries:          m.cfg.LazyLoad.RetryCount,
		BaseDelay:           m.cfg.LazyLoad.RetryDelay(),
		Eager:               m.cfg.LazyLoad.Eager,
	}
	for _, item := range msg.Items {
		c := lazyload.NewController(m.loop, m.env, m.fetcher, item.ArtworkURL, opts, m.observer)
		c.Attach(NewItemRegion(m.env, item.ID))
		m.controllers[item.ID] = c
	}

	m.logger.Info("gallery ready", "items", len(msg.Items))
	return m, nil
}

func (m *Model) handleLoadEvent(msg LoadEventMsg) (tea.Model, tea.Cmd) {
	// Controller state is read at render time; the message only forces a
	// redraw and keeps the pump alive.
	pump := WaitForLoadEventCmd(m.loadCh)

	if msg.Event.State == lazyload.StateError && msg.Event.Err != nil {
		m.status = "artwork failed: " + msg.Event.Err.Error()
		m.statusIsErr = true
		return m, tea.Batch(pump, ClearStatusCmd(statusTimeout))
	}
	return m, pump
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	if !m.grid.IsFilterTyping() {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.searchActive = true
			m.searchInput.Focus()
			return m, nil
		case "r":
			return m, m.retrySelected()
		}
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	m.syncEnv()
	return m, cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeSearch()
		return m, nil
	case "enter":
		query := m.searchInput.Value()
		m.closeSearch()
		return m, m.jumpToMatch(query)
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) closeSearch() {
	m.searchActive = false
	m.searchInput.SetValue("")
	m.searchInput.Blur()
}

// jumpToMatch moves the cursor to the best fuzzy title match.
func (m *Model) jumpToMatch(query string) tea.Cmd {
	results := m.searchSvc.Search(query, 1)
	if len(results) == 0 {
		m.status = fmt.Sprintf("no match for %q", query)
		m.statusIsErr = false
		return ClearStatusCmd(statusTimeout)
	}

	item := results[0].Item
	if !m.grid.SelectByID(item.ID) {
		// Filtered out of the current view; clear the filter and retry.
		m.grid.ClearFilter()
		m.grid.SelectByID(item.ID)
	}
	m.syncEnv()
	m.status = "jumped to " + item.Title
	m.statusIsErr = false
	return ClearStatusCmd(statusTimeout)
}

// retrySelected restarts the fetch for the selected item after a terminal
// error. Anything else is a no-op.
func (m *Model) retrySelected() tea.Cmd {
	item, ok := m.grid.Selected()
	if !ok {
		return nil
	}
	c := m.controllers[item.ID]
	if c == nil || c.State() != lazyload.StateError {
		return nil
	}
	c.RetryLoad()
	m.status = "retrying " + item.Title
	m.statusIsErr = false
	return ClearStatusCmd(statusTimeout)
}

// syncEnv publishes the grid's current layout to the lazy-load environment.
func (m *Model) syncEnv() {
	vp, rows := m.grid.Snapshot()
	m.env.Update(vp, rows)
}

// badge renders the artwork indicator for one item.
func (m *Model) badge(id string) string {
	c := m.controllers[id]
	if c == nil {
		return styles.DimStyle.Render("[ " + m.cfg.LazyLoad.Placeholder + " ]")
	}
	switch c.State() {
	case lazyload.StateLoading:
		return styles.AccentStyle.Render(fmt.Sprintf("[%2d%%]", c.Progress()))
	case lazyload.StateSuccess:
		return styles.SuccessStyle.Render("[ ✓ ]")
	case lazyload.StateError:
		return styles.ErrorStyle.Render("[ " + m.cfg.LazyLoad.ErrorAsset + " ]")
	default:
		return styles.DimStyle.Render("[ " + m.cfg.LazyLoad.Placeholder + " ]")
	}
}

// View renders the gallery
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := styles.AccentStyle.Render("vitrine") + styles.DimStyle.Render("  terminal media gallery")
	body := m.grid.View(m.badge)
	return header + "\n" + body + m.footer()
}

func (m *Model) footer() string {
	if m.searchActive {
		return m.searchInput.View()
	}
	if m.status != "" {
		if m.statusIsErr {
			return styles.ErrorStyle.Render(m.status)
		}
		return styles.SubtitleStyle.Render(m.status)
	}

	// Show the selected item's download while it is in flight.
	if item, ok := m.grid.Selected(); ok {
		if c := m.controllers[item.ID]; c != nil && c.State() == lazyload.StateLoading {
			return m.progressBar.ViewAs(float64(c.Progress()) / 100)
		}
	}

	return styles.DimStyle.Render("↑/↓ move · / filter · s search · r retry · q quit")
}
