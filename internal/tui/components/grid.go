package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/vitrine-tui/vitrine/internal/domain"
	"github.com/vitrine-tui/vitrine/internal/lazyload"
	"github.com/vitrine-tui/vitrine/internal/tui/styles"
)

// Layout constants for the gallery grid
const (
	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Breadcrumb line at top of content area
	BreadcrumbLines = 1
)

// Grid is the scrolling gallery of library items. One item per row; the
// window of rows between offset and offset+maxVisible is what the lazy
// loader treats as the viewport.
type Grid struct {
	items []domain.MediaItem

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width  int
	height int

	breadcrumb string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into items
}

// NewGrid creates a new grid component
func NewGrid() Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return Grid{
		filterInput: ti,
	}
}

// SetItems replaces the grid content and resets selection and filter.
func (g *Grid) SetItems(items []domain.MediaItem) {
	g.items = items
	g.cursor = 0
	g.offset = 0
	g.clearFilter()
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcMaxVisible()
}

// SetBreadcrumb sets the breadcrumb text displayed above the rows
func (g *Grid) SetBreadcrumb(crumb string) {
	g.breadcrumb = crumb
}

// recalcMaxVisible calculates maxVisible accounting for breadcrumb,
// scroll indicators and the filter bar
func (g *Grid) recalcMaxVisible() {
	g.maxVisible = g.height - ScrollIndicatorLines - BreadcrumbLines
	if g.filterActive {
		g.maxVisible--
	}
	if g.maxVisible < 1 {
		g.maxVisible = 1
	}
	g.ensureVisible()
}

// Cursor returns the current cursor position
func (g Grid) Cursor() int {
	return g.cursor
}

// SetCursor sets the cursor position, clamped to the item range
func (g *Grid) SetCursor(pos int) {
	max := g.itemCount() - 1
	if max < 0 {
		g.cursor = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > max {
		pos = max
	}
	g.cursor = pos
	g.ensureVisible()
}

// Selected returns the item under the cursor
func (g Grid) Selected() (domain.MediaItem, bool) {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return domain.MediaItem{}, false
	}
	return g.items[g.mapIndex(g.cursor)], true
}

// SelectByID moves the cursor to the item with the given id. Returns false
// when the item is not in the current display order.
func (g *Grid) SelectByID(id string) bool {
	for pos := 0; pos < g.itemCount(); pos++ {
		if g.items[g.mapIndex(pos)].ID == id {
			g.SetCursor(pos)
			return true
		}
	}
	return false
}

// itemCount returns the number of items (accounting for filter)
func (g Grid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.items)
}

// ensureVisible scrolls the window so the cursor stays inside it
func (g *Grid) ensureVisible() {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	if g.cursor >= g.offset+g.maxVisible {
		g.offset = g.cursor - g.maxVisible + 1
	}
	if g.offset < 0 {
		g.offset = 0
	}
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (g *Grid) ClearFilter() {
	g.clearFilter()
}

func (g *Grid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcMaxVisible()
}

// applyFilter filters items based on the current query
func (g *Grid) applyFilter() {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(g.items))
	for i, item := range g.items {
		lowerTitles[i] = strings.ToLower(item.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}

	g.cursor = 0
	g.offset = 0
}

// mapIndex maps a display position to the actual index in items
func (g Grid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// Snapshot returns the current scroll window and the display row of every
// laid-out item, in the grid's cell coordinate space. Filtered-out items
// are absent from the map.
func (g Grid) Snapshot() (lazyload.Rect, map[string]int) {
	vp := lazyload.Rect{
		X:      0,
		Y:      g.offset,
		Width:  g.width,
		Height: g.maxVisible,
	}
	if vp.Width < 1 {
		vp.Width = 1
	}

	rows := make(map[string]int, g.itemCount())
	for pos := 0; pos < g.itemCount(); pos++ {
		rows[g.items[g.mapIndex(pos)].ID] = pos
	}
	return vp, rows
}

// Init initializes the component
func (g Grid) Init() tea.Cmd {
	return nil
}

// Update handles navigation and filter keys
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}

	// Typing mode: keys go to the filter input.
	if g.IsFilterTyping() {
		switch keyMsg.String() {
		case "esc":
			g.clearFilter()
			return g, nil
		case "enter":
			// Keep the narrowed list, leave typing mode.
			g.filterInput.Blur()
			return g, nil
		default:
			var cmd tea.Cmd
			g.filterInput, cmd = g.filterInput.Update(msg)
			g.applyFilter()
			return g, cmd
		}
	}

	switch keyMsg.String() {
	case "up", "k":
		g.SetCursor(g.cursor - 1)
	case "down", "j":
		g.SetCursor(g.cursor + 1)
	case "pgup":
		g.SetCursor(g.cursor - g.maxVisible)
	case "pgdown":
		g.SetCursor(g.cursor + g.maxVisible)
	case "home", "g":
		g.SetCursor(0)
	case "end", "G":
		g.SetCursor(g.itemCount() - 1)
	case "/":
		g.ToggleFilter()
	case "esc":
		if g.filterActive {
			g.clearFilter()
		}
	}
	return g, nil
}

// View renders the grid. badge supplies the artwork indicator for each
// item id (placeholder, percent, check mark or error glyph).
func (g Grid) View(badge func(id string) string) string {
	var b strings.Builder

	crumb := g.breadcrumb
	if crumb == "" {
		crumb = "Library"
	}
	b.WriteString(styles.TitleStyle.Render(crumb))
	b.WriteString("\n")

	count := g.itemCount()
	if count == 0 {
		if g.filterQuery != "" {
			b.WriteString(styles.DimStyle.Render("  no matches"))
		} else {
			b.WriteString(styles.DimStyle.Render("  library is empty"))
		}
		b.WriteString("\n")
	}

	if g.offset > 0 {
		b.WriteString(styles.DimStyle.Render("  ↑ more"))
	}
	b.WriteString("\n")

	end := g.offset + g.maxVisible
	if end > count {
		end = count
	}
	for pos := g.offset; pos < end; pos++ {
		item := g.items[g.mapIndex(pos)]
		line := fmt.Sprintf("%s %s", badge(item.ID), g.itemLabel(item))
		if pos == g.cursor {
			b.WriteString(styles.SelectedStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if end < count {
		b.WriteString(styles.DimStyle.Render("  ↓ more"))
	}
	b.WriteString("\n")

	if g.filterActive {
		b.WriteString(g.filterInput.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (g Grid) itemLabel(item domain.MediaItem) string {
	label := item.Title
	if item.Year > 0 {
		label += styles.SubtitleStyle.Render(fmt.Sprintf(" (%d)", item.Year))
	}
	if item.IsWatched {
		label += styles.DimStyle.Render(" ●")
	}
	return label
}
