package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-tui/vitrine/internal/domain"
)

func testItems() []domain.MediaItem {
	return []domain.MediaItem{
		{ID: "1", Title: "Harbor Lights"},
		{ID: "2", Title: "Northern Static"},
		{ID: "3", Title: "The Glass Orchard"},
		{ID: "4", Title: "Copper Season"},
	}
}

func keyPress(g Grid, keys ...string) Grid {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		g, _ = g.Update(msg)
	}
	return g
}

func TestGridCursorMovesAndClamps(t *testing.T) {
	g := NewGrid()
	g.SetSize(80, 10)
	g.SetItems(testItems())

	g = keyPress(g, "j", "j")
	assert.Equal(t, 2, g.Cursor())

	g = keyPress(g, "j", "j", "j")
	assert.Equal(t, 3, g.Cursor(), "cursor clamps at the last item")

	g = keyPress(g, "g")
	assert.Equal(t, 0, g.Cursor())

	g = keyPress(g, "k")
	assert.Equal(t, 0, g.Cursor(), "cursor clamps at the first item")
}

func TestGridSnapshotFollowsScroll(t *testing.T) {
	g := NewGrid()
	g.SetSize(80, 5) // maxVisible = 5 - indicators - breadcrumb = 2
	g.SetItems(testItems())

	vp, rows := g.Snapshot()
	assert.Equal(t, 0, vp.Y)
	assert.Equal(t, 2, vp.Height)
	assert.Len(t, rows, 4)
	assert.Equal(t, 0, rows["1"])
	assert.Equal(t, 3, rows["4"])

	g = keyPress(g, "G")
	vp, _ = g.Snapshot()
	assert.Equal(t, 2, vp.Y, "window scrolls to keep the cursor visible")
}

func TestGridFilterNarrowsSnapshot(t *testing.T) {
	g := NewGrid()
	g.SetSize(80, 10)
	g.SetItems(testItems())

	g = keyPress(g, "/", "g", "l", "a", "s", "s")
	require.True(t, g.IsFiltering())

	_, rows := g.Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows["3"], "the match is the only laid-out row")

	// Esc restores the full layout.
	g = keyPress(g, "esc")
	_, rows = g.Snapshot()
	assert.Len(t, rows, 4)
}

func TestGridFilterEnterKeepsNarrowedList(t *testing.T) {
	g := NewGrid()
	g.SetSize(80, 10)
	g.SetItems(testItems())

	g = keyPress(g, "/", "c", "o", "p", "p", "enter")
	assert.True(t, g.IsFiltering())
	assert.False(t, g.IsFilterTyping())

	selected, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, "Copper Season", selected.Title)
}

func TestGridSelectByID(t *testing.T) {
	g := NewGrid()
	g.SetSize(80, 10)
	g.SetItems(testItems())

	require.True(t, g.SelectByID("3"))
	selected, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, "The Glass Orchard", selected.Title)

	assert.False(t, g.SelectByID("missing"))
}

func TestGridViewShowsBadges(t *testing.T) {
	g := NewGrid()
	g.SetSize(80, 10)
	g.SetItems(testItems())

	out := g.View(func(id string) string { return "<" + id + ">" })
	assert.Contains(t, out, "<1> Harbor Lights")
	assert.Contains(t, out, "<4> Copper Season")
}
