package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitrine-tui/vitrine/internal/lazyload"
	"github.com/vitrine-tui/vitrine/internal/library"
)

// Command factories for async operations

// LoadLibraryCmd loads the media library from path (or the bundled sample
// when path is empty).
func LoadLibraryCmd(svc *library.Service, path string) tea.Cmd {
	return func() tea.Msg {
		items, err := svc.Load(path)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading library"}
		}
		return LibraryLoadedMsg{Items: items}
	}
}

// WaitForLoadEventCmd reads one lazy-load event from the observer channel.
// The update loop re-issues it after every event, keeping the pump alive.
func WaitForLoadEventCmd(ch <-chan lazyload.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return LoadEventMsg{Event: ev}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
