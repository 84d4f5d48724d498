package tui

import (
	"github.com/vitrine-tui/vitrine/internal/domain"
	"github.com/vitrine-tui/vitrine/internal/lazyload"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// LibraryLoadedMsg signals that the media library has been loaded
type LibraryLoadedMsg struct {
	Items []domain.MediaItem
}

// LoadEventMsg carries one lazy-load state change pumped from the
// dispatch loop's observer channel
type LoadEventMsg struct {
	Event lazyload.Event
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
