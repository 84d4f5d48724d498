package domain

import "fmt"

// MediaType distinguishes content types
type MediaType int

const (
	MediaTypeMovie MediaType = iota
	MediaTypeShow
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeShow:
		return "show"
	default:
		return "movie"
	}
}

// MediaItem represents one gallery entry
type MediaItem struct {
	ID        string    `json:"id"`         // Unique identifier within the library
	Title     string    `json:"title"`      // Display title
	SortTitle string    `json:"sort_title"` // Title used for sorting ("The", "A" stripped)
	Summary   string    `json:"summary"`    // Plot synopsis
	Year      int       `json:"year"`       // Release year
	AddedAt   int64     `json:"added_at"`   // Unix timestamp when added to library
	IsWatched bool      `json:"is_watched"` // Whether item is marked as watched
	Type      MediaType `json:"type"`

	// ArtworkURL is the poster image source. It doubles as the lazy-load
	// resource identifier: items sharing a URL share cache state.
	ArtworkURL string `json:"artwork_url"`
}

// GetID returns the unique identifier for this item
func (m MediaItem) GetID() string { return m.ID }

// GetTitle returns the display title
func (m MediaItem) GetTitle() string { return m.Title }

// GetSortTitle returns the title used for alphabetical sorting
func (m MediaItem) GetSortTitle() string {
	if m.SortTitle != "" {
		return m.SortTitle
	}
	return m.Title
}

// GetDescription returns secondary info for display
func (m MediaItem) GetDescription() string {
	if m.Year > 0 {
		return fmt.Sprintf("%d", m.Year)
	}
	return m.Type.String()
}
