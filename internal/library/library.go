// Package library loads the media library the gallery displays.
package library

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/vitrine-tui/vitrine/internal/domain"
)

// Service loads and holds the gallery's media items.
type Service struct {
	logger *slog.Logger
}

// NewService creates a library service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Load reads media items from the JSON file at path, sorted by sort title.
// An empty path yields the bundled sample library, so the gallery works out
// of the box.
func (s *Service) Load(path string) ([]domain.MediaItem, error) {
	if path == "" {
		s.logger.Info("no library configured, using sample library")
		return sampleLibrary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library file: %w", err)
	}

	var items []domain.MediaItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLibraryUnreadable, err)
	}

	sortItems(items)
	s.logger.Info("loaded library", "path", path, "count", len(items))
	return items, nil
}

func sortItems(items []domain.MediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].GetSortTitle()) < strings.ToLower(items[j].GetSortTitle())
	})
}

// sampleLibrary returns a small demo library pointing at picsum placeholders.
func sampleLibrary() []domain.MediaItem {
	items := []domain.MediaItem{
		{ID: "s1", Title: "The Glass Orchard", SortTitle: "Glass Orchard", Year: 2021, ArtworkURL: "https://picsum.photos/seed/orchard/300/450"},
		{ID: "s2", Title: "Northern Static", Year: 2019, ArtworkURL: "https://picsum.photos/seed/static/300/450"},
		{ID: "s3", Title: "A Quiet Ledger", SortTitle: "Quiet Ledger", Year: 2023, ArtworkURL: "https://picsum.photos/seed/ledger/300/450"},
		{ID: "s4", Title: "Harbor Lights", Year: 2020, ArtworkURL: "https://picsum.photos/seed/harbor/300/450"},
		{ID: "s5", Title: "The Last Projectionist", SortTitle: "Last Projectionist", Year: 2018, ArtworkURL: "https://picsum.photos/seed/projection/300/450"},
		{ID: "s6", Title: "Copper Season", Year: 2022, Type: domain.MediaTypeShow, ArtworkURL: "https://picsum.photos/seed/copper/300/450"},
	}
	sortItems(items)
	return items
}
