// Package search provides fuzzy title search over the gallery library.
package search

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/vitrine-tui/vitrine/internal/domain"
)

// Result pairs a matched item with its rank (lower is better).
type Result struct {
	Item domain.MediaItem
	Rank int
}

// Service indexes gallery items for title search. Safe for concurrent use.
type Service struct {
	logger *slog.Logger

	mu     sync.RWMutex
	items  []domain.MediaItem
	titles []string // pre-computed lowercase titles, parallel to items
}

// NewService creates an empty search service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Index replaces the search index with items.
func (s *Service) Index(items []domain.MediaItem) {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = strings.ToLower(item.Title)
	}

	s.mu.Lock()
	s.items = items
	s.titles = titles
	s.mu.Unlock()

	s.logger.Debug("indexed library for search", "count", len(items))
}

// Search returns items whose titles fuzzily match query, best matches first.
// An empty query returns nil.
func (s *Service) Search(query string, limit int) []Result {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ranks := fuzzy.RankFindFold(query, s.titles)
	sort.Sort(ranks)

	results := make([]Result, 0, len(ranks))
	for _, r := range ranks {
		if limit > 0 && len(results) >= limit {
			break
		}
		results = append(results, Result{Item: s.items[r.OriginalIndex], Rank: r.Distance})
	}
	return results
}
