package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-tui/vitrine/internal/domain"
)

func sampleItems() []domain.MediaItem {
	return []domain.MediaItem{
		{ID: "1", Title: "The Matrix"},
		{ID: "2", Title: "Matrix Reloaded"},
		{ID: "3", Title: "Blade Runner"},
		{ID: "4", Title: "Madagascar"},
	}
}

func TestSearchFindsFuzzyMatches(t *testing.T) {
	svc := NewService(nil)
	svc.Index(sampleItems())

	results := svc.Search("matrix", 0)
	require.Len(t, results, 2)

	ids := []string{results[0].Item.ID, results[1].Item.ID}
	assert.Contains(t, ids, "1")
	assert.Contains(t, ids, "2")
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	svc := NewService(nil)
	svc.Index(sampleItems())

	assert.NotEmpty(t, svc.Search("BLADE", 0))
}

func TestSearchEmptyQueryReturnsNil(t *testing.T) {
	svc := NewService(nil)
	svc.Index(sampleItems())

	assert.Nil(t, svc.Search("   ", 0))
}

func TestSearchHonorsLimit(t *testing.T) {
	svc := NewService(nil)
	svc.Index(sampleItems())

	results := svc.Search("ma", 1)
	assert.Len(t, results, 1)
}

func TestSearchReindexReplaces(t *testing.T) {
	svc := NewService(nil)
	svc.Index(sampleItems())
	svc.Index([]domain.MediaItem{{ID: "9", Title: "Solaris"}})

	assert.Empty(t, svc.Search("matrix", 0))
	assert.NotEmpty(t, svc.Search("solaris", 0))
}
