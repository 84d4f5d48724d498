package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-tui/vitrine/internal/domain"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	data := `[
		{"id": "b", "title": "Zodiac", "year": 2007, "artwork_url": "http://img/z.jpg"},
		{"id": "a", "title": "The Arrival", "sort_title": "Arrival", "year": 2016, "artwork_url": "http://img/a.jpg"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	items, err := NewService(nil).Load(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Sorted by sort title, "The" stripped via sort_title.
	assert.Equal(t, "The Arrival", items[0].Title)
	assert.Equal(t, "Zodiac", items[1].Title)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewService(nil).Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewService(nil).Load(path)
	assert.ErrorIs(t, err, domain.ErrLibraryUnreadable)
}

func TestLoadEmptyPathUsesSample(t *testing.T) {
	items, err := NewService(nil).Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	for _, item := range items {
		assert.NotEmpty(t, item.ArtworkURL)
	}
}
