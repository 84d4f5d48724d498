// Package assets persists fetched artwork bytes. The lazy-load cache records
// that an asset loaded; this store holds what loaded, so a restarted session
// can serve artwork without refetching it.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketArtwork = []byte("artwork")

// Store is a BoltDB-backed byte store keyed by resource identifier, with an
// in-memory cache for hot-path reads (promoted on access). With an empty
// cache directory it runs memory-only, which is what tests use.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // protects memory cache

	cache map[string][]byte
}

// NewStore opens (or creates) the artwork database under baseCacheDir.
// An empty baseCacheDir selects memory-only mode with no persistence.
func NewStore(baseCacheDir string) (*Store, error) {
	if baseCacheDir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(baseCacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(baseCacheDir, "artwork.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketArtwork)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

// Close closes the underlying database, if any.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the stored bytes for id.
func (s *Store) Get(id string) ([]byte, bool) {
	s.mu.RLock()
	if data, ok := s.cache[id]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketArtwork)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[id] = data
	s.mu.Unlock()

	return data, true
}

// Put stores data under id, overwriting any previous value.
func (s *Store) Put(id string, data []byte) error {
	s.mu.Lock()
	s.cache[id] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketArtwork)
		return b.Put([]byte(id), data)
	})
}

// Keys returns the identifiers persisted on disk. Used to warm the
// session's load cache at startup.
func (s *Store) Keys() []string {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		keys := make([]string, 0, len(s.cache))
		for k := range s.cache {
			keys = append(keys, k)
		}
		return keys
	}

	var keys []string
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketArtwork)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys
}
