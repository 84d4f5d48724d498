// Package profile persists the single user profile record and serves it over
// a small HTTP API. There is exactly one profile per installation; its id is
// fixed at 1 and writes are upserts.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ProfileID is the fixed identifier of the one stored record.
const ProfileID = 1

var (
	bucketProfile = []byte("profile")
	recordKey     = []byte("1")
)

// Profile is the single stored user record.
type Profile struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
}

// Store is a BoltDB-backed repository for the profile record.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) the profile database under dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "profile.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketProfile)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored profile, or a zeroed default (id 1) when nothing
// has been saved yet.
func (s *Store) Get() (Profile, error) {
	p := Profile{ID: ProfileID}
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketProfile).Get(recordKey)
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &p)
	})
	if err != nil {
		return Profile{ID: ProfileID}, fmt.Errorf("failed to load profile: %w", err)
	}
	p.ID = ProfileID
	return p, nil
}

// Upsert saves p as the one profile record. The id is forced to 1 no matter
// what the caller supplies.
func (s *Store) Upsert(p Profile) (Profile, error) {
	p.ID = ProfileID
	data, err := json.Marshal(p)
	if err != nil {
		return Profile{}, err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProfile).Put(recordKey, data)
	})
	if err != nil {
		return Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}
