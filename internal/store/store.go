// Package store persists shell state between runs in a bbolt database.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketSettings = "settings"
	bucketLaunches = "launches"

	keyZoom = "zoom"
)

// ErrNotSet is returned when a setting has never been stored.
var ErrNotSet = errors.New("setting not set")

var initDB = map[string]func(*bolt.Tx) error{
	"initialize settings table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSettings))
		return err
	},
	"initialize launch history table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketLaunches))
		return err
	},
}

// Launch is one recorded start of the shell.
type Launch struct {
	RunID     string
	StartedAt time.Time
}

// Store is the persistent shell state.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ZoomLevel returns the stored zoom level, or ErrNotSet.
func (s *Store) ZoomLevel() (float64, error) {
	var zoom float64
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketSettings)).Get([]byte(keyZoom))
		if v == nil {
			return ErrNotSet
		}
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return fmt.Errorf("corrupt zoom level %q: %w", v, err)
		}
		zoom = f
		return nil
	})
	return zoom, err
}

// SetZoomLevel stores the zoom level.
func (s *Store) SetZoomLevel(zoom float64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSettings))
		return b.Put([]byte(keyZoom), []byte(strconv.FormatFloat(zoom, 'g', -1, 64)))
	})
}

// RecordLaunch appends a launch to the history, keeping the newest keep
// entries.
func (s *Store) RecordLaunch(runID string, at time.Time, keep int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketLaunches))
		if err := b.Put([]byte(runID), []byte(at.UTC().Format(time.RFC3339Nano))); err != nil {
			return err
		}

		// Run ids are ULIDs, so key order is launch order.
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for i := 0; i < len(keys)-keep; i++ {
			if err := b.Delete(keys[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Launches lists recorded launches, oldest first.
func (s *Store) Launches() ([]Launch, error) {
	var launches []Launch
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketLaunches)).ForEach(func(k, v []byte) error {
			at, err := time.Parse(time.RFC3339Nano, string(v))
			if err != nil {
				return fmt.Errorf("corrupt launch record %q: %w", k, err)
			}
			launches = append(launches, Launch{RunID: string(k), StartedAt: at})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(launches, func(i, j int) bool {
		return launches[i].RunID < launches[j].RunID
	})
	return launches, nil
}
