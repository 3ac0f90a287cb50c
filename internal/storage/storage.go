// Package storage persists a history of served predictions using
// BoltDB. The history is an append-only audit trail: each entry holds
// the request records, the returned prices and the model version that
// produced them, and is read back newest-first by the history endpoint
// and the companion dashboard.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"getaround-pricing/internal/features"
)

const predictionsBucket = "predictions" // Bucket name for prediction history entries

// Entry is one served prediction batch.
type Entry struct {
	Ts           time.Time                  `json:"ts"`
	ModelVersion string                     `json:"model_version"`
	Input        []features.VehicleFeatures `json:"input"`
	Prediction   []float64                  `json:"prediction"`
}

// Store provides persistent prediction history using BoltDB.
type Store struct {
	db *bbolt.DB
}

// New creates a storage instance under the given data directory.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "pricing-history.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(predictionsBucket)); err != nil {
			return fmt.Errorf("create predictions bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection gracefully.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append stores one prediction batch. Keys are monotonically increasing
// sequence numbers so a cursor walk returns entries in serve order.
func (s *Store) Append(e Entry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(predictionsBucket))

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var entries []Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(predictionsBucket)).Cursor()

		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				continue // Skip malformed records
			}
			entries = append(entries, e)
		}
		return nil
	})

	return entries, err
}

// Count returns the number of persisted entries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket([]byte(predictionsBucket)).Stats().KeyN
		return nil
	})
	return n, err
}
