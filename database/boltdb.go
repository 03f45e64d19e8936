// Package database persists scheduling run results in a BoltDB file so
// repeated driver and benchmark invocations can be compared later.
package database

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

const runsBucket = "runs"

// RunResult is one recorded scheduling run.
type RunResult struct {
	ID          string    `json:"id"`
	Scheduler   string    `json:"scheduler"`
	PoolKind    string    `json:"pool_kind"`
	PoolSize    int       `json:"pool_size"`
	Concurrency int       `json:"concurrency"`
	Feasible    bool      `json:"feasible"`
	ActiveSlots int       `json:"active_slots"`
	BusyUnits   int       `json:"busy_units"`
	Elapsed     int64     `json:"elapsed_us"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRunID returns a unique identifier for a run.
func NewRunID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int())
}

// Store is a wrapper around bbolt.DB for run-result persistence.
type Store struct {
	db *bbolt.DB
}

// NewStore opens (or creates) a BoltDB store and initialises its bucket.
func NewStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open store at %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return errors.Wrapf(err, "create %s bucket", runsBucket)
	})
	if err != nil {
		return nil, errors.Wrap(err, "initialise store buckets")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult writes a run result, assigning an ID and timestamp when absent.
func (s *Store) SaveResult(result *RunResult) error {
	if result.ID == "" {
		result.ID = NewRunID()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		encoded, err := json.Marshal(result)
		if err != nil {
			return errors.Wrap(err, "could not marshal run result")
		}
		return errors.Wrap(b.Put([]byte(result.ID), encoded), "could not put run result")
	})
}

// GetResult retrieves a run result by ID.
func (s *Store) GetResult(id string) (*RunResult, error) {
	var result RunResult
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		val := b.Get([]byte(id))
		if val == nil {
			return errors.Errorf("run %s not found", id)
		}
		return errors.Wrap(json.Unmarshal(val, &result), "could not unmarshal run result")
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResults loads all recorded run results.
func (s *Store) ListResults() ([]RunResult, error) {
	var results []RunResult
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		return b.ForEach(func(_, v []byte) error {
			var result RunResult
			if err := json.Unmarshal(v, &result); err != nil {
				return errors.Wrap(err, "could not unmarshal run result")
			}
			results = append(results, result)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
