// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/osshealth/metalens/schema"
)

// MatrixSource loads the raw metadata matrix. Implementations read a
// local file or fetch a URL; the core never touches I/O directly, so
// the loader can be mocked for testing.
type MatrixSource interface {
	// Load retrieves and decodes the matrix document into raw records.
	// Failures are FetchError or ParseError; individual malformed
	// values are not errors and pass through untouched.
	Load(ctx context.Context) ([]schema.RawRecord, error)
}

// CacheManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetDocumentStore() CacheStore
	GetSnapshotStore() SnapshotStore
}

// CacheStore defines the interface for cached document storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// SnapshotStore defines the interface for recording stats runs.
type SnapshotStore interface {
	// RecordRun persists one stats run and returns its unique ID.
	RecordRun(snap schema.Snapshot, source string) (int64, error)

	// ListRuns returns persisted runs, newest first.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// ListFieldStats returns the per-field rows for a run.
	ListFieldStats(runID int64) ([]schema.FieldStatRecord, error)

	// GetStatus returns status information about the snapshot store.
	GetStatus() (schema.SnapshotStatus, error)

	Close() error
}
