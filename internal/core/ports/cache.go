package ports

import "github.com/shihabhasan/nextflow/internal/core/domain"

// Cache is the content-addressed persistent KV store of §4.8: keyed by task
// fingerprint, it stores a (TraceRecord, TaskContext?, refCount) tuple plus an
// append-only per-run index recording binding order.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type Cache interface {
	// Open (re)creates index.<runName> and opens the db read/write.
	Open() error

	// OpenForRead requires index.<runName> to already exist and opens the db read-only.
	OpenForRead() error

	// GetEntry decodes the entry at hash, or returns nil, nil on a cache miss.
	GetEntry(hash domain.Fingerprint) (*domain.CacheEntry, error)

	// PutEntry atomically serializes (trace, ctx-or-nil, refCount=1) at hash.
	PutEntry(hash domain.Fingerprint, trace domain.TraceRecord, ctx *domain.TaskContext) error

	// IncEntry increments an existing entry's refCount.
	IncEntry(hash domain.Fingerprint) error

	// DecEntry decrements an existing entry's refCount, deleting it once the
	// count reaches zero. Per Open Question 3, semantics are decrement-then-test.
	DecEntry(hash domain.Fingerprint) error

	// WriteIndex appends a fixed-width (hash, cached) record to index.<runName>.
	WriteIndex(hash domain.Fingerprint, cached bool) error

	// EachRecord iterates index.<runName> in order, deserializing each db
	// payload and invoking fn(hash, trace, refCount). Index records whose db
	// payload is missing (a stale index) are skipped without any log.
	EachRecord(fn func(hash domain.Fingerprint, trace domain.TraceRecord, refCount int32) error) error

	// DropIndex removes only this run's index file.
	DropIndex() error

	// Drop removes the entire per-session cache directory.
	Drop() error
}
