// Package cache implements the content-addressed persistent store of §4.8:
// a per-session directory holding a flat-file KV store ("db") keyed by task
// fingerprint plus an append-only fixed-width index file per run.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cache = (*Store)(nil)

// Store implements ports.Cache. All mutating operations are routed through a
// single-writer agent goroutine (agent.go) so that concurrent processors
// never race on the db files or the index file, per §4.8's single-writer
// discipline and §5's ordering guarantee for index records.
type Store struct {
	baseDir   string
	sessionID string
	runName   string
	readOnly  bool

	agent *agent
}

// NewStore creates a Store rooted at <baseDir>/.cache/<sessionID>.
func NewStore(baseDir, sessionID, runName string) *Store {
	return &Store{
		baseDir:   baseDir,
		sessionID: sessionID,
		runName:   runName,
	}
}

func (s *Store) dbDir() string {
	return domain.SessionDBDir(s.baseDir, s.sessionID)
}

func (s *Store) indexPath() string {
	return domain.SessionIndexPath(s.baseDir, s.sessionID, s.runName)
}

// Open (re)creates index.<runName> and opens the db read/write.
func (s *Store) Open() error {
	if err := os.MkdirAll(s.dbDir(), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	idx, err := newIndexWriter(s.indexPath(), true)
	if err != nil {
		return err
	}
	s.agent = newAgent(s.dbDir(), idx)
	s.readOnly = false
	return nil
}

// OpenForRead requires index.<runName> to already exist and opens the db read-only.
func (s *Store) OpenForRead() error {
	if _, err := os.Stat(s.indexPath()); err != nil {
		return zerr.Wrap(err, "index file not found")
	}
	s.readOnly = true
	s.agent = newAgent(s.dbDir(), nil)
	return nil
}

// GetEntry decodes the entry at hash, or returns nil, nil on a cache miss.
func (s *Store) GetEntry(hash domain.Fingerprint) (*domain.CacheEntry, error) {
	data, err := os.ReadFile(s.entryPath(hash)) //nolint:gosec // path built from hex fingerprint
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil //nolint:nilnil // cache miss is a valid, non-error outcome
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
	}
	return &entry, nil
}

// PutEntry atomically serializes (trace, ctx-or-nil, refCount=1) at hash.
func (s *Store) PutEntry(hash domain.Fingerprint, trace domain.TraceRecord, ctx *domain.TaskContext) error {
	return s.agent.do(func() error {
		return s.writeEntryLocked(hash, domain.CacheEntry{Trace: trace, Context: ctx, RefCount: 1})
	})
}

// IncEntry increments an existing entry's refCount.
func (s *Store) IncEntry(hash domain.Fingerprint) error {
	return s.agent.do(func() error {
		entry, err := s.readEntryLocked(hash)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrCacheMiss
		}
		entry.RefCount++
		return s.writeEntryLocked(hash, *entry)
	})
}

// DecEntry decrements an existing entry's refCount, deleting it once the
// count reaches zero. Per Open Question 3, semantics are decrement-then-test:
// decrement first, then compare the *new* value against zero, rather than
// the original source's buggy decrement-after-test postfix pattern.
func (s *Store) DecEntry(hash domain.Fingerprint) error {
	return s.agent.do(func() error {
		entry, err := s.readEntryLocked(hash)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrCacheMiss
		}
		entry.RefCount--
		if entry.RefCount <= 0 {
			return s.removeEntryLocked(hash)
		}
		return s.writeEntryLocked(hash, *entry)
	})
}

// WriteIndex appends a fixed-width (hash, cached) record to index.<runName>.
func (s *Store) WriteIndex(hash domain.Fingerprint, cached bool) error {
	return s.agent.do(func() error {
		if s.agent.idx == nil {
			return zerr.New("cache opened read-only, cannot write index")
		}
		return s.agent.idx.append(hash, cached)
	})
}

// EachRecord iterates index.<runName> in order, deserializing each db payload
// and invoking fn. Records whose db payload is missing (a stale index) are
// skipped silently — a debug log is the caller's responsibility since this
// package has no logger dependency.
func (s *Store) EachRecord(fn func(hash domain.Fingerprint, trace domain.TraceRecord, refCount int32) error) error {
	records, err := readIndex(s.indexPath())
	if err != nil {
		return err
	}

	for _, rec := range records {
		entry, err := s.GetEntry(rec.hash)
		if err != nil {
			return err
		}
		if entry == nil {
			continue // stale index record; db payload missing
		}
		if err := fn(rec.hash, entry.Trace, entry.RefCount); err != nil {
			return err
		}
	}
	return nil
}

// DropIndex removes only this run's index file.
func (s *Store) DropIndex() error {
	if err := os.Remove(s.indexPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove index file")
	}
	return nil
}

// Drop removes the entire per-session cache directory.
func (s *Store) Drop() error {
	return os.RemoveAll(domain.SessionCacheDir(s.baseDir, s.sessionID))
}

func (s *Store) entryPath(hash domain.Fingerprint) string {
	return filepath.Join(s.dbDir(), hash.String()+".json")
}

func (s *Store) readEntryLocked(hash domain.Fingerprint) (*domain.CacheEntry, error) {
	return s.GetEntry(hash)
}

func (s *Store) writeEntryLocked(hash domain.Fingerprint, entry domain.CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	if err := os.MkdirAll(s.dbDir(), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	path := s.entryPath(hash)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp, path); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

func (s *Store) removeEntryLocked(hash domain.Fingerprint) error {
	if err := os.Remove(s.entryPath(hash)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove cache entry")
	}
	return nil
}
