package cache_test

import (
	"testing"
	"time"

	"github.com/shihabhasan/nextflow/internal/adapters/cache"
	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	s := cache.NewStore(t.TempDir(), "session-1", "run-1")
	require.NoError(t, s.Open())
	return s
}

func TestCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)

	hash := domain.Fingerprint{0xAB, 0xCD}
	trace := domain.TraceRecord{TaskID: 1, Process: "align", Exit: 0, Folder: "/work/ab/cd"}
	ctx := domain.NewTaskContext()
	ctx.Set("reads", "sample.fq")

	require.NoError(t, s.PutEntry(hash, trace, ctx))

	entry, err := s.GetEntry(hash)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, trace, entry.Trace)
	require.Equal(t, int32(1), entry.RefCount)
	require.Equal(t, "sample.fq", entry.Context.Values["reads"])
}

func TestCacheMiss(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.GetEntry(domain.Fingerprint{0x01})
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestCacheIncDecRefCount(t *testing.T) {
	s := newTestStore(t)

	hash := domain.Fingerprint{0x42}
	require.NoError(t, s.PutEntry(hash, domain.TraceRecord{}, nil))
	require.NoError(t, s.IncEntry(hash))

	entry, err := s.GetEntry(hash)
	require.NoError(t, err)
	require.Equal(t, int32(2), entry.RefCount)

	// Decrement-then-test (Open Question 3): dropping from 2 leaves it alive at 1.
	require.NoError(t, s.DecEntry(hash))
	entry, err = s.GetEntry(hash)
	require.NoError(t, err)
	require.Equal(t, int32(1), entry.RefCount)

	// Dropping the last reference removes the entry entirely.
	require.NoError(t, s.DecEntry(hash))
	entry, err = s.GetEntry(hash)
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestIndexReplayOrder(t *testing.T) {
	s := newTestStore(t)

	hashes := []domain.Fingerprint{{0x01}, {0x02}, {0x03}}
	for i, h := range hashes {
		require.NoError(t, s.PutEntry(h, domain.TraceRecord{TaskID: int64(i), Complete: time.Now()}, nil))
		require.NoError(t, s.WriteIndex(h, false))
	}

	var seen []domain.Fingerprint
	require.NoError(t, s.EachRecord(func(hash domain.Fingerprint, _ domain.TraceRecord, _ int32) error {
		seen = append(seen, hash)
		return nil
	}))

	require.Equal(t, hashes, seen)
}

func TestEachRecordSkipsStaleIndexEntries(t *testing.T) {
	s := newTestStore(t)

	live := domain.Fingerprint{0xAA}
	stale := domain.Fingerprint{0xBB}

	require.NoError(t, s.PutEntry(live, domain.TraceRecord{}, nil))
	require.NoError(t, s.WriteIndex(stale, false)) // no matching db payload
	require.NoError(t, s.WriteIndex(live, false))

	var seen []domain.Fingerprint
	require.NoError(t, s.EachRecord(func(hash domain.Fingerprint, _ domain.TraceRecord, _ int32) error {
		seen = append(seen, hash)
		return nil
	}))

	require.Equal(t, []domain.Fingerprint{live}, seen)
}
