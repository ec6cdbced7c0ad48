package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shihabhasan/nextflow/internal/adapters/cache"
	"github.com/shihabhasan/nextflow/internal/adapters/history"
	"github.com/shihabhasan/nextflow/internal/core/domain"
)

// fakeConfigLoader satisfies ports.ConfigLoader for BaseDir tests without
// touching the filesystem.
type fakeConfigLoader struct {
	root string
	err  error
}

func (f *fakeConfigLoader) Load(string) (*domain.Pipeline, error) { return nil, f.err }
func (f *fakeConfigLoader) DiscoverRoot(string) (string, error)   { return f.root, f.err }

func newTestApp(baseDir string) *App {
	return &App{
		cacheFactory:   cache.NewStore,
		historyFactory: history.NewFile,
	}
}

func TestApp_BaseDir(t *testing.T) {
	a := &App{configLoader: &fakeConfigLoader{root: "/pipelines/demo"}}
	root, err := a.BaseDir(".")
	require.NoError(t, err)
	assert.Equal(t, "/pipelines/demo", root)
}

func TestApp_HistoryEmpty(t *testing.T) {
	baseDir := t.TempDir()
	a := newTestApp(baseDir)

	entries, err := a.History(baseDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_HistoryReturnsAppendedEntries(t *testing.T) {
	baseDir := t.TempDir()
	a := newTestApp(baseDir)

	hist := a.historyFactory(baseDir)
	require.NoError(t, hist.Append("session-1", "wise_turing", "nf run"))
	require.NoError(t, hist.Append("session-2", "brave_curie", "nf run -resume"))

	entries, err := a.History(baseDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "wise_turing", entries[0].RunName)
	assert.Equal(t, "brave_curie", entries[1].RunName)
}

func seedCacheEntry(t *testing.T, a *App, baseDir, sessionID, runName string, hash domain.Fingerprint, folder string) {
	t.Helper()
	store := a.cacheFactory(baseDir, sessionID, runName)
	require.NoError(t, store.Open())
	require.NoError(t, store.PutEntry(hash, domain.TraceRecord{
		TaskID:  1,
		Process: "align",
		Exit:    0,
		Folder:  folder,
	}, domain.NewTaskContext()))
	require.NoError(t, store.WriteIndex(hash, false))
}

func TestApp_LogPrintsDefaultFields(t *testing.T) {
	baseDir := t.TempDir()
	a := newTestApp(baseDir)

	hist := a.historyFactory(baseDir)
	require.NoError(t, hist.Append("session-1", "wise_turing", "nf run"))

	var hash domain.Fingerprint
	hash[0] = 0xAB
	seedCacheEntry(t, a, baseDir, "session-1", "wise_turing", hash, "/work/ab/cdef")

	var out bytes.Buffer
	err := a.Log(baseDir, LogOptions{Token: "last"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "align")
	assert.Contains(t, out.String(), "/work/ab/cdef")
}

func TestApp_LogFilterExcludesNonMatchingRecords(t *testing.T) {
	baseDir := t.TempDir()
	a := newTestApp(baseDir)

	hist := a.historyFactory(baseDir)
	require.NoError(t, hist.Append("session-1", "wise_turing", "nf run"))

	var hash domain.Fingerprint
	hash[0] = 0xCD
	seedCacheEntry(t, a, baseDir, "session-1", "wise_turing", hash, "/work/cd/ef01")

	var out bytes.Buffer
	err := a.Log(baseDir, LogOptions{Token: "last", Filter: `process=="sort"`}, &out)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestApp_LogPathOnly(t *testing.T) {
	baseDir := t.TempDir()
	a := newTestApp(baseDir)

	hist := a.historyFactory(baseDir)
	require.NoError(t, hist.Append("session-1", "wise_turing", "nf run"))

	var hash domain.Fingerprint
	hash[0] = 0x11
	seedCacheEntry(t, a, baseDir, "session-1", "wise_turing", hash, "/work/11/2233")

	var out bytes.Buffer
	err := a.Log(baseDir, LogOptions{Token: "last", PathOnly: true}, &out)
	require.NoError(t, err)
	assert.Equal(t, "/work/11/2233\n", out.String())
}

func TestApp_CleanRefusesWithoutForceOrDryRun(t *testing.T) {
	baseDir := t.TempDir()
	a := newTestApp(baseDir)

	err := a.Clean(baseDir, CleanOptions{Token: "last"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrCleanRefused)
}

func TestApp_CleanDryRunLeavesHistoryIntact(t *testing.T) {
	baseDir := t.TempDir()
	a := newTestApp(baseDir)

	hist := a.historyFactory(baseDir)
	require.NoError(t, hist.Append("session-1", "wise_turing", "nf run"))

	var hash domain.Fingerprint
	hash[0] = 0x22
	seedCacheEntry(t, a, baseDir, "session-1", "wise_turing", hash, "/work/22/3344")

	var out bytes.Buffer
	err := a.Clean(baseDir, CleanOptions{Token: "last", DryRun: true}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Would remove")

	entries, err := a.History(baseDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestApp_CleanForceRemovesHistoryEntry(t *testing.T) {
	baseDir := t.TempDir()
	a := newTestApp(baseDir)

	hist := a.historyFactory(baseDir)
	require.NoError(t, hist.Append("session-1", "wise_turing", "nf run"))

	var hash domain.Fingerprint
	hash[0] = 0x33
	seedCacheEntry(t, a, baseDir, "session-1", "wise_turing", hash, "/work/33/4455")

	var out bytes.Buffer
	err := a.Clean(baseDir, CleanOptions{Token: "last", Force: true, Quiet: true}, &out)
	require.NoError(t, err)

	entries, err := a.History(baseDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCompileFilter(t *testing.T) {
	fn, err := compileFilter(`process=="align"`)
	require.NoError(t, err)
	assert.True(t, fn(map[string]string{"process": "align"}, ""))
	assert.False(t, fn(map[string]string{"process": "sort"}, ""))

	fn, err = compileFilter(`process!="align"`)
	require.NoError(t, err)
	assert.False(t, fn(map[string]string{"process": "align"}, ""))

	fn, err = compileFilter("")
	require.NoError(t, err)
	assert.True(t, fn(map[string]string{}, ""))

	_, err = compileFilter("not a valid expression")
	assert.Error(t, err)
}

func TestCompileFilter_LazySpecialKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.CommandOutFile), []byte("hello\nworld\n"), 0o644))

	fn, err := compileFilter("stdout==\"hello\nworld\"")
	require.NoError(t, err)
	assert.True(t, fn(map[string]string{}, dir))

	fn, err = compileFilter(`stderr==""`)
	require.NoError(t, err)
	assert.True(t, fn(map[string]string{}, dir), "missing .command.err yields empty content, not an error")
}

func TestCompileTemplate(t *testing.T) {
	tmpl, err := compileTemplate(nil, "")
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, tmpl.Execute(&out, map[string]string{
		"taskId": "1", "hash": "ab", "process": "align", "exit": "0", "folder": "/work/x",
	}))
	assert.Equal(t, "1\tab\talign\t0\t/work/x\n", out.String())

	tmpl, err = compileTemplate([]string{"process"}, "")
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, tmpl.Execute(&out, map[string]string{"process": "sort"}))
	assert.Equal(t, "sort\n", out.String())

	tmpl, err = compileTemplate(nil, "{{.process}} exited {{.exit}}")
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, tmpl.Execute(&out, map[string]string{"process": "sort", "exit": "1"}))
	assert.Equal(t, "sort exited 1\n", out.String())
}

func TestTraceFields(t *testing.T) {
	var hash domain.Fingerprint
	hash[0] = 0xFF
	fields := traceFields(hash, domain.TraceRecord{
		TaskID:  7,
		Process: "align",
		Exit:    0,
		Folder:  "/work/ff/0011",
	}, 2)
	assert.Equal(t, "7", fields["taskId"])
	assert.Equal(t, "align", fields["process"])
	assert.Equal(t, "0", fields["exit"])
	assert.Equal(t, "/work/ff/0011", fields["folder"])
	assert.Equal(t, "2", fields["refCount"])
}
