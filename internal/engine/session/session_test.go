package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shihabhasan/nextflow/internal/adapters/cache"
	"github.com/shihabhasan/nextflow/internal/adapters/history"
	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	engsession "github.com/shihabhasan/nextflow/internal/engine/session"
)

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

type fakeHasher struct{}

func (fakeHasher) Fingerprint(ports.Binding) (domain.Fingerprint, error) {
	return domain.Fingerprint{1}, nil
}
func (fakeHasher) ComputeFileHash(string, domain.HashMode) (string, error) { return "", nil }

type fakeResolver struct{}

func (fakeResolver) NormalizeAndStage(values []string, _ string) ([]string, error) { return values, nil }
func (fakeResolver) ExpandNames(_ string, staged []string) ([]string, error)       { return staged, nil }

type fakeCollector struct{}

func (fakeCollector) CollectStdout(string) (string, error) { return "", nil }
func (fakeCollector) CollectFile(string, string, domain.WalkOptions, []string) ([]string, error) {
	return nil, nil
}
func (fakeCollector) CollectValue(*domain.TaskContext, string) (string, error) { return "", nil }

type fakeExecutor struct{}

func (fakeExecutor) Name() string { return "fake" }
func (fakeExecutor) Submit(_ context.Context, run *domain.TaskRun) (ports.Handle, error) {
	path := filepath.Join(run.WorkDir, domain.ExitCodeFile)
	if err := os.WriteFile(path, []byte("0"), domain.FilePerm); err != nil {
		return "", err
	}
	return "h", nil
}
func (fakeExecutor) Poll(context.Context, ports.Handle) (ports.JobStatus, error) {
	return ports.StatusDone, nil
}
func (fakeExecutor) Kill(context.Context, ports.Handle) error { return nil }

func testOptions() engsession.Options {
	return engsession.Options{
		Hasher:         fakeHasher{},
		Resolver:       fakeResolver{},
		Collector:      fakeCollector{},
		Logger:         nopLogger{},
		CacheFactory:   cache.NewStore,
		HistoryFactory: history.NewFile,
		Executors: func(domain.Directives) (ports.Executor, error) {
			return fakeExecutor{}, nil
		},
		PollInterval: time.Millisecond,
	}
}

func TestSessionStartAppendsHistoryEntry(t *testing.T) {
	baseDir := t.TempDir()
	opts := testOptions()

	s, err := engsession.New(baseDir, baseDir, "grave_curie", opts)
	require.NoError(t, err)

	require.NoError(t, s.Start("nf run pipeline.yaml"))

	entries, err := s.History.All()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "grave_curie", entries[0].RunName)
	assert.Equal(t, s.Domain.SessionID.String(), entries[0].SessionID)
}

func TestSessionRunCompletesTrivialPipeline(t *testing.T) {
	baseDir := t.TempDir()
	opts := testOptions()

	s, err := engsession.New(baseDir, baseDir, "test_run", opts)
	require.NoError(t, err)

	pipeline := &domain.Pipeline{
		Name:    "p",
		BaseDir: baseDir,
		Processes: []*domain.Process{
			{
				Name:   domain.NewInternedString("hello"),
				Source: "echo hi",
			},
		},
	}

	err = s.Run(context.Background(), pipeline)
	require.NoError(t, err)
}

func TestSessionResumeReusesPriorSessionID(t *testing.T) {
	baseDir := t.TempDir()
	opts := testOptions()

	first, err := engsession.New(baseDir, baseDir, "resumed_run", opts)
	require.NoError(t, err)
	require.NoError(t, first.Start("nf run pipeline.yaml"))

	second, err := engsession.Resume(baseDir, baseDir, "resumed_run", opts)
	require.NoError(t, err)
	assert.Equal(t, first.Domain.SessionID, second.Domain.SessionID)
}
