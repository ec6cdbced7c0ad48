package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shihabhasan/nextflow/internal/core/domain"
)

func TestPublishOutputs_NoOpWithoutPublishDir(t *testing.T) {
	workDir := t.TempDir()
	p := &Processor{Proc: &domain.Process{Directives: domain.Directives{}}}
	run := &domain.TaskRun{WorkDir: workDir}

	err := p.publishOutputs(run, map[string]any{})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(workDir, domain.PublishScriptFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPublishOutputs_NoOpWithoutFileOutputs(t *testing.T) {
	workDir := t.TempDir()
	publishDir := t.TempDir()
	p := &Processor{Proc: &domain.Process{
		Directives: domain.Directives{PublishDir: publishDir, PublishMode: "copy"},
		Outputs: []domain.OutputParam{
			{Name: domain.NewInternedString("count"), Source: domain.OutputSourceValue},
		},
	}}
	run := &domain.TaskRun{WorkDir: workDir}

	err := p.publishOutputs(run, map[string]any{"count": "3"})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(workDir, domain.PublishScriptFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPublishOutputs_CopiesFileOutputsToPublishDir(t *testing.T) {
	workDir := t.TempDir()
	publishDir := t.TempDir()

	src := filepath.Join(workDir, "result.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), domain.FilePerm))

	p := &Processor{Proc: &domain.Process{
		Directives: domain.Directives{PublishDir: publishDir, PublishMode: "copy"},
		Outputs: []domain.OutputParam{
			{Name: domain.NewInternedString("result"), Source: domain.OutputSourceFile},
		},
	}}
	run := &domain.TaskRun{WorkDir: workDir}

	err := p.publishOutputs(run, map[string]any{"result": []string{src}})
	require.NoError(t, err)

	script, err := os.ReadFile(filepath.Join(workDir, domain.PublishScriptFile))
	require.NoError(t, err)
	assert.Contains(t, string(script), "cp -fR")

	published, err := os.ReadFile(filepath.Join(publishDir, "result.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(published))
}

func TestPublishOutputs_MoveMode(t *testing.T) {
	workDir := t.TempDir()
	publishDir := t.TempDir()

	src := filepath.Join(workDir, "result.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), domain.FilePerm))

	p := &Processor{Proc: &domain.Process{
		Directives: domain.Directives{PublishDir: publishDir, PublishMode: "move"},
		Outputs: []domain.OutputParam{
			{Name: domain.NewInternedString("result"), Source: domain.OutputSourceFile},
		},
	}}
	run := &domain.TaskRun{WorkDir: workDir}

	err := p.publishOutputs(run, map[string]any{"result": []string{src}})
	require.NoError(t, err)

	_, statErr := os.Stat(src)
	assert.True(t, os.IsNotExist(statErr), "source should have been moved away")

	published, err := os.ReadFile(filepath.Join(publishDir, "result.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(published))
}
