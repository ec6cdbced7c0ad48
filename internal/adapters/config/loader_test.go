package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shihabhasan/nextflow/internal/core/domain"
)

const validPipelineYAML = `
name: demo
processes:
  - name: align
    inputs:
      - name: sample
        kind: value
        values: ["a", "b"]
    outputs:
      - name: result
        source: file
        spec: "*.bam"
    directives:
      cpus: 2
      publishDir: results
      publishMode: move
    script: "echo hello"
`

func newMapFSLoader(t *testing.T, root string, files map[string]string) *Loader {
	t.Helper()
	mapFS := fstest.MapFS{}
	for name, content := range files {
		mapFS[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return NewLoaderWithFS(nil, NewMapFSAdapter(root, mapFS))
}

func TestLoader_DiscoverRootFindsFileInCwd(t *testing.T) {
	l := newMapFSLoader(t, "/proj", map[string]string{"pipeline.yaml": validPipelineYAML})
	root, err := l.DiscoverRoot("/proj")
	require.NoError(t, err)
	assert.Equal(t, "/proj", root)
}

func TestLoader_DiscoverRootWalksUpward(t *testing.T) {
	l := newMapFSLoader(t, "/proj", map[string]string{"pipeline.yaml": validPipelineYAML})
	root, err := l.DiscoverRoot("/proj/sub/deeper")
	require.NoError(t, err)
	assert.Equal(t, "/proj", root)
}

func TestLoader_DiscoverRootNotFound(t *testing.T) {
	l := newMapFSLoader(t, "/proj", map[string]string{"unrelated.txt": "x"})
	_, err := l.DiscoverRoot("/proj")
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoader_LoadParsesProcessesInputsOutputsDirectives(t *testing.T) {
	l := newMapFSLoader(t, "/proj", map[string]string{"pipeline.yaml": validPipelineYAML})

	pipeline, err := l.Load("/proj")
	require.NoError(t, err)
	assert.Equal(t, "demo", pipeline.Name)
	require.Len(t, pipeline.Processes, 1)

	proc := pipeline.Processes[0]
	assert.Equal(t, "align", proc.Name.String())
	require.Len(t, proc.Inputs, 1)
	assert.Equal(t, domain.InputKindValue, proc.Inputs[0].Kind)
	assert.Equal(t, []string{"a", "b"}, proc.Inputs[0].Values)

	require.Len(t, proc.Outputs, 1)
	assert.Equal(t, domain.OutputSourceFile, proc.Outputs[0].Source)

	assert.Equal(t, 2, proc.Directives.CPUs)
	assert.Equal(t, "results", proc.Directives.PublishDir)
	assert.Equal(t, "move", proc.Directives.PublishMode)
	assert.Equal(t, "local", proc.Directives.Executor)
	assert.True(t, proc.Directives.Cache)
}

func TestLoader_LoadDefaultsPublishModeToCopy(t *testing.T) {
	yaml := `
name: demo
processes:
  - name: align
    script: "echo hi"
`
	l := newMapFSLoader(t, "/proj", map[string]string{"pipeline.yaml": yaml})
	pipeline, err := l.Load("/proj")
	require.NoError(t, err)
	assert.Equal(t, "copy", pipeline.Processes[0].Directives.PublishMode)
}

func TestLoader_LoadRejectsDuplicateProcessNames(t *testing.T) {
	yaml := `
name: demo
processes:
  - name: align
    script: "echo hi"
  - name: align
    script: "echo bye"
`
	l := newMapFSLoader(t, "/proj", map[string]string{"pipeline.yaml": yaml})
	_, err := l.Load("/proj")
	assert.ErrorIs(t, err, domain.ErrTaskAlreadyExists)
}

func TestLoader_LoadRejectsReservedProcessName(t *testing.T) {
	yaml := `
name: demo
processes:
  - name: all
    script: "echo hi"
`
	l := newMapFSLoader(t, "/proj", map[string]string{"pipeline.yaml": yaml})
	_, err := l.Load("/proj")
	assert.ErrorIs(t, err, domain.ErrReservedTaskName)
}

func TestLoader_LoadRejectsInvalidInputKind(t *testing.T) {
	yaml := `
name: demo
processes:
  - name: align
    inputs:
      - name: sample
        kind: bogus
    script: "echo hi"
`
	l := newMapFSLoader(t, "/proj", map[string]string{"pipeline.yaml": yaml})
	_, err := l.Load("/proj")
	assert.Error(t, err)
}
