package grid_test

import (
	"testing"

	"github.com/shihabhasan/nextflow/internal/adapters/executor/grid"
	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKubernetesManifestLimitsMatchRequests(t *testing.T) {
	// Scenario 6 of spec.md §8: a Kubernetes Job manifest with matching
	// resources.limits/requests and a single host-path volume covering workDir.
	run := &domain.TaskRun{
		ProcessName: "align",
		WorkDir:     "/data/work/ab/cdef",
		Config: domain.Directives{
			CPUs:   8,
			Memory: "4G",
		},
		Inputs: domain.NewTaskContext(),
	}

	exec := grid.NewKubernetesExecutor("ubuntu:22.04")
	manifest := exec.RenderKubernetesManifest(run)

	require.Equal(t, "batch/v1", manifest.APIVersion)
	require.Equal(t, "Job", manifest.Kind)

	container := manifest.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "8", container.Resources.Limits.CPU)
	assert.Equal(t, "4096Mi", container.Resources.Limits.Memory)
	assert.Equal(t, container.Resources.Limits, container.Resources.Requests)
	assert.Equal(t, "ubuntu:22.04", container.Image)

	require.Len(t, manifest.Spec.Template.Spec.Volumes, 1)
	assert.Equal(t, "/data/work/ab/cdef", manifest.Spec.Template.Spec.Volumes[0].HostPath.Path)
	require.Len(t, container.VolumeMounts, 1)
	assert.Equal(t, "/data/work/ab/cdef", container.VolumeMounts[0].MountPath)
}

func TestKubernetesManifestGroupsPathsByCommonPrefix(t *testing.T) {
	run := &domain.TaskRun{
		ProcessName: "align",
		WorkDir:     "/data/work/ab/cdef",
		Config:      domain.Directives{},
		Inputs:      domain.NewTaskContext(),
	}
	run.Inputs.Set("reads", "/data/inputs/reads.fq")

	exec := grid.NewKubernetesExecutor("ubuntu:22.04")
	manifest := exec.RenderKubernetesManifest(run)

	require.Len(t, manifest.Spec.Template.Spec.Volumes, 1)
	assert.Equal(t, "/data", manifest.Spec.Template.Spec.Volumes[0].HostPath.Path)
}
