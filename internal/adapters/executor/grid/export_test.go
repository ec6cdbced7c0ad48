// export_test.go exports private helpers for white-box testing.
package grid

import "github.com/shihabhasan/nextflow/internal/core/domain"

// RenderSlurmHeader exports slurmScheduler.renderHeader for testing.
func RenderSlurmHeader(run *domain.TaskRun) []string {
	return slurmScheduler{}.renderHeader(run)
}

// RenderKubernetesManifest exports KubernetesExecutor.renderManifest for testing.
func (e *KubernetesExecutor) RenderKubernetesManifest(run *domain.TaskRun) k8sJob {
	return e.renderManifest(run)
}

// K8sJob re-exports the unexported k8sJob type for test type assertions.
type K8sJob = k8sJob
