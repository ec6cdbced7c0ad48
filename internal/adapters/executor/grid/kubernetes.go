package grid

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.Executor = (*KubernetesExecutor)(nil)

// KubernetesExecutor submits tasks as batch/v1 Jobs, per §4.7: one container,
// cpu/memory rendered as both resources.limits and resources.requests, and a
// single host-path volume at the longest common prefix of the task's workDir
// and its absolute input values. No bin directory is included, and the paths
// are never split into several volumes.
type KubernetesExecutor struct {
	Image string
}

// NewKubernetesExecutor creates a KubernetesExecutor running tasks under image.
func NewKubernetesExecutor(image string) *KubernetesExecutor {
	return &KubernetesExecutor{Image: image}
}

// Name identifies this executor kind.
func (e *KubernetesExecutor) Name() string { return "kubernetes" }

type k8sJob struct {
	APIVersion string     `yaml:"apiVersion"`
	Kind       string     `yaml:"kind"`
	Metadata   k8sMeta    `yaml:"metadata"`
	Spec       k8sJobSpec `yaml:"spec"`
}

type k8sMeta struct {
	Name string `yaml:"name"`
}

type k8sJobSpec struct {
	Template k8sPodTemplate `yaml:"template"`
}

type k8sPodTemplate struct {
	Spec k8sPodSpec `yaml:"spec"`
}

type k8sPodSpec struct {
	Containers    []k8sContainer `yaml:"containers"`
	Volumes       []k8sVolume    `yaml:"volumes"`
	RestartPolicy string         `yaml:"restartPolicy"`
}

type k8sContainer struct {
	Name         string          `yaml:"name"`
	Image        string          `yaml:"image"`
	Command      []string        `yaml:"command"`
	WorkingDir   string          `yaml:"workingDir"`
	Resources    k8sResources    `yaml:"resources"`
	VolumeMounts []k8sVolumeMount `yaml:"volumeMounts"`
}

type k8sResources struct {
	Limits   k8sResourceList `yaml:"limits"`
	Requests k8sResourceList `yaml:"requests"`
}

type k8sResourceList struct {
	CPU    string `yaml:"cpu"`
	Memory string `yaml:"memory"`
}

type k8sVolume struct {
	Name     string          `yaml:"name"`
	HostPath k8sHostPathSpec `yaml:"hostPath"`
}

type k8sHostPathSpec struct {
	Path string `yaml:"path"`
}

type k8sVolumeMount struct {
	Name      string `yaml:"name"`
	MountPath string `yaml:"mountPath"`
}

// Submit renders the Job manifest to .command.yaml and applies it with
// "kubectl create -f".
func (e *KubernetesExecutor) Submit(ctx context.Context, run *domain.TaskRun) (ports.Handle, error) {
	manifest := e.renderManifest(run)

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return "", zerr.Wrap(err, "failed to render kubernetes job manifest")
	}
	manifestPath := filepath.Join(run.WorkDir, domain.CommandYamlFile)
	if err := os.WriteFile(manifestPath, data, domain.FilePerm); err != nil {
		return "", zerr.Wrap(err, "failed to write kubernetes job manifest")
	}

	cmd := exec.CommandContext(ctx, "kubectl", "create", "-f", manifestPath)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSubmitFailed.Error()), "stderr", errOut.String())
	}

	return ports.Handle(manifest.Metadata.Name), nil
}

func (e *KubernetesExecutor) renderManifest(run *domain.TaskRun) k8sJob {
	name := jobName(run)
	cpu := fmt.Sprintf("%d", run.Config.CPUs)
	if run.Config.CPUs == 0 {
		cpu = "1"
	}
	memMi := fmt.Sprintf("%dMi", parseMemMB(run.Config.Memory))

	paths := []string{run.WorkDir}
	for _, v := range run.Inputs.Values {
		if strings.HasPrefix(v, "/") {
			paths = append(paths, v)
		}
	}

	volumes, mounts := volumesForPaths(paths)

	image := e.Image
	if run.Config.Container != "" {
		image = run.Config.Container
	}

	return k8sJob{
		APIVersion: "batch/v1",
		Kind:       "Job",
		Metadata:   k8sMeta{Name: name},
		Spec: k8sJobSpec{
			Template: k8sPodTemplate{
				Spec: k8sPodSpec{
					RestartPolicy: "Never",
					Containers: []k8sContainer{{
						Name:       name,
						Image:      image,
						Command:    []string{"bash", filepath.Join(run.WorkDir, domain.CommandRunFile)},
						WorkingDir: run.WorkDir,
						Resources: k8sResources{
							Limits:   k8sResourceList{CPU: cpu, Memory: memMi},
							Requests: k8sResourceList{CPU: cpu, Memory: memMi},
						},
						VolumeMounts: mounts,
					}},
					Volumes: volumes,
				},
			},
		},
	}
}

// volumesForPaths reduces all paths to their single longest common ancestor
// directory ("/" when they share none) and emits exactly one host-path volume
// and mount for it. Paths are not partitioned into separate groups.
func volumesForPaths(paths []string) ([]k8sVolume, []k8sVolumeMount) {
	if len(paths) == 0 {
		return nil, nil
	}

	prefix := paths[0]
	for _, p := range paths[1:] {
		prefix = commonDirPrefix(prefix, p)
	}
	if prefix == "" || prefix == "/" {
		prefix = "/"
	}

	name := "vol-0"
	return []k8sVolume{{Name: name, HostPath: k8sHostPathSpec{Path: prefix}}},
		[]k8sVolumeMount{{Name: name, MountPath: prefix}}
}

func commonDirPrefix(a, b string) string {
	da := strings.Split(strings.Trim(a, "/"), "/")
	db := strings.Split(strings.Trim(b, "/"), "/")

	n := len(da)
	if len(db) < n {
		n = len(db)
	}
	var common []string
	for i := 0; i < n; i++ {
		if da[i] != db[i] {
			break
		}
		common = append(common, da[i])
	}
	if len(common) == 0 {
		return "/"
	}
	return "/" + strings.Join(common, "/")
}

var podNameRegexp = regexp.MustCompile(`(\S+)\s+\S+\s+(\S+)`)

// Poll invokes "kubectl get pods -a" and maps the pod's phase for handle's
// job onto the common enum. Per Open Question 2, this implementation follows
// the canonical Kubernetes pod-phase vocabulary rather than the source's
// mixed Kubernetes/HTCondor status strings.
func (e *KubernetesExecutor) Poll(ctx context.Context, handle ports.Handle) (ports.JobStatus, error) {
	cmd := exec.CommandContext(ctx, "kubectl", "get", "pods", "-a")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return ports.StatusError, zerr.Wrap(err, domain.ErrPollFailed.Error())
	}

	for _, line := range strings.Split(out.String(), "\n") {
		if !strings.Contains(line, string(handle)) {
			continue
		}
		m := podNameRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return k8sPhaseStatus(m[2]), nil
	}
	return ports.StatusPending, nil
}

// k8sPhaseStatus maps a Kubernetes pod phase onto the common enum.
var k8sPhaseStatus = func(phase string) ports.JobStatus {
	switch phase {
	case "Pending", "ContainerCreating":
		return ports.StatusPending
	case "Running":
		return ports.StatusRunning
	case "Succeeded", "Completed":
		return ports.StatusDone
	case "Failed", "Error", "CrashLoopBackOff":
		return ports.StatusError
	default:
		return ports.StatusPending
	}
}

// Kill removes the job (and its pods, via the default cascade) with "kubectl delete job".
func (e *KubernetesExecutor) Kill(ctx context.Context, handle ports.Handle) error {
	cmd := exec.CommandContext(ctx, "kubectl", "delete", "job", string(handle))
	return cmd.Run()
}
