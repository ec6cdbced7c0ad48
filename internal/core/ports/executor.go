// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"github.com/shihabhasan/nextflow/internal/core/domain"
)

// JobStatus is the common status enum every executor family maps its
// scheduler-specific codes onto, per §4.7.
type JobStatus int

const (
	// StatusPending means the job is queued but not yet running.
	StatusPending JobStatus = iota
	// StatusRunning means the job is actively executing.
	StatusRunning
	// StatusDone means the job completed; the caller must still inspect the exit code file.
	StatusDone
	// StatusError means the scheduler itself reported a failure (lost node, OOM-killed, etc).
	StatusError
	// StatusHold means the job is held by the scheduler and will not run until released.
	StatusHold
)

// Handle is an opaque executor-assigned job identifier.
type Handle string

// Executor is the pluggable adapter every task dispatch goes through: local
// process or one of the grid scheduler families (Slurm, SGE, LSF, PBS,
// Kubernetes). Submit/Poll/Kill compose the submit loop of §4.6 and the
// TaskMonitor polling described in §5.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Name identifies the executor kind (e.g. "local", "slurm", "kubernetes").
	Name() string

	// Submit renders the task's run script into run.WorkDir and dispatches it,
	// returning an opaque handle the monitor polls with.
	Submit(ctx context.Context, run *domain.TaskRun) (Handle, error)

	// Poll returns the job's current status.
	Poll(ctx context.Context, handle Handle) (JobStatus, error)

	// Kill terminates an in-flight job.
	Kill(ctx context.Context, handle Handle) error
}
