// Package grid implements ports.Executor for batch schedulers (Slurm, SGE,
// LSF, PBS) and Kubernetes, per §4.7: each adapter renders scheduler
// directives from a process's Directives, shells out the submit command,
// parses the job id from its stdout, and polls/kills through the
// scheduler's own CLI.
package grid

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// scheduler is the family-specific behavior a grid Executor is built from.
type scheduler interface {
	name() string
	renderHeader(run *domain.TaskRun) []string
	submitCmd(ctx context.Context, scriptPath string) *exec.Cmd
	parseJobID(stdout []byte) (string, error)
	statusCmd(ctx context.Context) *exec.Cmd
	parseStatus(stdout []byte, jobID string) (ports.JobStatus, error)
	killCmd(ctx context.Context, jobID string) *exec.Cmd
}

// Executor adapts one scheduler family to ports.Executor.
type Executor struct {
	sched scheduler
}

// NewSlurmExecutor creates an Executor submitting to Slurm via sbatch/squeue/scancel.
func NewSlurmExecutor() *Executor { return &Executor{sched: slurmScheduler{}} }

// NewSGEExecutor creates an Executor submitting to Sun/Oracle Grid Engine via qsub/qstat/qdel.
func NewSGEExecutor() *Executor { return &Executor{sched: sgeScheduler{}} }

// NewLSFExecutor creates an Executor submitting to IBM LSF via bsub/bjobs/bkill.
func NewLSFExecutor() *Executor { return &Executor{sched: lsfScheduler{}} }

// NewPBSExecutor creates an Executor submitting to PBS/Torque via qsub/qstat/qdel.
func NewPBSExecutor() *Executor { return &Executor{sched: pbsScheduler{}} }

// Name identifies this executor's scheduler family.
func (e *Executor) Name() string { return e.sched.name() }

// Submit renders the scheduler's directive header followed by the already
// staged task body into .command.run, then shells out the submit command.
func (e *Executor) Submit(ctx context.Context, run *domain.TaskRun) (ports.Handle, error) {
	header := e.sched.renderHeader(run)
	body := strings.Join(header, "\n") + "\n" +
		"cd " + shellQuote(run.WorkDir) + "\n" +
		"bash " + shellQuote(filepath.Join(run.WorkDir, domain.CommandScriptFile)) + "\n" +
		"echo $? > " + shellQuote(filepath.Join(run.WorkDir, domain.ExitCodeFile)) + "\n"

	scriptPath := filepath.Join(run.WorkDir, domain.CommandRunFile)
	if err := os.WriteFile(scriptPath, []byte(body), 0o750); err != nil { //nolint:gosec // driver script must be executable
		return "", zerr.Wrap(err, "failed to write grid driver script")
	}

	cmd := e.sched.submitCmd(ctx, scriptPath)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSubmitFailed.Error()), "stderr", errOut.String())
	}

	jobID, err := e.sched.parseJobID(out.Bytes())
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSubmitFailed.Error()), "stdout", out.String())
	}
	return ports.Handle(jobID), nil
}

// Poll invokes the scheduler's status command and maps its output onto the
// common JobStatus enum.
func (e *Executor) Poll(ctx context.Context, handle ports.Handle) (ports.JobStatus, error) {
	cmd := e.sched.statusCmd(ctx)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return ports.StatusError, zerr.Wrap(err, domain.ErrPollFailed.Error())
	}
	return e.sched.parseStatus(out.Bytes(), string(handle))
}

// Kill terminates an in-flight grid job.
func (e *Executor) Kill(ctx context.Context, handle ports.Handle) error {
	cmd := e.sched.killCmd(ctx, string(handle))
	return cmd.Run()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// jobName derives the "nf-<sanitized task name>" job name convention shared
// by every scheduler family.
func jobName(run *domain.TaskRun) string {
	sanitized := strings.ReplaceAll(run.ProcessName, " ", "_")
	return fmt.Sprintf("nf-%s", sanitized)
}
