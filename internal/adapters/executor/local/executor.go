// Package local implements ports.Executor by forking the task's driver
// script directly on the host, without a pseudo-terminal: a task's workDir is
// fully staged (§4.3/§6's .command.sh already written) before Submit runs, so
// all this executor owns is writing the .command.run wrapper, dispatching it,
// and capturing its three standard streams into the fixed-name files of §6.
package local

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor runs tasks as direct child processes of the nf process.
type Executor struct {
	logger ports.Logger

	mu   sync.Mutex
	jobs map[ports.Handle]*job
}

type job struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// NewExecutor creates a local Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger, jobs: make(map[ports.Handle]*job)}
}

// Name identifies this executor kind.
func (e *Executor) Name() string { return "local" }

// Submit renders .command.run, starts it under run.WorkDir, and returns a
// handle keyed by the task's own ID so Poll/Kill can find it again.
func (e *Executor) Submit(ctx context.Context, run *domain.TaskRun) (ports.Handle, error) {
	if err := writeRunScript(run.WorkDir); err != nil {
		return "", err
	}
	if err := writeEnvFile(run.WorkDir, run.Context); err != nil {
		return "", err
	}

	runScript := filepath.Join(run.WorkDir, domain.CommandRunFile)
	cmd := exec.CommandContext(ctx, "/bin/bash", runScript) //nolint:gosec // path is the task's own staged workDir
	cmd.Dir = run.WorkDir
	cmd.Env = append(os.Environ(), contextEnv(run.Context)...)

	stdout, err := os.Create(filepath.Join(run.WorkDir, domain.CommandOutFile)) //nolint:gosec // fixed filename under workDir
	if err != nil {
		return "", zerr.Wrap(err, "failed to create stdout capture file")
	}
	stderr, err := os.Create(filepath.Join(run.WorkDir, domain.CommandErrFile)) //nolint:gosec // fixed filename under workDir
	if err != nil {
		stdout.Close()
		return "", zerr.Wrap(err, "failed to create stderr capture file")
	}
	logFile, err := os.Create(filepath.Join(run.WorkDir, domain.CommandLogFile)) //nolint:gosec // fixed filename under workDir
	if err != nil {
		stdout.Close()
		stderr.Close()
		return "", zerr.Wrap(err, "failed to create merged log capture file")
	}

	mergedStdout := &multiWriteCloser{a: stdout, b: logFile}
	mergedStderr := &multiWriteCloser{a: stderr, b: logFile}
	cmd.Stdout = mergedStdout
	cmd.Stderr = mergedStderr

	if err := cmd.Start(); err != nil {
		stdout.Close()
		stderr.Close()
		logFile.Close()
		return "", zerr.With(zerr.Wrap(err, domain.ErrSubmitFailed.Error()), "workDir", run.WorkDir)
	}

	handle := ports.Handle(fmt.Sprintf("local-%d", run.ID))
	j := &job{cmd: cmd, done: make(chan struct{})}

	e.mu.Lock()
	e.jobs[handle] = j
	e.mu.Unlock()

	go func() {
		waitErr := cmd.Wait()
		stdout.Close()
		stderr.Close()
		logFile.Close()
		_ = writeExitCode(run.WorkDir, cmd.ProcessState)
		j.err = waitErr
		close(j.done)
	}()

	return handle, nil
}

// Poll reports the job's current status by checking whether it has exited.
func (e *Executor) Poll(_ context.Context, handle ports.Handle) (ports.JobStatus, error) {
	e.mu.Lock()
	j, ok := e.jobs[handle]
	e.mu.Unlock()
	if !ok {
		return ports.StatusError, zerr.With(domain.ErrPollFailed, "handle", string(handle))
	}

	select {
	case <-j.done:
		return ports.StatusDone, nil
	default:
		return ports.StatusRunning, nil
	}
}

// Kill terminates an in-flight local process.
func (e *Executor) Kill(_ context.Context, handle ports.Handle) error {
	e.mu.Lock()
	j, ok := e.jobs[handle]
	e.mu.Unlock()
	if !ok {
		return zerr.With(domain.ErrPollFailed, "handle", string(handle))
	}
	if j.cmd.Process == nil {
		return nil
	}
	return j.cmd.Process.Kill()
}

// writeRunScript writes the driver script that sources the environment and
// invokes the already-staged .command.sh, per §6.
func writeRunScript(workDir string) error {
	script := "#!/bin/bash\n" +
		"set -uo pipefail\n" +
		"cd " + shellQuote(workDir) + "\n" +
		"source " + shellQuote(filepath.Join(workDir, domain.CommandEnvFile)) + " 2>/dev/null || true\n" +
		"bash " + shellQuote(filepath.Join(workDir, domain.CommandScriptFile)) + "\n" +
		"exit $?\n"
	path := filepath.Join(workDir, domain.CommandRunFile)
	return os.WriteFile(path, []byte(script), 0o750) //nolint:gosec // driver script must be executable
}

func writeEnvFile(workDir string, ctx *domain.TaskContext) error {
	var b strings.Builder
	if ctx != nil {
		for _, k := range ctx.Keys {
			fmt.Fprintf(&b, "export %s=%s\n", k, shellQuote(ctx.Values[k]))
		}
	}
	path := filepath.Join(workDir, domain.CommandEnvFile)
	return os.WriteFile(path, []byte(b.String()), domain.FilePerm)
}

func writeExitCode(workDir string, state *os.ProcessState) error {
	code := -1
	if state != nil {
		code = state.ExitCode()
	}
	path := filepath.Join(workDir, domain.ExitCodeFile)
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", code)), domain.FilePerm)
}

func contextEnv(ctx *domain.TaskContext) []string {
	if ctx == nil {
		return nil
	}
	env := make([]string, 0, len(ctx.Keys))
	for _, k := range ctx.Keys {
		env = append(env, k+"="+ctx.Values[k])
	}
	return env
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

type multiWriteCloser struct {
	a, b *os.File
}

func (m *multiWriteCloser) Write(p []byte) (int, error) {
	n, err := m.a.Write(p)
	if err != nil {
		return n, err
	}
	_, _ = m.b.Write(p)
	return n, nil
}
