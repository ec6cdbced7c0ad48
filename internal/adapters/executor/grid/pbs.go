package grid

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
	"go.trai.ch/zerr"
)

type pbsScheduler struct{}

func (pbsScheduler) name() string { return "pbs" }

// renderHeader emits one "#PBS" line per directive.
func (pbsScheduler) renderHeader(run *domain.TaskRun) []string {
	lines := []string{
		"#PBS -N " + jobName(run),
		"#PBS -o " + run.WorkDir + "/" + domain.CommandLogFile,
		"#PBS -j oe",
	}
	if run.Config.CPUs > 0 {
		lines = append(lines, fmt.Sprintf("#PBS -l nodes=1:ppn=%d", run.Config.CPUs))
	}
	if run.Config.Time != "" {
		lines = append(lines, "#PBS -l walltime="+parseSlurmTime(run.Config.Time))
	}
	if run.Config.Memory != "" {
		lines = append(lines, fmt.Sprintf("#PBS -l mem=%dmb", parseMemMB(run.Config.Memory)))
	}
	if run.Config.Queue != "" {
		lines = append(lines, "#PBS -q "+run.Config.Queue)
	}
	if run.Config.ClusterOptions != "" {
		lines = append(lines, "#PBS "+run.Config.ClusterOptions)
	}
	return lines
}

func (pbsScheduler) submitCmd(ctx context.Context, scriptPath string) *exec.Cmd {
	return exec.CommandContext(ctx, "qsub", scriptPath)
}

var pbsJobIDPattern = regexp.MustCompile(`^\S+`)

func (pbsScheduler) parseJobID(stdout []byte) (string, error) {
	m := pbsJobIDPattern.FindString(strings.TrimSpace(string(stdout)))
	if m == "" {
		return "", zerr.New("qsub produced no job id")
	}
	return m, nil
}

func (pbsScheduler) statusCmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, "qstat")
}

// pbsStatus maps qstat's single-letter job state codes onto the common enum.
var pbsStatus = map[string]ports.JobStatus{
	"Q": ports.StatusPending,
	"H": ports.StatusHold,
	"R": ports.StatusRunning,
	"E": ports.StatusRunning,
	"C": ports.StatusDone,
	"W": ports.StatusPending,
}

func (pbsScheduler) parseStatus(stdout []byte, jobID string) (ports.JobStatus, error) {
	for _, line := range strings.Split(string(stdout), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || !strings.HasPrefix(fields[0], jobID) {
			continue
		}
		if s, ok := pbsStatus[fields[4]]; ok {
			return s, nil
		}
		return ports.StatusError, nil
	}
	// Not present in the queue listing means the job already completed.
	return ports.StatusDone, nil
}

func (pbsScheduler) killCmd(ctx context.Context, jobID string) *exec.Cmd {
	return exec.CommandContext(ctx, "qdel", jobID)
}
