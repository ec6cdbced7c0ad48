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

type lsfScheduler struct{}

func (lsfScheduler) name() string { return "lsf" }

// renderHeader emits one "#BSUB" line per directive.
func (lsfScheduler) renderHeader(run *domain.TaskRun) []string {
	lines := []string{
		"#BSUB -cwd " + run.WorkDir,
		"#BSUB -J " + jobName(run),
		"#BSUB -o " + run.WorkDir + "/" + domain.CommandLogFile,
	}
	if run.Config.CPUs > 0 {
		lines = append(lines, fmt.Sprintf("#BSUB -n %d", run.Config.CPUs))
	}
	if run.Config.Time != "" {
		lines = append(lines, "#BSUB -W "+parseSlurmTime(run.Config.Time))
	}
	if run.Config.Memory != "" {
		lines = append(lines, fmt.Sprintf("#BSUB -M %d", parseMemMB(run.Config.Memory)))
	}
	if run.Config.Queue != "" {
		lines = append(lines, "#BSUB -q "+run.Config.Queue)
	}
	if run.Config.ClusterOptions != "" {
		lines = append(lines, "#BSUB "+run.Config.ClusterOptions)
	}
	return lines
}

func (lsfScheduler) submitCmd(ctx context.Context, scriptPath string) *exec.Cmd {
	return exec.CommandContext(ctx, "bsub", scriptPath)
}

var lsfJobIDPattern = regexp.MustCompile(`\d+`)

func (lsfScheduler) parseJobID(stdout []byte) (string, error) {
	m := lsfJobIDPattern.FindString(string(stdout))
	if m == "" {
		return "", zerr.New("bsub produced no job id")
	}
	return m, nil
}

func (lsfScheduler) statusCmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, "bjobs", "-a")
}

// lsfStatus maps bjobs's status codes onto the common enum.
var lsfStatus = map[string]ports.JobStatus{
	"PEND":  ports.StatusPending,
	"PSUSP": ports.StatusHold,
	"RUN":   ports.StatusRunning,
	"USUSP": ports.StatusHold,
	"SSUSP": ports.StatusHold,
	"DONE":  ports.StatusDone,
	"EXIT":  ports.StatusError,
}

func (lsfScheduler) parseStatus(stdout []byte, jobID string) (ports.JobStatus, error) {
	for _, line := range strings.Split(string(stdout), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != jobID {
			continue
		}
		if s, ok := lsfStatus[fields[2]]; ok {
			return s, nil
		}
		return ports.StatusError, nil
	}
	return ports.StatusDone, nil
}

func (lsfScheduler) killCmd(ctx context.Context, jobID string) *exec.Cmd {
	return exec.CommandContext(ctx, "bkill", jobID)
}
