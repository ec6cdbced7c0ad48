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

type sgeScheduler struct{}

func (sgeScheduler) name() string { return "sge" }

// renderHeader emits one "#$" line per directive, SGE's comment-directive prefix.
func (sgeScheduler) renderHeader(run *domain.TaskRun) []string {
	lines := []string{
		"#$ -wd " + run.WorkDir,
		"#$ -N " + jobName(run),
		"#$ -o " + run.WorkDir + "/" + domain.CommandLogFile,
		"#$ -j y",
	}
	if run.Config.CPUs > 0 {
		lines = append(lines, fmt.Sprintf("#$ -pe smp %d", run.Config.CPUs))
	}
	if run.Config.Time != "" {
		lines = append(lines, "#$ -l h_rt="+parseSlurmTime(run.Config.Time))
	}
	if run.Config.Memory != "" {
		lines = append(lines, fmt.Sprintf("#$ -l h_vmem=%dM", parseMemMB(run.Config.Memory)))
	}
	if run.Config.Queue != "" {
		lines = append(lines, "#$ -q "+run.Config.Queue)
	}
	if run.Config.ClusterOptions != "" {
		lines = append(lines, "#$ "+run.Config.ClusterOptions)
	}
	return lines
}

func (sgeScheduler) submitCmd(ctx context.Context, scriptPath string) *exec.Cmd {
	return exec.CommandContext(ctx, "qsub", scriptPath)
}

var sgeJobIDPattern = regexp.MustCompile(`\d+`)

func (sgeScheduler) parseJobID(stdout []byte) (string, error) {
	m := sgeJobIDPattern.FindString(string(stdout))
	if m == "" {
		return "", zerr.New("qsub produced no job id")
	}
	return m, nil
}

func (sgeScheduler) statusCmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, "qstat")
}

// sgeStatus maps qstat's short (one to three letter) state codes onto the common enum.
var sgeStatus = map[string]ports.JobStatus{
	"qw": ports.StatusPending,
	"hqw": ports.StatusHold,
	"r":  ports.StatusRunning,
	"t":  ports.StatusRunning,
	"Eqw": ports.StatusError,
	"dr":  ports.StatusRunning,
}

func (sgeScheduler) parseStatus(stdout []byte, jobID string) (ports.JobStatus, error) {
	for _, line := range strings.Split(string(stdout), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != jobID {
			continue
		}
		if s, ok := sgeStatus[fields[4]]; ok {
			return s, nil
		}
		return ports.StatusError, nil
	}
	return ports.StatusDone, nil
}

func (sgeScheduler) killCmd(ctx context.Context, jobID string) *exec.Cmd {
	return exec.CommandContext(ctx, "qdel", jobID)
}
