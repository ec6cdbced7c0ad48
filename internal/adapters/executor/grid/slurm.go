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

type slurmScheduler struct{}

func (slurmScheduler) name() string { return "slurm" }

// renderHeader emits one #SBATCH line per directive, in workDir, jobname,
// log, cpus, time, memory, clusterOptions order.
func (slurmScheduler) renderHeader(run *domain.TaskRun) []string {
	lines := []string{
		"#SBATCH -D " + run.WorkDir,
		"#SBATCH -J " + jobName(run),
		"#SBATCH -o " + run.WorkDir + "/" + domain.CommandLogFile,
	}
	if run.Config.CPUs > 0 {
		lines = append(lines, fmt.Sprintf("#SBATCH -c %d", run.Config.CPUs))
	}
	if run.Config.Time != "" {
		lines = append(lines, "#SBATCH -t "+parseSlurmTime(run.Config.Time))
	}
	if run.Config.Memory != "" {
		lines = append(lines, fmt.Sprintf("#SBATCH --mem %d", parseMemMB(run.Config.Memory)))
	}
	if run.Config.ClusterOptions != "" {
		lines = append(lines, "#SBATCH "+run.Config.ClusterOptions)
	}
	return lines
}

func (slurmScheduler) submitCmd(ctx context.Context, scriptPath string) *exec.Cmd {
	return exec.CommandContext(ctx, "sbatch", scriptPath)
}

var slurmJobIDPattern = regexp.MustCompile(`\d+`)

func (slurmScheduler) parseJobID(stdout []byte) (string, error) {
	m := slurmJobIDPattern.FindString(string(stdout))
	if m == "" {
		return "", zerr.New("sbatch produced no job id")
	}
	return m, nil
}

func (slurmScheduler) statusCmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, "squeue", "-h", "-o", "%i %t", "-t", "all", "-u", "$USER")
}

// slurmStatus maps squeue's one/two-letter job state codes onto the common enum.
var slurmStatus = map[string]ports.JobStatus{
	"PD": ports.StatusPending,
	"R":  ports.StatusRunning,
	"CG": ports.StatusRunning,
	"CD": ports.StatusDone,
	"CA": ports.StatusDone,
	"F":  ports.StatusError,
	"TO": ports.StatusError,
	"NF": ports.StatusError,
	"S":  ports.StatusHold,
	"H":  ports.StatusHold,
}

func (slurmScheduler) parseStatus(stdout []byte, jobID string) (ports.JobStatus, error) {
	for _, line := range strings.Split(string(stdout), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		if fields[0] == jobID {
			if s, ok := slurmStatus[fields[1]]; ok {
				return s, nil
			}
			return ports.StatusError, nil
		}
	}
	// Not present in the queue listing means the job already completed.
	return ports.StatusDone, nil
}

func (slurmScheduler) killCmd(ctx context.Context, jobID string) *exec.Cmd {
	return exec.CommandContext(ctx, "scancel", jobID)
}
