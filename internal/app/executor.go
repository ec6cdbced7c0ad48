package app

import (
	"github.com/shihabhasan/nextflow/internal/adapters/executor/grid"
	"github.com/shihabhasan/nextflow/internal/adapters/executor/local"
	"github.com/shihabhasan/nextflow/internal/core/domain"
	"github.com/shihabhasan/nextflow/internal/core/ports"
)

// DefaultKubernetesImage is used when a process declares the kubernetes
// executor without a container directive.
const DefaultKubernetesImage = "ubuntu:22.04"

// NewExecutorResolver builds the engine/session.ExecutorResolver over the
// executor family of §4.7: local plus the grid schedulers, selected by each
// process's own Executor directive.
func NewExecutorResolver(logger ports.Logger) func(domain.Directives) (ports.Executor, error) {
	localExec := local.NewExecutor(logger)
	return func(d domain.Directives) (ports.Executor, error) {
		switch d.Executor {
		case "", "local":
			return localExec, nil
		case "slurm":
			return grid.NewSlurmExecutor(), nil
		case "sge":
			return grid.NewSGEExecutor(), nil
		case "lsf":
			return grid.NewLSFExecutor(), nil
		case "pbs":
			return grid.NewPBSExecutor(), nil
		case "kubernetes":
			image := d.Container
			if image == "" {
				image = DefaultKubernetesImage
			}
			return grid.NewKubernetesExecutor(image), nil
		default:
			return nil, domain.ErrUnknownScheduler
		}
	}
}
