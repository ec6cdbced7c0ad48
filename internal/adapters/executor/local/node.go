package local

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/shihabhasan/nextflow/internal/adapters/logger"
	"github.com/shihabhasan/nextflow/internal/core/ports"
)

// NodeID is the Graft node identifier for the local Executor singleton.
const NodeID graft.ID = "adapter.executor.local"

func init() {
	graft.Register(graft.Node[*Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Executor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log), nil
		},
	})
}
