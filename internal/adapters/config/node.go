package config

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/shihabhasan/nextflow/internal/adapters/logger"
	"github.com/shihabhasan/nextflow/internal/core/ports"
)

// NodeID is the Graft node identifier for the ConfigLoader singleton.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
