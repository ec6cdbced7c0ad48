package telemetry

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/shihabhasan/nextflow/internal/adapters/render"
	"github.com/shihabhasan/nextflow/internal/core/ports"
)

// NodeID is the Graft node identifier for the OTelTracer singleton.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{render.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			renderer, err := graft.Dep[ports.Renderer](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTracer("nextflow").WithRenderer(renderer), nil
		},
	})
}
