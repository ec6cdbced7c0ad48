package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/shihabhasan/nextflow/internal/adapters/config"
	"github.com/shihabhasan/nextflow/internal/adapters/fs"
	"github.com/shihabhasan/nextflow/internal/adapters/logger"
	"github.com/shihabhasan/nextflow/internal/adapters/render"
	"github.com/shihabhasan/nextflow/internal/adapters/telemetry"
	"github.com/shihabhasan/nextflow/internal/core/ports"
)

const (
	// AppNodeID is the Graft node identifier for the main App singleton.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the Graft node identifier for the top-level Components singleton.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the App with the collaborators cmd/nf needs directly
// (e.g. to log a fatal startup error before the App itself can run).
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.HasherNodeID,
			fs.ResolverNodeID,
			fs.CollectorNodeID,
			render.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: application, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[*fs.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[*fs.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[*fs.Collector](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, hasher, resolver, collector, renderer, tracer), nil
}
