package fs

import (
	"context"

	"github.com/grindlemire/graft"
)

// HasherNodeID is the Graft node identifier for the Hasher singleton.
const HasherNodeID graft.ID = "adapter.fs.hasher"

// ResolverNodeID is the Graft node identifier for the Resolver singleton.
const ResolverNodeID graft.ID = "adapter.fs.resolver"

// CollectorNodeID is the Graft node identifier for the Collector singleton.
const CollectorNodeID graft.ID = "adapter.fs.collector"

func init() {
	graft.Register(graft.Node[*Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Hasher, error) {
			return NewHasher(), nil
		},
	})
	graft.Register(graft.Node[*Resolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Resolver, error) {
			return NewResolver(), nil
		},
	})
	graft.Register(graft.Node[*Collector]{
		ID:        CollectorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Collector, error) {
			return NewCollector(), nil
		},
	})
}
