package cache

import (
	"context"

	"github.com/grindlemire/graft"
)

// NewNodeID is the unique identifier for the cache factory Graft node.
//
// The cache is per-session (it is keyed by sessionID/runName at Open time),
// so graft registers a *factory* rather than a singleton instance; callers
// invoke NewStore directly once the session has allocated its sessionID.
const NewNodeID graft.ID = "adapter.cache.factory"

// Factory constructs a Store for a given session.
type Factory func(baseDir, sessionID, runName string) *Store

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NewNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Factory, error) {
			return NewStore, nil
		},
	})
}
