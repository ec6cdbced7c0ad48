package history

import (
	"context"

	"github.com/grindlemire/graft"
)

// NewNodeID is the unique identifier for the history factory Graft node.
//
// The history file is per-baseDir, so graft registers a *factory* rather
// than a singleton instance; callers invoke NewFile directly once the
// session's baseDir is known.
const NewNodeID graft.ID = "adapter.history.factory"

// Factory constructs a File rooted at a given baseDir.
type Factory func(baseDir string) *File

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NewNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Factory, error) {
			return NewFile, nil
		},
	})
}
