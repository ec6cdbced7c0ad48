package render

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/shihabhasan/nextflow/internal/adapters/detector"
	"github.com/shihabhasan/nextflow/internal/core/ports"
)

// NodeID is the Graft node identifier for the Renderer singleton.
const NodeID graft.ID = "adapter.render"

// outputFlagsKey is the context key main.go stores the pre-parsed
// --output/--ansi flag values under, before the DI graph runs (the Renderer
// node builds before cobra gets a chance to parse per-command flags).
type outputFlagsKey struct{}

type outputFlags struct {
	output string
	ansi   bool
}

// WithOutputFlags attaches the resolved --output/--ansi flag values to ctx so
// the Renderer node can resolve its color profile through
// detector.ResolveMode(detector.DetectEnvironment(), output) instead of
// guessing inline.
func WithOutputFlags(ctx context.Context, output string, ansi bool) context.Context {
	return context.WithValue(ctx, outputFlagsKey{}, outputFlags{output: output, ansi: ansi})
}

func outputFlagsFrom(ctx context.Context) outputFlags {
	flags, _ := ctx.Value(outputFlagsKey{}).(outputFlags)
	return flags
}

func init() {
	graft.Register(graft.Node[ports.Renderer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Renderer, error) {
			flags := outputFlagsFrom(ctx)
			mode := detector.ResolveMode(detector.DetectEnvironment(), flags.output)
			return NewRenderer(nil, nil, mode, flags.ansi), nil
		},
	})
}
