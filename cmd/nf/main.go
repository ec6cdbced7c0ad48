// Package main is the entry point for the nf workflow engine.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"github.com/spf13/pflag"

	"github.com/shihabhasan/nextflow/cmd/nf/commands"
	"github.com/shihabhasan/nextflow/internal/adapters/render"
	"github.com/shihabhasan/nextflow/internal/app"
	"github.com/shihabhasan/nextflow/internal/core/domain"
	_ "github.com/shihabhasan/nextflow/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The Renderer node builds as part of the DI graph below, before cobra
	// gets a chance to parse per-command flags, so --output/--ansi are
	// pre-scanned here and threaded through the context instead.
	output, ansi := parseOutputFlags(args)
	ctx = render.WithOutputFlags(ctx, output, ansi)

	// 1. Initialize application components
	components, _, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr passed in
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	// Apply options
	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 4. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildExecutionFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}

// parseOutputFlags pre-scans args for --output/--ansi, ignoring every other
// flag and any parse error, since the real per-command flag set (registered
// on rootCmd for --help discoverability) parses args again in cli.Execute.
func parseOutputFlags(args []string) (output string, ansi bool) {
	fs := pflag.NewFlagSet("nf", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist = pflag.ParseErrorsWhitelist{UnknownFlags: true}
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	outputFlag := fs.String("output", "", "")
	ansiFlag := fs.Bool("ansi", false, "")
	_ = fs.Parse(args)

	return *outputFlag, *ansiFlag
}
