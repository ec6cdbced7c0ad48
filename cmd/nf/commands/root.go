// Package commands implements the CLI commands for the nf workflow engine.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shihabhasan/nextflow/internal/app"
	"github.com/shihabhasan/nextflow/internal/build"
	"github.com/shihabhasan/nextflow/internal/core/domain"
)

// CLI represents the command line interface for nf.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface, per spec.md §4.10.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	History(baseDir string) ([]domain.HistoryEntry, error)
	Log(baseDir string, opts app.LogOptions, out io.Writer) error
	Clean(baseDir string, opts app.CleanOptions, out io.Writer) error
	BaseDir(cwd string) (string, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "nf",
		Short:         "A dataflow workflow engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	// --output/--ansi are actually resolved in cmd/nf/main.go, before this
	// flag set ever parses: the Renderer is a DI singleton built ahead of
	// cobra's own flag parsing. Registered here only so --help documents
	// them and cobra doesn't reject them as unknown flags.
	rootCmd.PersistentFlags().String("output", "", "Output mode: auto, tui, linear, or ci (default: auto-detected)")
	rootCmd.PersistentFlags().Bool("ansi", false, "Force ANSI color output even outside an interactive terminal")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newLogCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newHistoryCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
