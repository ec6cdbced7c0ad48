package commands

import (
	"github.com/spf13/cobra"

	"github.com/shihabhasan/nextflow/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [<run>]",
		Short: "Remove the workDirs and cache entries of past runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")
			quiet, _ := cmd.Flags().GetBool("quiet")
			before, _ := cmd.Flags().GetString("before")
			after, _ := cmd.Flags().GetString("after")
			but, _ := cmd.Flags().GetString("but")

			token := "last"
			if len(args) == 1 {
				token = args[0]
			}

			baseDir, err := c.app.BaseDir(".")
			if err != nil {
				return err
			}

			return c.app.Clean(baseDir, app.CleanOptions{
				Token:  token,
				DryRun: dryRun,
				Force:  force,
				Quiet:  quiet,
				Before: before,
				After:  after,
				But:    but,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolP("dry-run", "n", false, "Dry run: report what would be removed without removing it")
	cmd.Flags().BoolP("force", "f", false, "Force: actually remove workDirs and cache entries")
	cmd.Flags().BoolP("quiet", "q", false, "Quiet: do not print each removal")
	cmd.Flags().String("before", "", "Select every run before the given run")
	cmd.Flags().String("after", "", "Select every run after the given run")
	cmd.Flags().String("but", "", "Select every run except the given run")

	return cmd
}
