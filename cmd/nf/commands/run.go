package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shihabhasan/nextflow/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags]",
		Short: "Run the pipeline in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			workDir, _ := cmd.Flags().GetString("work-dir")
			resume := cmd.Flags().Changed("resume")
			if resume {
				if token, _ := cmd.Flags().GetString("resume"); token != "" {
					name = token
				}
			}

			return c.app.Run(cmd.Context(), app.RunOptions{
				Name:        name,
				Resume:      resume,
				WorkDir:     workDir,
				CommandLine: runCommandLine(cmd),
			})
		},
	}
	cmd.Flags().String("name", "", "Assign a name to the run (a random one is generated when omitted)")
	cmd.Flags().String("resume", "", "Resume a prior run's session; the run name/id defaults to \"last\"")
	cmd.Flags().Lookup("resume").NoOptDefVal = "last"
	cmd.Flags().String("work-dir", "", "Directory where task work directories are created")
	return cmd
}

// runCommandLine reconstructs the invocation for the HistoryFile record.
func runCommandLine(cmd *cobra.Command) string {
	parts := []string{"nf", "run"}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		parts = append(parts, fmt.Sprintf("-%s=%s", f.Name, f.Value.String()))
	})
	return strings.Join(parts, " ")
}
