package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/shihabhasan/nextflow/internal/app"
)

func (c *CLI) newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log [<run>]",
		Short: "Print the cache index entries recorded by a run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, _ := cmd.Flags().GetString("fields")
			tmpl, _ := cmd.Flags().GetString("template")
			pathOnly, _ := cmd.Flags().GetBool("path")
			filter, _ := cmd.Flags().GetString("filter")
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

			var fieldList []string
			if fields != "" {
				fieldList = strings.Split(fields, ",")
			}

			return c.app.Log(baseDir, app.LogOptions{
				Token:    token,
				Fields:   fieldList,
				Template: tmpl,
				Filter:   filter,
				PathOnly: pathOnly,
				Before:   before,
				After:    after,
				But:      but,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("fields", "f", "", "Comma-separated list of fields to print")
	cmd.Flags().StringP("template", "t", "", "Go text/template string to render per record")
	cmd.Flags().BoolP("path", "l", false, "Print only each record's task workDir path")
	cmd.Flags().StringP("filter", "F", "", `Boolean predicate over record fields, e.g. process=="align"`)
	cmd.Flags().String("before", "", "Select every run before the given run")
	cmd.Flags().String("after", "", "Select every run after the given run")
	cmd.Flags().String("but", "", "Select every run except the given run")

	return cmd
}
