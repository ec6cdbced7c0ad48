package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shihabhasan/nextflow/internal/core/domain"
)

func (c *CLI) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print a table of every recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			baseDir, err := c.app.BaseDir(".")
			if err != nil {
				return err
			}

			entries, err := c.app.History(baseDir)
			if err != nil {
				return err
			}
			entries = sortHistoryByTime(entries)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TIMESTAMP\tRUN NAME\tSESSION ID\tCOMMAND")
			for _, entry := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					entry.Timestamp.Format("2006-01-02 15:04:05"), entry.RunName, entry.SessionID, entry.CommandLine)
			}
			return w.Flush()
		},
	}
}

// sortHistoryByTime keeps a defensive copy of entries sorted oldest-first,
// matching HistoryFile.All's own contract.
func sortHistoryByTime(entries []domain.HistoryEntry) []domain.HistoryEntry {
	out := append([]domain.HistoryEntry(nil), entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}
