package cli

import (
	"encoding/json"
	"fmt"

	"todo_webapp/internal/stats"

	"github.com/spf13/cobra"
)

func newMetricsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show average completion time, overall and per priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := stats.Compute(a.board.Store().Snapshot())
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(report)
			}
			fmt.Fprintln(out, renderMetrics(report))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
