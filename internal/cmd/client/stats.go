package client

import (
	"github.com/spf13/cobra"
)

// NewStatsCommand constructs the `stats` subcommand.
func NewStatsCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ring occupancy and collection state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp map[string]any
			if err := getJSON(cmd.Context(), baseURL()+"/v1/stats", &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}
