package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs the `client` Cobra command group.
// It registers the tail, lines, stats, whitelist and probes commands.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "client",
		Short: "Client commands (HTTP API)",
	}
	root.AddCommand(NewTailCommand(baseURL))
	root.AddCommand(NewLinesCommand(baseURL))
	root.AddCommand(NewStatsCommand(baseURL))
	root.AddCommand(NewWhitelistCommand(baseURL))
	root.AddCommand(NewProbesCommand(baseURL))
	return root
}
