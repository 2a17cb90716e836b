package client

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// NewProbesCommand constructs the `probes` command group and subcommands.
func NewProbesCommand(baseURL BaseURLFunc) *cobra.Command {
	probesCmd := &cobra.Command{
		Use:   "probes",
		Short: "Probe inspection and toggling",
	}
	probesCmd.AddCommand(
		newProbesListCommand(baseURL),
		newProbesToggleCommand(baseURL, "enable", true),
		newProbesToggleCommand(baseURL, "disable", false),
	)
	return probesCmd
}

func newProbesListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List probes and their enabled state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp struct {
				Probes map[string]bool `json:"probes"`
			}
			if err := getJSON(cmd.Context(), baseURL()+"/v1/probes", &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newProbesToggleCommand(baseURL BaseURLFunc, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " PROBE",
		Short: capitalize(verb) + " one probe (e.g. tcp_connect)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := send(cmd.Context(), http.MethodPut, baseURL()+"/v1/probes/"+args[0],
				map[string]bool{"enabled": enabled})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			return nil
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
