package client

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// NewWhitelistCommand constructs the `whitelist` command group and subcommands.
func NewWhitelistCommand(baseURL BaseURLFunc) *cobra.Command {
	wlCmd := &cobra.Command{
		Use:     "whitelist",
		Aliases: []string{"wl"},
		Short:   "Suppression rule operations",
	}
	wlCmd.AddCommand(
		newWhitelistListCommand(baseURL),
		newWhitelistAddCommand(baseURL),
		newWhitelistRemoveCommand(baseURL),
		newWhitelistClearCommand(baseURL),
	)
	return wlCmd
}

func newWhitelistListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp struct {
				Rules []string `json:"rules"`
				CEL   string   `json:"cel"`
			}
			if err := getJSON(cmd.Context(), baseURL()+"/v1/whitelist", &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newWhitelistAddCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "add RULE",
		Short: "Add one rule (text format: /path|i<ip>|<port>)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := send(cmd.Context(), http.MethodPost, baseURL()+"/v1/whitelist",
				map[string]string{"rule": args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			return nil
		},
	}
}

func newWhitelistRemoveCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "remove RULE",
		Short: "Remove one rule by its text form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one rule argument")
			}
			status, err := send(cmd.Context(), http.MethodPost, baseURL()+"/v1/whitelist/remove",
				map[string]string{"rule": args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			return nil
		},
	}
}

func newWhitelistClearCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all rules and the CEL expression",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := send(cmd.Context(), http.MethodDelete, baseURL()+"/v1/whitelist", nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			return nil
		},
	}
}
