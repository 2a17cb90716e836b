// Package client contains Cobra CLI commands for netlog.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// logQuery encodes the shared tail/lines query flags.
func logQuery(cmd *cobra.Command) string {
	fromStart, _ := cmd.Flags().GetBool("from-start")
	filter, _ := cmd.Flags().GetString("filter")
	limit, _ := cmd.Flags().GetInt("limit")

	q := url.Values{}
	if fromStart {
		q.Set("from", "oldest")
	}
	if filter != "" {
		q.Set("filter", filter)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func addLogFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("from-start", false, "Start at the oldest retained record")
	cmd.Flags().String("filter", "", "CEL filter (server-side)")
	cmd.Flags().Int("limit", 0, "Stop after N lines (0 = infinite)")
	cmd.Flags().Bool("json", false, "Print raw items as JSON instead of lines")
}

// NewTailCommand constructs the `tail` subcommand.
func NewTailCommand(baseURL BaseURLFunc) *cobra.Command {
	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow log lines as they are recorded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet,
				baseURL()+"/v1/log/tail"+logQuery(cmd), nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("http error: %s", resp.Status)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			sc := bufio.NewScanner(resp.Body)
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for sc.Scan() {
				text := sc.Text()
				if !strings.HasPrefix(text, "data: ") {
					continue
				}
				var it tailItem
				if err := json.Unmarshal([]byte(strings.TrimPrefix(text, "data: ")), &it); err != nil {
					continue
				}
				if asJSON {
					_ = enc.Encode(it)
					continue
				}
				if it.Lost {
					fmt.Fprintln(cmd.ErrOrStderr(), "netlog: records lost to eviction")
					continue
				}
				fmt.Fprint(cmd.OutOrStdout(), it.Line)
			}
			if err := sc.Err(); err != nil && cmd.Context().Err() == nil {
				return err
			}
			return nil
		},
	}
	addLogFlags(tailCmd)
	return tailCmd
}

// NewLinesCommand constructs the `lines` subcommand.
func NewLinesCommand(baseURL BaseURLFunc) *cobra.Command {
	linesCmd := &cobra.Command{
		Use:   "lines",
		Short: "Drain buffered log lines without following",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			var resp struct {
				Lines []tailItem `json:"lines"`
				Count int        `json:"count"`
			}
			if err := getJSON(cmd.Context(), baseURL()+"/v1/log/lines"+logQuery(cmd), &resp); err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			for _, it := range resp.Lines {
				if it.Lost {
					fmt.Fprintln(cmd.ErrOrStderr(), "netlog: records lost to eviction")
					continue
				}
				fmt.Fprint(cmd.OutOrStdout(), it.Line)
			}
			return nil
		},
	}
	addLogFlags(linesCmd)
	return linesCmd
}
