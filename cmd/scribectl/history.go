package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/af-corp/scribe/internal/types"
	"github.com/spf13/cobra"
)

func newHistoryCmd(client func() *apiClient) *cobra.Command {
	var (
		templateName string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if templateName != "" {
				query.Set("template", templateName)
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			path := "/v1/history"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var resp struct {
				History []types.GenerationResult `json:"history"`
				Count   int                      `json:"count"`
			}
			if err := client().do("GET", path, nil, &resp); err != nil {
				return err
			}
			if len(resp.History) == 0 {
				fmt.Println("No history found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tTEMPLATE\tMODEL\tTOKENS\tCOST\tCACHED")
			for _, r := range resp.History {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t$%.6f\t%t\n",
					r.Timestamp.Format("2006-01-02T15:04:05"), r.TemplateName, r.Model,
					r.TokensUsed.TotalTokens, r.CostUSD, r.Cached)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&templateName, "template", "", "filter by template name")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many entries")
	return cmd
}
