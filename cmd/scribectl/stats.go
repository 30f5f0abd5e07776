package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/af-corp/scribe/internal/generator"
	"github.com/spf13/cobra"
)

func newStatsCmd(client func() *apiClient) *cobra.Command {
	var byTemplate bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show generation statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats generator.Statistics
			if err := client().do("GET", "/v1/statistics", nil, &stats); err != nil {
				return err
			}

			if byTemplate {
				if len(stats.GenerationsByTemplate) == 0 {
					fmt.Println("No generations recorded.")
					return nil
				}
				names := make([]string, 0, len(stats.GenerationsByTemplate))
				for name := range stats.GenerationsByTemplate {
					names = append(names, name)
				}
				sort.Strings(names)

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TEMPLATE\tGENERATIONS\tCOST")
				for _, name := range names {
					fmt.Fprintf(w, "%s\t%d\t$%.6f\n",
						name, stats.GenerationsByTemplate[name], stats.CostByTemplate[name])
				}
				return w.Flush()
			}

			fmt.Printf("Total generations: %d\n", stats.TotalGenerations)
			fmt.Printf("Total cost:        $%.6f\n", stats.TotalCostUSD)
			fmt.Printf("Cache hits:        %d\n", stats.CacheHits)
			fmt.Printf("Cache misses:      %d\n", stats.CacheMisses)
			fmt.Printf("Cache hit rate:    %.1f%%\n", stats.CacheHitRate*100)
			fmt.Printf("Avg generation:    %.2fs\n", stats.AverageGenerationTime)
			return nil
		},
	}

	cmd.Flags().BoolVar(&byTemplate, "by-template", false, "break statistics down per template")
	return cmd
}
