package main

import (
	"fmt"

	"github.com/af-corp/scribe/internal/types"
	"github.com/spf13/cobra"
)

func newVariationsCmd(client func() *apiClient) *cobra.Command {
	var (
		vars      []string
		count     int
		tempMin   float64
		tempMax   float64
		maxTokens int
	)

	cmd := &cobra.Command{
		Use:   "variations <template>",
		Short: "Generate several variations of the same template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variables, err := parseVars(vars)
			if err != nil {
				return err
			}

			req := types.VariationsRequest{
				TemplateName:   args[0],
				Variables:      variables,
				Count:          count,
				TemperatureMin: tempMin,
				TemperatureMax: tempMax,
			}
			if cmd.Flags().Changed("max-tokens") {
				req.MaxTokens = &maxTokens
			}

			var resp struct {
				Variations []types.GenerationResult `json:"variations"`
				Count      int                      `json:"count"`
			}
			if err := client().do("POST", "/v1/variations", req, &resp); err != nil {
				return err
			}

			for i, result := range resp.Variations {
				fmt.Printf("--- variation %d (temperature %.2f) ---\n", i+1, result.Temperature)
				fmt.Println(result.Content)
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable as key=value (repeatable)")
	cmd.Flags().IntVarP(&count, "count", "n", 3, "number of variations")
	cmd.Flags().Float64Var(&tempMin, "temp-min", 0.5, "low end of the temperature sweep")
	cmd.Flags().Float64Var(&tempMax, "temp-max", 1.0, "high end of the temperature sweep")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "completion token limit")
	return cmd
}
