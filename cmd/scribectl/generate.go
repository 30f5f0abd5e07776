package main

import (
	"fmt"
	"strings"

	"github.com/af-corp/scribe/internal/types"
	"github.com/spf13/cobra"
)

func newGenerateCmd(client func() *apiClient) *cobra.Command {
	var (
		vars        []string
		temperature float64
		maxTokens   int
		noCache     bool
		estimate    bool
	)

	cmd := &cobra.Command{
		Use:   "generate <template>",
		Short: "Generate content from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variables, err := parseVars(vars)
			if err != nil {
				return err
			}

			req := types.GenerationRequest{
				TemplateName: args[0],
				Variables:    variables,
			}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &temperature
			}
			if cmd.Flags().Changed("max-tokens") {
				req.MaxTokens = &maxTokens
			}
			if noCache {
				useCache := false
				req.UseCache = &useCache
			}

			if estimate {
				var est types.CostEstimate
				if err := client().do("POST", "/v1/estimate", req, &est); err != nil {
					return err
				}
				fmt.Printf("Model:             %s\n", est.Model)
				fmt.Printf("Prompt tokens:     ~%d\n", est.EstimatedPromptTokens)
				fmt.Printf("Completion tokens: ~%d\n", est.EstimatedCompletionTokens)
				fmt.Printf("Estimated cost:    $%.6f\n", est.EstimatedCostUSD)
				return nil
			}

			var result types.GenerationResult
			if err := client().do("POST", "/v1/generate", req, &result); err != nil {
				return err
			}

			fmt.Println(result.Content)
			fmt.Println()
			source := "provider"
			if result.Cached {
				source = "cache"
			}
			fmt.Printf("[%s | %s | %d tokens | $%.6f | %.2fs | %s]\n",
				result.TemplateName, result.Model, result.TokensUsed.TotalTokens,
				result.CostUSD, result.GenerationTime, source)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable as key=value (repeatable)")
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "sampling temperature (0 to 2)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "completion token limit")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	cmd.Flags().BoolVar(&estimate, "estimate", false, "estimate cost without generating")
	return cmd
}

func parseVars(vars []string) (map[string]string, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	variables := make(map[string]string, len(vars))
	for _, v := range vars {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", v)
		}
		variables[key] = value
	}
	return variables, nil
}
