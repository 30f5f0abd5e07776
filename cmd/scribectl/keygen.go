package main

import (
	"fmt"

	"github.com/af-corp/scribe/internal/auth"
	"github.com/spf13/cobra"
)

func newKeygenCmd() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an API key and its configuration digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rawKey, err := auth.GenerateKey(env)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}

			fmt.Println("API key (give this to the caller, it is not recoverable):")
			fmt.Printf("  %s\n\n", rawKey)
			fmt.Println("SHA-256 digest (add to auth.api_keys in scribe.yaml):")
			fmt.Printf("  %s\n\n", auth.HashKey(rawKey))
			fmt.Printf("Prefix for logs and audit trails: %s\n", auth.KeyPrefix(rawKey))
			return nil
		},
	}

	cmd.Flags().StringVar(&env, "env", "prod", "environment prefix embedded in the key")
	return cmd
}
