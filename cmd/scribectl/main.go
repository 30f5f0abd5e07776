package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var (
		serverURL string
		apiKey    string
	)

	root := &cobra.Command{
		Use:     "scribectl",
		Short:   "Command line client for the scribe content generation service",
		Version: version,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", envOr("SCRIBE_SERVER", "http://localhost:8080"), "base URL of the scribe server")
	root.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("SCRIBE_API_KEY"), "API key for authenticated servers")

	client := func() *apiClient {
		return newAPIClient(serverURL, apiKey)
	}

	root.AddCommand(
		newGenerateCmd(client),
		newVariationsCmd(client),
		newTemplatesCmd(client),
		newStatsCmd(client),
		newHistoryCmd(client),
		newKeygenCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
