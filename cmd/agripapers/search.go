// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mounimanda/agripapers/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run the web search and ranking without summarizing or storing",
	Long: `Search issues the query against the configured provider, applies the
paper ranking heuristic, and prints the results. Nothing is summarized
or persisted; use this to inspect what a run would select.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	top, _ := cmd.Flags().GetInt("top")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()
	client := &http.Client{Timeout: cfg.Search.Timeout}

	ddg := &search.DuckDuckGoProvider{Client: client, UserAgent: cfg.Search.UserAgent}

	var primary search.Provider = ddg
	var fallback search.Provider
	if cfg.Search.Provider == "google" {
		primary = &search.GoogleProvider{
			APIKey:    cfg.Search.GoogleAPIKey,
			CSEID:     cfg.Search.GoogleCSEID,
			Client:    client,
			UserAgent: cfg.Search.UserAgent,
		}
		fallback = ddg
	}

	ctx := context.Background()
	results, err := primary.Search(ctx, query, cfg.Search.MaxResults)
	if err != nil {
		return err
	}
	if len(results) == 0 && primary.CredentialGated() && fallback != nil {
		results, err = fallback.Search(ctx, query, cfg.Search.MaxResults)
		if err != nil {
			return err
		}
	}

	selected := search.PickTopRecent(results, top)

	if jsonOutput {
		return search.FormatJSON(selected, os.Stdout)
	}
	search.FormatTable(selected, os.Stdout)
	return nil
}

func init() {
	searchCmd.Flags().String("query", "recent AI research papers in agriculture arxiv journal", "search query")
	searchCmd.Flags().Int("top", 3, "number of top results to keep after ranking")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
