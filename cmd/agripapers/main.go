// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the agripapers CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mounimanda/agripapers/internal/secrets"
	"github.com/mounimanda/agripapers/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the agripapers CLI.
var rootCmd = &cobra.Command{
	Use:   "agripapers",
	Short: "Find, summarize, and store agriculture AI research papers",
	Long: `agripapers runs a single linear workflow: search the web for recent AI
research papers related to agriculture, rank and select the top 3 by
recency, summarize each with a local Ollama model, and persist the job
and its papers to a SQLite database.

Use "run" to execute the workflow, "report" to re-fetch a stored job
report, and "serve" to start the interactive web form.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./agripapers.yaml or ~/.config/agripapers/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("agripapers")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "agripapers"))
		}
	}

	viper.SetEnvPrefix("AGRIPAPERS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("search.provider", "google")
	viper.SetDefault("search.max_results", 12)
	viper.SetDefault("search.timeout", 30*time.Second)
	viper.SetDefault("search.user_agent", "agripapers/"+version)
	viper.SetDefault("summarizer.host", "http://localhost:11434")
	viper.SetDefault("summarizer.model", "llama3.1")
	viper.SetDefault("store.path", "agent_runs.db")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the full configuration from viper, filling in
// Google credentials from .secrets/ when the config and environment
// leave them blank.
func loadConfig() types.Config {
	return types.Config{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			Provider:     viper.GetString("search.provider"),
			MaxResults:   viper.GetInt("search.max_results"),
			GoogleAPIKey: secretDefault("google-api-key", viper.GetString("search.google_api_key")),
			GoogleCSEID:  secretDefault("google-cse-id", viper.GetString("search.google_cse_id")),
		},
		Summarizer: types.SummarizerConfig{
			Host:  viper.GetString("summarizer.host"),
			Model: viper.GetString("summarizer.model"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
