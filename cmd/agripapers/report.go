// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/mounimanda/agripapers/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report [job-id]",
	Short: "Fetch the stored report for a job",
	Long: `Report retrieves the stored report for a previously run job: its
metadata, plan, and papers in rank order.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg := loadConfig()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := st.FetchJobReport(context.Background(), args[0])
	if err != nil {
		return err
	}

	switch format {
	case "text", "":
		printReport(os.Stdout, report)
	case "json":
		return printReportJSON(os.Stdout, report)
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		os.Stdout.Write(data)
	default:
		return fmt.Errorf("unsupported format %q: use text, json, or yaml", format)
	}
	return nil
}

func init() {
	reportCmd.Flags().String("format", "text", "output format: text, json, or yaml")

	rootCmd.AddCommand(reportCmd)
}
