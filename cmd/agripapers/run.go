// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mounimanda/agripapers/internal/agent"
	"github.com/mounimanda/agripapers/internal/store"
	"github.com/mounimanda/agripapers/pkg/types"
)

const defaultGoal = "Find the top 3 recent AI research papers on agriculture, summarize them, and store output."

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the find-summarize-store workflow for a user",
	Long: `Run creates a job, searches the web for recent AI research papers on
agriculture, selects the top 3 by publication recency, summarizes each
with the configured Ollama model, stores the result, and prints the job
report.

The search uses the configured primary provider. When Google is the
primary and returns nothing (typically missing credentials), a single
DuckDuckGo fallback search is made.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	goal, _ := cmd.Flags().GetString("goal")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	a := agent.New(cfg, st, logger)
	report, err := a.Run(context.Background(), userID, goal)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printReportJSON(os.Stdout, report)
	}
	printReport(os.Stdout, report)
	return nil
}

// printReport writes the job report as formatted text.
func printReport(w io.Writer, report *types.JobReport) {
	fmt.Fprintf(w, "Job:    %s\n", report.JobID)
	fmt.Fprintf(w, "User:   %s\n", report.UserID)
	fmt.Fprintf(w, "Status: %s\n", report.Status)
	fmt.Fprintf(w, "Goal:   %s\n\n", report.Goal)

	fmt.Fprintln(w, "Plan:")
	for i, step := range report.Plan {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}

	if len(report.Papers) == 0 {
		fmt.Fprintln(w, "\nNo papers stored.")
		return
	}

	for _, p := range report.Papers {
		fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 72))
		year := "?"
		if p.Year != nil {
			year = fmt.Sprintf("%d", *p.Year)
		}
		fmt.Fprintf(w, "%d. %s (%s)\n", p.RankOrder, p.Title, year)
		fmt.Fprintf(w, "   %s\n\n", p.URL)
		fmt.Fprintln(w, p.Summary)
	}
}

func printReportJSON(w io.Writer, report *types.JobReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func init() {
	runCmd.Flags().String("user", "", "user identifier for stateful execution")
	runCmd.Flags().String("goal", defaultGoal, "goal to execute")
	runCmd.Flags().Bool("json", false, "output the report as JSON")
	runCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(runCmd)
}
