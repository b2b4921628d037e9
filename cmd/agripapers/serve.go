// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mounimanda/agripapers/internal/agent"
	"github.com/mounimanda/agripapers/internal/store"
	"github.com/mounimanda/agripapers/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive web form",
	Long: `Serve starts a local web UI with the same two inputs as the run
command (user id and goal). Submitting the form runs the workflow and
renders the job report with a downloadable JSON copy.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	cfg := loadConfig()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	a := agent.New(cfg, st, logger)
	srv, err := web.NewServer(a, st, logger)
	if err != nil {
		return err
	}

	return srv.ListenAndServe(addr)
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address for the web UI")

	rootCmd.AddCommand(serveCmd)
}
