// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent sequences the find-summarize-store workflow: create a
// job, search with a single fallback, rank, summarize, persist, report.
package agent

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mounimanda/agripapers/internal/search"
	"github.com/mounimanda/agripapers/internal/store"
	"github.com/mounimanda/agripapers/internal/summarize"
	"github.com/mounimanda/agripapers/pkg/types"
)

// searchQuery is the fixed query issued for every job.
const searchQuery = "recent AI research papers in agriculture arxiv journal"

// topK is the number of papers selected per job.
const topK = 3

// Agent runs one job at a time, sequentially. Collaborator failures
// propagate to the caller; the only recovery behavior is a single
// fallback search when a credential-gated primary returns nothing.
type Agent struct {
	Store      *store.Store
	Primary    search.Provider
	Fallback   search.Provider
	Summarizer summarize.Summarizer
	MaxResults int
	Log        zerolog.Logger
}

// New wires an agent from config. Provider "google" gets the DuckDuckGo
// fallback; any other selection runs DuckDuckGo as primary with no
// fallback.
func New(cfg types.Config, st *store.Store, logger zerolog.Logger) *Agent {
	client := &http.Client{Timeout: cfg.Search.Timeout}

	ddg := &search.DuckDuckGoProvider{Client: client, UserAgent: cfg.Search.UserAgent}

	// The summarizer gets the default client: model generation can
	// legitimately outlast the search timeout.
	a := &Agent{
		Store:      st,
		Primary:    ddg,
		Summarizer: summarize.NewOllamaSummarizer(cfg.Summarizer, nil),
		MaxResults: cfg.Search.MaxResults,
		Log:        logger.With().Str("component", "agent").Logger(),
	}

	if cfg.Search.Provider == "google" {
		a.Primary = &search.GoogleProvider{
			APIKey:    cfg.Search.GoogleAPIKey,
			CSEID:     cfg.Search.GoogleCSEID,
			Client:    client,
			UserAgent: cfg.Search.UserAgent,
		}
		a.Fallback = ddg
	}

	return a
}

// BuildPlan returns the deterministic step decomposition recorded with
// each job.
func BuildPlan(goal string) []string {
	return []string{
		fmt.Sprintf("Interpret goal: %s", goal),
		"Search the web for recent AI research papers related to agriculture",
		fmt.Sprintf("Rank and select the top %d recent papers", topK),
		"Summarize each paper with an agriculture impact lens",
		"Store result in SQLite and return structured output",
	}
}

// Run executes the full workflow for one user and goal, returning the
// stored job report. Papers are written all-or-nothing: a summarization
// failure partway through leaves no papers persisted for the job.
func (a *Agent) Run(ctx context.Context, userID, goal string) (*types.JobReport, error) {
	jobID := uuid.NewString()
	log := a.Log.With().Str("job_id", jobID).Str("user_id", userID).Logger()

	if err := a.Store.CreateJob(ctx, jobID, userID, goal, BuildPlan(goal)); err != nil {
		return nil, err
	}
	log.Info().Str("goal", goal).Msg("job created")

	results, err := a.Primary.Search(ctx, searchQuery, a.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("searching with %s: %w", a.Primary.Name(), err)
	}
	log.Info().Str("provider", a.Primary.Name()).Int("results", len(results)).Msg("search done")

	if len(results) == 0 && a.Primary.CredentialGated() && a.Fallback != nil {
		results, err = a.Fallback.Search(ctx, searchQuery, a.MaxResults)
		if err != nil {
			return nil, fmt.Errorf("searching with %s: %w", a.Fallback.Name(), err)
		}
		log.Info().Str("provider", a.Fallback.Name()).Int("results", len(results)).Msg("fallback search done")
	}

	selected := search.PickTopRecent(results, topK)

	papers := make([]types.PaperRecord, 0, len(selected))
	for _, r := range selected {
		summary, err := a.Summarizer.Summarize(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("summarizing %q: %w", r.Title, err)
		}
		log.Info().Str("title", r.Title).Msg("paper summarized")
		papers = append(papers, types.PaperRecord{
			Title:   r.Title,
			URL:     r.URL,
			Year:    r.Year,
			Summary: summary,
			Raw:     r,
		})
	}

	if err := a.Store.StorePapers(ctx, jobID, papers); err != nil {
		return nil, err
	}
	if err := a.Store.UpdateJobStatus(ctx, jobID, types.StatusCompleted); err != nil {
		return nil, err
	}
	log.Info().Int("papers", len(papers)).Msg("job completed")

	return a.Store.FetchJobReport(ctx, jobID)
}
