// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// JobStatus is the lifecycle state of a job. The only transition is
// StatusRunning to StatusCompleted; there is no failure or retry state.
type JobStatus string

const (
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
)

// PaperRecord is one selected and summarized paper, written to the store
// once per job and never mutated afterwards.
type PaperRecord struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Year    *int   `json:"year" yaml:"year"`
	Summary string `json:"summary" yaml:"summary"`

	// Raw preserves the originating search result for audit.
	Raw NormalizedResult `json:"raw" yaml:"raw"`
}

// ReportPaper is one paper as returned in a job report, ordered by
// RankOrder ascending. RankOrder is the 1-based selection position
// assigned at storage time.
type ReportPaper struct {
	RankOrder int    `json:"rank_order" yaml:"rank_order"`
	Title     string `json:"title" yaml:"title"`
	URL       string `json:"url" yaml:"url"`
	Year      *int   `json:"year" yaml:"year"`
	Summary   string `json:"summary" yaml:"summary"`
}

// JobReport is the structured snapshot of one job: its metadata, plan,
// and papers in rank order.
type JobReport struct {
	JobID  string        `json:"job_id" yaml:"job_id"`
	UserID string        `json:"user_id" yaml:"user_id"`
	Goal   string        `json:"goal" yaml:"goal"`
	Status JobStatus     `json:"status" yaml:"status"`
	Plan   []string      `json:"plan" yaml:"plan"`
	Papers []ReportPaper `json:"papers" yaml:"papers"`
}
