// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mounimanda/agripapers/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "agent_runs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func intp(v int) *int { return &v }

func samplePlan() []string {
	return []string{"Interpret goal", "Search", "Rank", "Summarize", "Store"}
}

func samplePapers() []types.PaperRecord {
	return []types.PaperRecord{
		{
			Title: "Newest", URL: "https://example.com/a", Year: intp(2025),
			Summary: "summary a",
			Raw:     types.NormalizedResult{Title: "Newest", URL: "https://example.com/a", Snippet: "arxiv paper", Year: intp(2025)},
		},
		{
			Title: "Middle", URL: "https://example.com/b", Year: intp(2023),
			Summary: "summary b",
			Raw:     types.NormalizedResult{Title: "Middle", URL: "https://example.com/b", Snippet: "journal", Year: intp(2023)},
		},
		{
			Title: "Undated", URL: "https://example.com/c", Year: nil,
			Summary: "summary c",
			Raw:     types.NormalizedResult{Title: "Undated", URL: "https://example.com/c", Snippet: "research"},
		},
	}
}

func TestCreateJobThenFetchReport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, "job-1", "user-1", "find papers", samplePlan()))

	report, err := s.FetchJobReport(ctx, "job-1")
	require.NoError(t, err)

	assert.Equal(t, "job-1", report.JobID)
	assert.Equal(t, "user-1", report.UserID)
	assert.Equal(t, "find papers", report.Goal)
	assert.Equal(t, types.StatusRunning, report.Status)
	assert.Equal(t, samplePlan(), report.Plan)
	assert.Empty(t, report.Papers)
}

func TestCreateJobDuplicate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, "job-1", "user-1", "goal", samplePlan()))

	err := s.CreateJob(ctx, "job-1", "user-1", "goal", samplePlan())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateJob)
}

func TestEnsureUserIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureUser(ctx, "user-1"))
	require.NoError(t, s.EnsureUser(ctx, "user-1"))

	// The user row must support two jobs without conflict.
	require.NoError(t, s.CreateJob(ctx, "job-1", "user-1", "goal", samplePlan()))
	require.NoError(t, s.CreateJob(ctx, "job-2", "user-1", "goal", samplePlan()))
}

func TestUpdateJobStatus(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, "job-1", "user-1", "goal", samplePlan()))
	require.NoError(t, s.UpdateJobStatus(ctx, "job-1", types.StatusCompleted))

	report, err := s.FetchJobReport(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, report.Status)
}

func TestUpdateJobStatusUnknownJob(t *testing.T) {
	s := testStore(t)

	err := s.UpdateJobStatus(context.Background(), "nope", types.StatusCompleted)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorePapersPreservesRankOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, "job-1", "user-1", "goal", samplePlan()))
	require.NoError(t, s.StorePapers(ctx, "job-1", samplePapers()))

	report, err := s.FetchJobReport(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, report.Papers, 3)

	for i, p := range report.Papers {
		assert.Equal(t, i+1, p.RankOrder)
	}
	assert.Equal(t, "Newest", report.Papers[0].Title)
	assert.Equal(t, "Middle", report.Papers[1].Title)
	assert.Equal(t, "Undated", report.Papers[2].Title)

	require.NotNil(t, report.Papers[0].Year)
	assert.Equal(t, 2025, *report.Papers[0].Year)
	assert.Nil(t, report.Papers[2].Year)
}

func TestStorePapersEmptyBatch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateJob(ctx, "job-1", "user-1", "goal", samplePlan()))
	require.NoError(t, s.StorePapers(ctx, "job-1", nil))

	report, err := s.FetchJobReport(ctx, "job-1")
	require.NoError(t, err)
	assert.Empty(t, report.Papers)
}

func TestStorePapersUnknownJobRollsBack(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// The foreign key on papers.job_id rejects the batch; nothing is kept.
	err := s.StorePapers(ctx, "nope", samplePapers())
	require.Error(t, err)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM papers`).Scan(&count))
	assert.Zero(t, count)
}

func TestFetchJobReportUnknownJob(t *testing.T) {
	s := testStore(t)

	_, err := s.FetchJobReport(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
