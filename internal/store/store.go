// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists jobs and their papers in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/mounimanda/agripapers/pkg/types"
)

var (
	// ErrNotFound is returned when a job_id does not exist.
	ErrNotFound = errors.New("job not found")

	// ErrDuplicateJob is returned when a job_id already exists on create.
	// Job IDs are random UUIDs, so this is a defensive check.
	ErrDuplicateJob = errors.New("job already exists")
)

// Store manages the jobs database. Each operation opens its own
// transactional scope; no transaction spans calls. The database is
// assumed single-writer.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			job_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(user_id),
			goal TEXT NOT NULL,
			plan_json TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT NOT NULL REFERENCES jobs(job_id),
			rank_order INTEGER NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			year INTEGER,
			summary TEXT NOT NULL,
			raw_json TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_job_id ON papers(job_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// EnsureUser inserts a user row if one does not already exist. Calling
// it for a known user is a no-op.
func (s *Store) EnsureUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (user_id, created_at) VALUES (?, ?)`,
		userID, now(),
	)
	if err != nil {
		return fmt.Errorf("ensuring user %s: %w", userID, err)
	}
	return nil
}

// CreateJob inserts a new job with status running. The user row is
// created first so the jobs foreign key holds. A colliding job_id
// returns ErrDuplicateJob.
func (s *Store) CreateJob(ctx context.Context, jobID, userID, goal string, plan []string) error {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return err
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}

	ts := now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (job_id, user_id, goal, plan_json, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		jobID, userID, goal, string(planJSON), string(types.StatusRunning), ts, ts,
	)
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("job %s: %w", jobID, ErrDuplicateJob)
		}
		return fmt.Errorf("creating job %s: %w", jobID, err)
	}
	return nil
}

// UpdateJobStatus sets the job status and refreshes updated_at. An
// unknown job_id returns ErrNotFound rather than silently updating
// nothing.
func (s *Store) UpdateJobStatus(ctx context.Context, jobID string, status types.JobStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE job_id = ?`,
		string(status), now(), jobID,
	)
	if err != nil {
		return fmt.Errorf("updating job %s: %w", jobID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating job %s: %w", jobID, err)
	}
	if rows == 0 {
		return fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	return nil
}

// StorePapers inserts the papers for a job in a single transaction,
// assigning rank_order from the 1-based input position. Either every
// paper is stored or none is.
func (s *Store) StorePapers(ctx context.Context, jobID string, papers []types.PaperRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (job_id, rank_order, title, url, year, summary, raw_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, paper := range papers {
		rawJSON, err := json.Marshal(paper.Raw)
		if err != nil {
			return fmt.Errorf("marshaling paper %d: %w", i+1, err)
		}
		_, err = stmt.ExecContext(ctx,
			jobID, i+1, paper.Title, paper.URL, nullableYear(paper.Year),
			paper.Summary, string(rawJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting paper %d for job %s: %w", i+1, jobID, err)
		}
	}

	return tx.Commit()
}

// FetchJobReport returns the job metadata and its papers ordered by
// rank_order ascending. An unknown job_id returns ErrNotFound.
func (s *Store) FetchJobReport(ctx context.Context, jobID string) (*types.JobReport, error) {
	report := &types.JobReport{JobID: jobID}

	var planJSON, status string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, goal, plan_json, status FROM jobs WHERE job_id = ?`, jobID,
	).Scan(&report.UserID, &report.Goal, &planJSON, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", jobID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching job %s: %w", jobID, err)
	}
	report.Status = types.JobStatus(status)

	if err := json.Unmarshal([]byte(planJSON), &report.Plan); err != nil {
		return nil, fmt.Errorf("parsing plan for job %s: %w", jobID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT rank_order, title, url, year, summary FROM papers
		 WHERE job_id = ? ORDER BY rank_order`, jobID)
	if err != nil {
		return nil, fmt.Errorf("fetching papers for job %s: %w", jobID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p types.ReportPaper
		var year sql.NullInt64
		if err := rows.Scan(&p.RankOrder, &p.Title, &p.URL, &year, &p.Summary); err != nil {
			return nil, fmt.Errorf("scanning paper for job %s: %w", jobID, err)
		}
		if year.Valid {
			y := int(year.Int64)
			p.Year = &y
		}
		report.Papers = append(report.Papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching papers for job %s: %w", jobID, err)
	}

	return report, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullableYear(year *int) any {
	if year == nil {
		return nil
	}
	return *year
}

// isConstraintErr reports whether err is a SQLite constraint violation
// (primary key or foreign key).
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
