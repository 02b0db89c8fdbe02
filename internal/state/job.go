package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// JobStatus is the outcome of one action on one engine.
type JobStatus string

const (
	// JobRunning means the action was submitted and is not finished yet.
	JobRunning JobStatus = "running"

	// JobCompleted means the action and every engine job it started completed.
	JobCompleted JobStatus = "completed"

	// JobFailed means an engine job reported FAILED.
	JobFailed JobStatus = "failed"

	// JobCanceled means an engine job was canceled or the wait was interrupted.
	JobCanceled JobStatus = "canceled"

	// JobError means the action failed before or while talking to the engine.
	JobError JobStatus = "error"
)

// ValidStatuses contains all valid job status values.
var ValidStatuses = []JobStatus{
	JobRunning,
	JobCompleted,
	JobFailed,
	JobCanceled,
	JobError,
}

// IsValidStatus returns true if s is a valid status.
func IsValidStatus(s JobStatus) bool {
	for _, valid := range ValidStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// Job is one action run against one engine.
type Job struct {
	ID     string    // 32 hex chars
	Engine string    // Engine hostname from dxtools.conf
	Action string    // create, delete, refresh, ...
	Target string    // Environment name or host address (may be empty)
	JobRef string    // Last engine job reference (may be empty)
	Status JobStatus // Current status
	Error  string    // Failure message (may be empty)

	StartedAt  time.Time
	FinishedAt time.Time // Zero while running
}

// Finished reports whether the job reached a final status.
func (j *Job) Finished() bool {
	return j.Status != JobRunning
}

// Duration returns how long the job ran, or has been running.
func (j *Job) Duration() time.Duration {
	if j.FinishedAt.IsZero() {
		return time.Since(j.StartedAt)
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// ErrJobNotFound is returned when a job with the given ID does not exist.
var ErrJobNotFound = errors.New("job not found")

// ErrAmbiguousPrefix is returned when an ID prefix matches multiple jobs.
var ErrAmbiguousPrefix = errors.New("ambiguous job ID prefix")

// AmbiguousPrefixError is returned when an ID prefix matches multiple jobs.
// It includes the list of matching jobs for better error messages.
type AmbiguousPrefixError struct {
	Prefix  string
	Matches []*Job
}

func (e *AmbiguousPrefixError) Error() string {
	return fmt.Sprintf("%s: '%s' matches %d jobs", ErrAmbiguousPrefix.Error(), e.Prefix, len(e.Matches))
}

func (e *AmbiguousPrefixError) Unwrap() error {
	return ErrAmbiguousPrefix
}

// ErrInvalidPrefix is returned when an ID prefix contains non-hex characters.
var ErrInvalidPrefix = errors.New("invalid ID prefix: must contain only hexadecimal characters")

// ErrInvalidStatus is returned when an invalid status is provided.
var ErrInvalidStatus = errors.New("invalid status")

// isHexString returns true if s contains only hexadecimal characters.
func isHexString(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

const jobColumns = `id, engine, action, target, job_ref, status, error, started_at, finished_at`

// CreateJob inserts a new job into the database.
func (db *DB) CreateJob(job *Job) error {
	if !IsValidStatus(job.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, job.Status)
	}

	_, err := db.Exec(`
		INSERT INTO jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Engine,
		job.Action,
		nullString(job.Target),
		nullString(job.JobRef),
		string(job.Status),
		nullString(job.Error),
		formatTime(job.StartedAt),
		nullTime(job.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by full ID.
func (db *DB) GetJob(id string) (*Job, error) {
	row := db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// GetJobByPrefix retrieves a job by ID prefix.
// Returns ErrJobNotFound if no match, ErrAmbiguousPrefix if multiple matches,
// or ErrInvalidPrefix if the prefix contains non-hex characters.
func (db *DB) GetJobByPrefix(prefix string) (*Job, error) {
	if prefix == "" || !isHexString(prefix) {
		return nil, ErrInvalidPrefix
	}

	rows, err := db.Query(`SELECT `+jobColumns+` FROM jobs WHERE id LIKE ? || '%'`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, err
	}

	switch len(jobs) {
	case 0:
		return nil, ErrJobNotFound
	case 1:
		return jobs[0], nil
	default:
		return nil, &AmbiguousPrefixError{Prefix: prefix, Matches: jobs}
	}
}

// UpdateJob updates an existing job.
func (db *DB) UpdateJob(job *Job) error {
	if !IsValidStatus(job.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, job.Status)
	}

	result, err := db.Exec(`
		UPDATE jobs SET
			target = ?,
			job_ref = ?,
			status = ?,
			error = ?,
			finished_at = ?
		WHERE id = ?`,
		nullString(job.Target),
		nullString(job.JobRef),
		string(job.Status),
		nullString(job.Error),
		nullTime(job.FinishedAt),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return checkAffected(result)
}

// FinishJob records the final status of a job. A nil cause clears the error.
func (db *DB) FinishJob(job *Job, status JobStatus, cause error) error {
	job.Status = status
	job.FinishedAt = time.Now()
	job.Error = ""
	if cause != nil {
		job.Error = cause.Error()
	}
	return db.UpdateJob(job)
}

// DeleteJob removes a job from the database.
func (db *DB) DeleteJob(id string) error {
	result, err := db.Exec("DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return checkAffected(result)
}

// PruneJobs removes finished jobs that started before cutoff and returns how
// many were removed.
func (db *DB) PruneJobs(cutoff time.Time) (int64, error) {
	result, err := db.Exec(
		"DELETE FROM jobs WHERE status != ? AND started_at < ?",
		string(JobRunning), formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune jobs: %w", err)
	}
	return result.RowsAffected()
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrJobNotFound
	}
	return nil
}

// scanner is an interface for sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanJob scans a row into a Job struct.
func scanJob(s scanner) (*Job, error) {
	var job Job
	var target, jobRef, errMsg, finishedAt sql.NullString
	var startedAt string

	err := s.Scan(
		&job.ID,
		&job.Engine,
		&job.Action,
		&target,
		&jobRef,
		&job.Status,
		&errMsg,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Target = target.String
	job.JobRef = jobRef.String
	job.Error = errMsg.String

	job.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if finishedAt.Valid {
		job.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
	}

	return &job, nil
}

func scanJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}
	return jobs, nil
}

// nullString converts an empty string to sql.NullString for optional fields.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timeFormat has a fixed width so stored times sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}
