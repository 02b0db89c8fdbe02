package state

import (
	"fmt"
	"strings"
)

// ListOptions specifies filters for listing jobs.
type ListOptions struct {
	Engine   string      // Filter by engine hostname (exact match)
	Action   string      // Filter by action
	Statuses []JobStatus // Filter by status (any of these)
	Limit    int         // Maximum rows, newest first; 0 means no limit
}

// where builds the WHERE clause and its arguments for opts.
func (opts ListOptions) where() (string, []any) {
	var conditions []string
	var args []any

	if opts.Engine != "" {
		conditions = append(conditions, "engine = ?")
		args = append(args, opts.Engine)
	}

	if opts.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, opts.Action)
	}

	if len(opts.Statuses) > 0 {
		// One "?" placeholder per status; values go through args.
		placeholders := make([]string, len(opts.Statuses))
		for i, s := range opts.Statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListJobs returns all jobs matching the given filters, newest first.
// If no filters are specified, returns all jobs.
func (db *DB) ListJobs(opts ListOptions) ([]*Job, error) {
	where, args := opts.where()
	query := `SELECT ` + jobColumns + ` FROM jobs` + where + ` ORDER BY started_at DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// CountJobs returns the number of jobs matching the given filters.
func (db *DB) CountJobs(opts ListOptions) (int, error) {
	where, args := opts.where()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM jobs"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	return count, nil
}
