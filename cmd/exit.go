package cmd

import (
	"context"
	"errors"

	"github.com/Quidge/dxenv/internal/delphix"
	"github.com/Quidge/dxenv/internal/environment"
	"github.com/Quidge/dxenv/internal/jobs"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 1
	ExitEngine      = 2
	ExitJobFailed   = 3
	ExitInterrupted = 130
)

// ExitCode maps an error returned by a command to the process exit code.
// A failed job outranks an interrupt, an interrupt outranks any other engine
// error, and any engine error outranks usage and configuration errors.
// Parameters an action rejects count as engine errors; an unknown --type
// does not.
func ExitCode(err error) int {
	var jobErr *delphix.JobError
	var httpErr *delphix.HTTPError
	var apiErr *delphix.APIError

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &jobErr):
		return ExitJobFailed
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, delphix.ErrDelphix),
		errors.Is(err, delphix.ErrNotFound),
		errors.Is(err, environment.ErrInvalidParams),
		errors.Is(err, jobs.ErrTimeout),
		errors.As(err, &httpErr),
		errors.As(err, &apiErr):
		return ExitEngine
	default:
		return ExitUsage
	}
}
