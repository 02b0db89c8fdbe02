package delphix

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDelphix is the sentinel wrapped by action-level failures so callers can
// classify them without caring about the underlying request error.
var ErrDelphix = errors.New("delphix error")

// ErrNotFound is matched by ObjectNotFoundError via errors.Is.
var ErrNotFound = errors.New("object not found")

// APIError is returned when the engine answers with an ErrorResult envelope.
type APIError struct {
	Path          string
	ID            string
	Details       string
	Action        string
	CommandOutput string
}

func (e *APIError) Error() string {
	var sb strings.Builder
	sb.WriteString("engine error")
	if e.Path != "" {
		sb.WriteString(" on ")
		sb.WriteString(e.Path)
	}
	if e.ID != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", e.ID))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Details)
	if e.Action != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Action)
		sb.WriteString(")")
	}
	return sb.String()
}

// HTTPError is returned when the request fails at the transport level or the
// engine answers with a non-2xx status and no result envelope.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Method, e.Path, e.Status)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// JobError is returned when a job ends in the FAILED or CANCELED state.
type JobError struct {
	Job *Job
}

func (e *JobError) Error() string {
	if e.Job == nil {
		return "job failed"
	}
	msg := fmt.Sprintf("job %s %s", e.Job.Reference, strings.ToLower(e.Job.JobState))
	if e.Job.Title != "" {
		msg += fmt.Sprintf(" (%s)", e.Job.Title)
	}
	if detail := e.Job.LastMessage(); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// ObjectNotFoundError is returned by the lookup helpers when no object
// carries the requested name or reference.
type ObjectNotFoundError struct {
	Kind string
	Name string
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("%s was not found in the engine: %s", e.Kind, e.Name)
}

func (e *ObjectNotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrDelphix
}

// IsRequestError reports whether err came from talking to the engine, as
// opposed to a local validation failure.
func IsRequestError(err error) bool {
	var apiErr *APIError
	var httpErr *HTTPError
	return errors.As(err, &apiErr) || errors.As(err, &httpErr)
}
