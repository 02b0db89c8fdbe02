// Package jobs waits for engine jobs to reach a terminal state.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Quidge/dxenv/internal/delphix"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is the time between two polls of the same job.
const DefaultInterval = 10 * time.Second

// ErrTimeout is returned when a job is still running after Runner.Timeout.
var ErrTimeout = errors.New("timed out waiting for job")

// Getter reads the state of a job. *delphix.Client satisfies it.
type Getter interface {
	GetJob(ctx context.Context, ref string) (*delphix.Job, error)
}

// Runner polls jobs on one engine.
type Runner struct {
	Getter Getter

	// Interval between polls. Defaults to DefaultInterval.
	Interval time.Duration

	// Timeout bounds the wait for a single job. Zero waits forever.
	Timeout time.Duration

	Logger logrus.FieldLogger
}

// Wait polls ref until the job completes, fails, or ctx is done. A failed or
// canceled job is reported as *delphix.JobError. An empty ref means the
// engine finished the operation synchronously and returns immediately.
func (r *Runner) Wait(ctx context.Context, ref string) (*delphix.Job, error) {
	if ref == "" {
		return nil, nil
	}

	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := r.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("job", ref)

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	suspendedLogged := false
	for {
		job, err := r.Getter.GetJob(ctx, ref)
		if err != nil {
			if ctxErr := waitErr(ctx, ref); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to read job %s: %w", ref, err)
		}

		log.WithFields(logrus.Fields{
			"state":   job.JobState,
			"percent": job.PercentComplete,
		}).Debug("job progress")

		switch {
		case job.JobState == delphix.JobCompleted:
			log.Info("job completed")
			return job, nil
		case job.Failed():
			return job, &delphix.JobError{Job: job}
		case job.JobState == delphix.JobSuspended && !suspendedLogged:
			log.Warn("job is suspended on the engine, still waiting")
			suspendedLogged = true
		}

		select {
		case <-ctx.Done():
			return job, waitErr(ctx, ref)
		case <-ticker.C:
		}
	}
}

// WaitAll waits for each job in turn. Every job is waited on even after a
// failure; the failures are joined.
func (r *Runner) WaitAll(ctx context.Context, refs []string) error {
	var errs []error
	for _, ref := range refs {
		if _, err := r.Wait(ctx, ref); err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	return errors.Join(errs...)
}

// waitErr maps a finished context to the error reported for ref.
func waitErr(ctx context.Context, ref string) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w %s", ErrTimeout, ref)
	case ctx.Err() != nil:
		return fmt.Errorf("stopped waiting for job %s: %w", ref, ctx.Err())
	}
	return nil
}
