package env

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Quidge/dxenv/internal/config"
	"github.com/Quidge/dxenv/internal/delphix"
	"github.com/Quidge/dxenv/internal/dispatch"
	"github.com/Quidge/dxenv/internal/environment"
	"github.com/Quidge/dxenv/internal/jobs"
	"github.com/Quidge/dxenv/internal/logging"
	"github.com/Quidge/dxenv/internal/settings"
	"github.com/Quidge/dxenv/internal/state"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// action is one environment operation run against a single engine.
type action struct {
	// Name is recorded in the job ledger and in log lines.
	Name string

	// Target is the environment name or host address acted on.
	Target string

	Run func(ctx context.Context, svc *environment.Service) (*environment.Result, error)
}

// outcome is what one engine reports back.
type outcome = dispatch.Outcome[*environment.Result]

// runner carries everything a per-engine worker needs.
type runner struct {
	settings *settings.Settings
	log      *logrus.Logger
	ledger   *state.DB
	act      action
}

// execute runs act against every selected engine and returns the outcomes
// in configuration order. The returned error joins the failures of all
// engines, each prefixed with the engine name.
func execute(cmd *cobra.Command, act action) ([]outcome, error) {
	s, err := settings.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.Setup(logging.Config{
		Path:    s.LogPath,
		Debug:   s.Debug,
		Format:  s.LogFormat,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	defer closeLog()

	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return nil, err
	}
	engines, err := cfg.Select(s.Selection())
	if err != nil {
		return nil, err
	}

	// The ledger is a convenience; a broken one must not stop the run.
	ledger, err := state.Open(s.StateDB)
	if err != nil {
		log.WithError(err).Warn("job ledger unavailable, jobs will not be recorded")
		ledger = nil
	} else {
		defer ledger.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{settings: s, log: log, ledger: ledger, act: act}

	start := time.Now()
	log.WithFields(logrus.Fields{
		"action":  act.Name,
		"target":  act.Target,
		"engines": config.Hostnames(engines),
	}).Info("starting")

	outcomes := dispatch.Collect(dispatch.Run(ctx, engines, engineName, s.Parallel, r.work))

	var errs []error
	for _, o := range outcomes {
		elog := logging.ForEngine(log, o.Target).WithField("elapsed", o.Elapsed.Round(time.Millisecond).String())
		if o.Err != nil {
			elog.WithError(o.Err).Errorf("%s failed", act.Name)
			errs = append(errs, fmt.Errorf("%s: %w", o.Target, o.Err))
			continue
		}
		elog.Infof("%s finished", act.Name)
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	if ctx.Err() != nil {
		log.WithField("elapsed", elapsed.String()).Warn("interrupted")
	} else {
		log.WithField("elapsed", elapsed.String()).Info("total elapsed time")
	}

	return outcomes, errors.Join(errs...)
}

func engineName(e config.Engine) string {
	return e.Hostname
}

// newClient builds the API client for one engine.
func newClient(e config.Engine, log logrus.FieldLogger) *delphix.Client {
	return delphix.NewClient(delphix.Options{
		BaseURL:            e.URL(),
		Username:           e.Username,
		Password:           e.Password,
		Domain:             e.Domain,
		InsecureSkipVerify: bool(e.InsecureSkipVerify),
		Logger:             log,
	})
}

// work is the per-engine worker: log in, run the action, wait for the jobs
// it started and record the outcome in the ledger.
func (r *runner) work(ctx context.Context, e config.Engine) (*environment.Result, error) {
	log := logging.ForEngine(r.log, e.Hostname)
	entry := r.record(log, e.Hostname)

	client := newClient(e, log)
	defer client.Close()
	if err := client.Login(ctx); err != nil {
		r.finish(log, entry, err)
		return nil, err
	}

	res, err := r.act.Run(ctx, environment.New(client, log))
	if res != nil && len(res.Jobs) > 0 && entry != nil {
		entry.JobRef = res.Jobs[len(res.Jobs)-1]
		if uerr := r.ledger.UpdateJob(entry); uerr != nil {
			log.WithError(uerr).Warn("failed to record job reference")
		}
	}

	if res != nil && len(res.Jobs) > 0 {
		if r.settings.NoWait {
			log.WithField("jobs", res.Jobs).Info("jobs submitted, not waiting")
			if err != nil {
				r.finish(log, entry, err)
			}
			return res, err
		}
		waiter := &jobs.Runner{
			Getter:   client,
			Interval: r.settings.Poll,
			Timeout:  r.settings.Timeout,
			Logger:   log,
		}
		err = errors.Join(err, waiter.WaitAll(ctx, res.Jobs))
	}

	r.finish(log, entry, err)
	return res, err
}

// record creates the ledger row for this engine. It returns nil when there
// is no ledger or the row could not be written.
func (r *runner) record(log logrus.FieldLogger, engine string) *state.Job {
	if r.ledger == nil {
		return nil
	}
	id, err := state.GenerateID()
	if err != nil {
		log.WithError(err).Warn("failed to record job")
		return nil
	}
	entry := &state.Job{
		ID:        id,
		Engine:    engine,
		Action:    r.act.Name,
		Target:    r.act.Target,
		Status:    state.JobRunning,
		StartedAt: time.Now(),
	}
	if err := r.ledger.CreateJob(entry); err != nil {
		log.WithError(err).Warn("failed to record job")
		return nil
	}
	log.WithField("id", state.ShortID(id)).Debug("job recorded")
	return entry
}

func (r *runner) finish(log logrus.FieldLogger, entry *state.Job, err error) {
	if entry == nil {
		return
	}
	if ferr := r.ledger.FinishJob(entry, ledgerStatus(err), err); ferr != nil {
		log.WithError(ferr).Warn("failed to record job outcome")
	}
}

// ledgerStatus classifies the error an engine worker ended with.
func ledgerStatus(err error) state.JobStatus {
	var jobErr *delphix.JobError
	switch {
	case err == nil:
		return state.JobCompleted
	case errors.As(err, &jobErr):
		if jobErr.Job != nil && jobErr.Job.JobState == delphix.JobCanceled {
			return state.JobCanceled
		}
		return state.JobFailed
	case errors.Is(err, context.Canceled):
		return state.JobCanceled
	default:
		return state.JobError
	}
}
