package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Quidge/dxenv/internal/settings"
	"github.com/Quidge/dxenv/internal/state"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect the job ledger",
	Long: `Every environment action records one row per engine in the local job
ledger: the action, its target, the last engine job it started and how it
ended. The ledger outlives the run, so jobs started with --no-wait can be
looked up later.`,
}

var jobsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded jobs",
	Args:    cobra.NoArgs,
	RunE:    runJobsList,
}

var jobsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one recorded job",
	Long: `Show everything recorded about a job.

The ID can be a prefix if it uniquely identifies a job.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobsShow,
}

var jobsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old finished jobs",
	Args:  cobra.NoArgs,
	RunE:  runJobsPrune,
}

var (
	jobsStatusFlag    []string
	jobsActionFlag    string
	jobsLimitFlag     int
	jobsOlderThanFlag time.Duration
)

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsShowCmd)
	jobsCmd.AddCommand(jobsPruneCmd)

	jobsListCmd.Flags().StringSliceVar(&jobsStatusFlag, "status", nil, "filter by status (running, completed, failed, canceled, error)")
	jobsListCmd.Flags().StringVar(&jobsActionFlag, "action", "", "filter by action")
	jobsListCmd.Flags().IntVar(&jobsLimitFlag, "limit", 20, "maximum jobs to show (0 = all)")

	jobsPruneCmd.Flags().DurationVar(&jobsOlderThanFlag, "older-than", 30*24*time.Hour, "remove finished jobs started longer ago than this")
}

// openLedger opens the job ledger selected by --state-db.
func openLedger(cmd *cobra.Command) (*state.DB, error) {
	s, err := settings.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	db, err := state.Open(s.StateDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open job ledger: %w", err)
	}
	return db, nil
}

func runJobsList(cmd *cobra.Command, args []string) error {
	db, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, _ := cmd.Flags().GetString(settings.KeyEngine)
	opts := state.ListOptions{
		Engine: engine,
		Action: jobsActionFlag,
		Limit:  jobsLimitFlag,
	}
	for _, s := range jobsStatusFlag {
		status := state.JobStatus(strings.ToLower(s))
		if !state.IsValidStatus(status) {
			return fmt.Errorf("%w: %s", state.ErrInvalidStatus, s)
		}
		opts.Statuses = append(opts.Statuses, status)
	}

	list, err := db.ListJobs(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No jobs found.")
		return nil
	}
	return writeJobsTable(out, list)
}

func writeJobsTable(out io.Writer, list []*state.Job) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENGINE\tACTION\tTARGET\tSTATUS\tJOB\tSTARTED")
	for _, j := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			state.ShortID(j.ID), j.Engine, j.Action, orDash(j.Target), j.Status, orDash(j.JobRef), humanize.Time(j.StartedAt))
	}
	return w.Flush()
}

func runJobsShow(cmd *cobra.Command, args []string) error {
	idPrefix := args[0]

	db, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	job, err := db.GetJobByPrefix(idPrefix)
	if err != nil {
		var ambiguous *state.AmbiguousPrefixError
		switch {
		case errors.Is(err, state.ErrJobNotFound):
			return fmt.Errorf("job %q not found", idPrefix)
		case errors.As(err, &ambiguous):
			return FormatAmbiguousPrefixError(ambiguous)
		case errors.Is(err, state.ErrInvalidPrefix):
			return fmt.Errorf("invalid job ID %q: must contain only hexadecimal characters", idPrefix)
		}
		return fmt.Errorf("failed to get job: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", job.ID)
	fmt.Fprintf(out, "Short ID:  %s\n", state.ShortID(job.ID))
	fmt.Fprintf(out, "Engine:    %s\n", job.Engine)
	fmt.Fprintf(out, "Action:    %s\n", job.Action)
	if job.Target != "" {
		fmt.Fprintf(out, "Target:    %s\n", job.Target)
	}
	if job.JobRef != "" {
		fmt.Fprintf(out, "Job:       %s\n", job.JobRef)
	}
	fmt.Fprintf(out, "Status:    %s\n", job.Status)
	fmt.Fprintf(out, "Started:   %s (%s)\n", job.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(job.StartedAt))
	if job.Finished() && !job.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Finished:  %s\n", job.FinishedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Duration:  %s\n", job.Duration().Round(time.Second))
	}
	if job.Error != "" {
		fmt.Fprintf(out, "Error:     %s\n", job.Error)
	}
	return nil
}

func runJobsPrune(cmd *cobra.Command, args []string) error {
	db, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.PruneJobs(time.Now().Add(-jobsOlderThanFlag))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", humanize.Comma(n)+" "+plural(n, "job", "jobs"))
	return nil
}

// FormatAmbiguousPrefixError formats an AmbiguousPrefixError into an error
// message that lists every matching job.
func FormatAmbiguousPrefixError(err *state.AmbiguousPrefixError) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ambiguous job ID %q: matches %d jobs\n", err.Prefix, len(err.Matches)))
	sb.WriteString("\nMatching jobs:\n")

	for _, j := range err.Matches {
		sb.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n", state.ShortID(j.ID), j.Engine, j.Action, j.Status))
	}

	sb.WriteString("\nHint: use a longer prefix")

	return fmt.Errorf("%s", sb.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
