package env

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Quidge/dxenv/internal/environment"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List environments",
	Long: `List every environment of the selected engines with its primary user,
host, enabled flag and SAP ASE parameters.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listJSONFlag  bool
	listTableFlag bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSONFlag, "json", false, "print JSON")
	listCmd.Flags().BoolVar(&listTableFlag, "table", false, "print a table instead of one line per environment")
	listCmd.MarkFlagsMutuallyExclusive("json", "table")
}

// engineListing is one engine's section of `env list --json`.
type engineListing struct {
	Engine       string                `json:"engine"`
	Environments []environment.Summary `json:"environments"`
	Error        string                `json:"error,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	outcomes, err := execute(cmd, action{
		Name: environment.ActionList,
		Run: func(ctx context.Context, svc *environment.Service) (*environment.Result, error) {
			return svc.List(ctx)
		},
	})

	listings := make([]engineListing, 0, len(outcomes))
	for _, o := range outcomes {
		l := engineListing{Engine: o.Target, Environments: []environment.Summary{}}
		if o.Value != nil {
			l.Environments = o.Value.Environments
		}
		if o.Err != nil {
			l.Error = o.Err.Error()
		}
		listings = append(listings, l)
	}

	out := cmd.OutOrStdout()
	var werr error
	switch {
	case listJSONFlag:
		werr = writeJSON(out, listings)
	case listTableFlag:
		werr = writeTable(out, listings)
	default:
		werr = writeLines(out, listings)
	}
	if werr != nil {
		return werr
	}
	return err
}

func writeJSON(w io.Writer, listings []engineListing) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}

func writeLines(w io.Writer, listings []engineListing) error {
	for _, l := range listings {
		if len(listings) > 1 {
			if _, err := fmt.Fprintf(w, "Engine: %s\n", l.Engine); err != nil {
				return err
			}
		}
		for _, sum := range l.Environments {
			if _, err := fmt.Fprintln(w, sum.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTable(w io.Writer, listings []engineListing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENGINE\tNAME\tTYPE\tUSER\tHOST\tENABLED\tASE")
	for _, l := range listings {
		for _, s := range l.Environments {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
				l.Engine, s.Name, s.Type, dash(s.User), dash(s.Host), s.Enabled, dash(s.ASEParams))
		}
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
