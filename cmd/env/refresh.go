package env

import (
	"context"

	"github.com/Quidge/dxenv/internal/environment"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh NAME|all",
	Short: "Refresh an environment",
	Long: `Refresh an environment so the engine rediscovers its databases and
installations. "all" refreshes every environment on the engine; a failure
does not stop the remaining refreshes.`,
	Args: cobra.ExactArgs(1),
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, err := execute(cmd, action{
		Name:   environment.ActionRefresh,
		Target: name,
		Run: func(ctx context.Context, svc *environment.Service) (*environment.Result, error) {
			return svc.Refresh(ctx, name)
		},
	})
	return err
}
