package env

import (
	"context"

	"github.com/Quidge/dxenv/internal/environment"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, environment.ActionEnable, args[0], (*environment.Service).Enable)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, environment.ActionDisable, args[0], (*environment.Service).Disable)
	},
}

func runToggle(cmd *cobra.Command, name, target string, fn func(*environment.Service, context.Context, string) (*environment.Result, error)) error {
	_, err := execute(cmd, action{
		Name:   name,
		Target: target,
		Run: func(ctx context.Context, svc *environment.Service) (*environment.Result, error) {
			return fn(svc, ctx, target)
		},
	})
	return err
}
