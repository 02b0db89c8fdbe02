package env

import (
	"context"

	"github.com/Quidge/dxenv/internal/environment"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"rm"},
	Short:   "Delete an environment",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, err := execute(cmd, action{
		Name:   environment.ActionDelete,
		Target: name,
		Run: func(ctx context.Context, svc *environment.Service) (*environment.Result, error) {
			return svc.Delete(ctx, name)
		},
	})
	return err
}
