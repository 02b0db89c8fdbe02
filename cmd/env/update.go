package env

import (
	"context"

	"github.com/Quidge/dxenv/internal/environment"
	"github.com/spf13/cobra"
)

var updateHostCmd = &cobra.Command{
	Use:   "update-host",
	Short: "Change the address of a host",
	Args:  cobra.NoArgs,
	RunE:  runUpdateHost,
}

var (
	oldHostAddressFlag string
	newHostAddressFlag string
)

func init() {
	updateHostCmd.Flags().StringVar(&oldHostAddressFlag, "old-host-address", "", "current name or address of the host")
	updateHostCmd.Flags().StringVar(&newHostAddressFlag, "new-host-address", "", "new address of the host")
	_ = updateHostCmd.MarkFlagRequired("old-host-address")
	_ = updateHostCmd.MarkFlagRequired("new-host-address")
}

func runUpdateHost(cmd *cobra.Command, args []string) error {
	oldAddr, newAddr := oldHostAddressFlag, newHostAddressFlag
	_, err := execute(cmd, action{
		Name:   environment.ActionUpdateHost,
		Target: oldAddr,
		Run: func(ctx context.Context, svc *environment.Service) (*environment.Result, error) {
			return svc.UpdateHostAddress(ctx, oldAddr, newAddr)
		},
	})
	return err
}

var updateASEPasswordCmd = &cobra.Command{
	Use:   "update-ase-pw NAME PASSWORD",
	Short: "Change the SAP ASE password of an environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, password := args[0], args[1]
		_, err := execute(cmd, action{
			Name:   environment.ActionUpdateASE,
			Target: name,
			Run: func(ctx context.Context, svc *environment.Service) (*environment.Result, error) {
				return svc.UpdateASEPassword(ctx, name, password)
			},
		})
		return err
	},
}

var updateASEUserCmd = &cobra.Command{
	Use:   "update-ase-user NAME USER",
	Short: "Change the SAP ASE user of an environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, user := args[0], args[1]
		_, err := execute(cmd, action{
			Name:   environment.ActionUpdateASE,
			Target: name,
			Run: func(ctx context.Context, svc *environment.Service) (*environment.Result, error) {
				return svc.UpdateASEUser(ctx, name, user)
			},
		})
		return err
	},
}
