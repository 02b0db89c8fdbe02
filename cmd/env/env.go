// Package env provides the `dxenv env` command group for managing
// environments on the selected engines.
package env

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for environment management.
var Cmd = &cobra.Command{
	Use:   "env",
	Short: "Manage environments",
	Long: `Manage the environments (registered hosts) of Delphix engines.

Every subcommand runs against the selected engines concurrently, waits for
the jobs it starts and records them in the job ledger.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(refreshCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(enableCmd)
	Cmd.AddCommand(disableCmd)
	Cmd.AddCommand(updateHostCmd)
	Cmd.AddCommand(updateASEPasswordCmd)
	Cmd.AddCommand(updateASEUserCmd)
}
