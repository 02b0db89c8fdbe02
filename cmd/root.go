package cmd

import (
	"fmt"
	"os"

	"github.com/Quidge/dxenv/cmd/env"
	"github.com/Quidge/dxenv/internal/settings"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "dxenv",
	Short: "Manage environments on Delphix engines",
	Long: `dxenv creates, enables, disables, refreshes, deletes and lists the
environments (registered hosts) of one or more Delphix engines.

Engines are read from dxtools.conf. A command runs against the default
engines, the engine named by --engine, or every engine with --all. Each
engine is worked on concurrently and the jobs it starts are polled until
they finish.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code matching the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitCode(err))
	}
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(settings.NormalizeFlagName)
	settings.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(env.Cmd)
}
