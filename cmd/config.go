package cmd

import (
	"fmt"

	"github.com/Quidge/dxenv/internal/config"
	"github.com/Quidge/dxenv/internal/settings"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or create the engine configuration",
	Long: `View or create the engine configuration (dxtools.conf).

Subcommands:
  init   Write a commented sample configuration
  show   Print the engines as loaded, passwords masked
  path   Print the configuration path in use`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if err := config.WriteTemplate(s.ConfigPath); err != nil {
			return err
		}
		path, _ := config.ExpandPath(s.ConfigPath)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the loaded configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load(cmd.Flags())
		if err != nil {
			return err
		}
		cfg, err := config.Load(s.ConfigPath)
		if err != nil {
			return err
		}

		masked := make([]config.Engine, len(cfg.Engines))
		for i, e := range cfg.Engines {
			if e.Password != "" {
				e.Password = "********"
			}
			masked[i] = e
		}

		out, err := yaml.Marshal(config.File{Engines: masked})
		if err != nil {
			return fmt.Errorf("failed to render configuration: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", cfg.Path, out)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load(cmd.Flags())
		if err != nil {
			return err
		}
		path, err := config.ExpandPath(s.ConfigPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
