package main

import (
	"github.com/spf13/cobra"

	"github.com/glowgirl/glowgirl/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the glowgirl CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glowgirl",
		Short: "glowgirl - account registration and token authentication",
		Long: `glowgirl is a small authentication backend: it registers accounts,
verifies credentials and issues bearer tokens for a JSON HTTP API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML, default: $XDG_CONFIG_HOME/glowgirl/config.yaml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// resolveConfigFile returns --config when set, otherwise the XDG config
// file if one exists, otherwise "".
func resolveConfigFile() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	path, ok, err := xdg.ConfigFile()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return path, nil
}
