// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/glowgirl/glowgirl/internal/config"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after merging defaults, the config file,
GLOWGIRL_* environment variables and flags. Secrets are redacted.`,
		RunE: runConfigShow,
	}
	show.Flags().Bool("validate", false, "also validate the configuration")
	cmd.AddCommand(show)

	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	path, err := resolveConfigFile()
	if err != nil {
		return oops.With("operation", "locate configuration").Wrap(err)
	}
	cfg, err := config.Load(path, nil)
	if err != nil {
		return oops.With("operation", "load configuration").Wrap(err)
	}

	out, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return oops.Code("CONFIG_FORMAT_FAILED").Wrap(err)
	}
	cmd.Print(string(out))

	validate, err := cmd.Flags().GetBool("validate")
	if err != nil {
		return oops.Wrap(err)
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return err
		}
		cmd.Println("# configuration is valid")
	}
	return nil
}
