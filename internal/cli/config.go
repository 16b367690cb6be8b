package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tgienger/nextup/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage nextup configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show merged configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(opts.configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "# Merged configuration (defaults + file + environment)")
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a default config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := opts.configPath
				if path == "" {
					path = config.DefaultPath()
				}
				if err := config.WriteDefault(path); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the configuration file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				path := opts.configPath
				if path == "" {
					path = config.DefaultPath()
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			},
		},
	)
	return cmd
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			b := opts.build
			fmt.Fprintf(cmd.OutOrStdout(), "nextup %s (commit: %s, built: %s)\n", b.Version, b.Commit, b.Date)
		},
	}
}
