package root

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/logicalclocks/hopsworks-usage/pkg/cli"
	"github.com/logicalclocks/hopsworks-usage/pkg/usage"
	"github.com/logicalclocks/hopsworks-usage/pkg/userconfig"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long:  "View and manage the usage settings stored in ~/.hopsworks/usage.yaml. Environment variables take precedence over this file.",
		Example: `  # Show the current configuration
  hopsworks-usage config show

  # Opt out of usage collection
  hopsworks-usage config disable`,
		GroupID: "advanced",
		RunE:    runConfigShowCommand,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigToggleCmd("enable", "Opt in to usage collection", true))
	cmd.AddCommand(newConfigToggleCmd("disable", "Opt out of usage collection", false))
	cmd.AddCommand(newConfigResetCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Long:  "Display the current user configuration in YAML format",
		Args:  cobra.NoArgs,
		RunE:  runConfigShowCommand,
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the path to the config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigPathCommand,
	}
}

func newConfigToggleCmd(use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return updateConfig(cmd, func(c *userconfig.Config) {
				c.SetEnabled(enabled)
			})
		},
	}
}

func newConfigResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove the enable/disable override",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return updateConfig(cmd, (*userconfig.Config).ClearEnabled)
		},
	}
}

func runConfigShowCommand(cmd *cobra.Command, _ []string) error {
	out := cli.NewPrinter(cmd.OutOrStdout())

	config, err := userconfig.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := yaml.MarshalWithOptions(config, yaml.IndentSequence(true), yaml.UseSingleQuote(false))
	if err != nil {
		return fmt.Errorf("failed to format config: %w", err)
	}

	out.Print(string(data))
	return nil
}

func runConfigPathCommand(cmd *cobra.Command, _ []string) error {
	out := cli.NewPrinter(cmd.OutOrStdout())
	out.Println(userconfig.Path())
	return nil
}

func updateConfig(cmd *cobra.Command, update func(*userconfig.Config)) error {
	out := cli.NewPrinter(cmd.OutOrStdout())

	config, err := userconfig.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	update(config)
	if err := config.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cfg, err := loadConfig(cmd.Context())
	out.PrintStatus("usage", cfg.Enabled)
	if err != nil {
		out.PrintError(err)
	}
	if env := os.Getenv(usage.EnvEnabled); env != "" {
		out.Printf("note: %s=%s overrides the config file\n", usage.EnvEnabled, env)
	}
	return nil
}
