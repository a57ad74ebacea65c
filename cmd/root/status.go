package root

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/logicalclocks/hopsworks-usage/pkg/cli"
	"github.com/logicalclocks/hopsworks-usage/pkg/paths"
	"github.com/logicalclocks/hopsworks-usage/pkg/userconfig"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show whether usage collection is enabled",
		Long:    "Show the resolved usage configuration, combining environment variables and the user config file",
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE:    runStatusCommand,
	}
}

func runStatusCommand(cmd *cobra.Command, _ []string) error {
	out := cli.NewPrinter(cmd.OutOrStdout())

	cfg, err := loadConfig(cmd.Context())
	out.PrintStatus("usage", cfg.Enabled)
	if err != nil {
		out.PrintError(err)
	}
	out.PrintField("executors", cfg.Executors)
	out.PrintField("endpoint", cfg.Endpoint)
	out.PrintField("timeout", cfg.Timeout)
	out.PrintField("config file", userconfig.Path())
	out.PrintField("user id file", filepath.Join(paths.GetConfigDir(), "user_id"))
	return nil
}
