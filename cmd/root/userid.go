package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logicalclocks/hopsworks-usage/pkg/cli"
)

func newUserIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "user-id",
		Short:   "Print the anonymous user id, creating it if needed",
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE:    runUserIDCommand,
	}
}

func runUserIDCommand(cmd *cobra.Command, _ []string) error {
	out := cli.NewPrinter(cmd.OutOrStdout())

	c, _ := newClient(cmd.Context())
	defer c.Close(cmd.Context())

	id, err := c.Identity().UserID()
	if err != nil {
		cli.NewPrinter(cmd.ErrOrStderr()).PrintError(err)
		return RuntimeError{Err: fmt.Errorf("resolving user id: %w", err)}
	}
	out.Println(id)
	return nil
}
