package root

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logicalclocks/hopsworks-usage/pkg/cli"
)

type envFlags struct {
	hostname       string
	backendVersion string
	libraries      map[string]string
}

func newEnvCmd() *cobra.Command {
	var flags envFlags

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print the environment attributes attached to usage events",
		Example: `  hopsworks-usage env
  hopsworks-usage env --backend-version 3.7.0 --library hsfs=3.7.1`,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE:    flags.run,
	}

	cmd.Flags().StringVar(&flags.hostname, "hostname", "", "Backend hostname to initialize with")
	cmd.Flags().StringVar(&flags.backendVersion, "backend-version", "", "Backend version to report")
	cmd.Flags().StringToStringVar(&flags.libraries, "library", nil, "Library version override as name=version (hsml, hsfs, hopsworks)")

	return cmd
}

func (f *envFlags) run(cmd *cobra.Command, _ []string) error {
	out := cli.NewPrinter(cmd.OutOrStdout())

	c, _ := newClient(cmd.Context())
	defer c.Close(cmd.Context())

	for name, v := range f.libraries {
		c.Identity().SetLibraryVersion(name, v)
	}
	if f.hostname != "" || f.backendVersion != "" {
		c.Init(f.hostname, f.backendVersion)
	}

	env, err := c.Env()
	if err != nil {
		cli.NewPrinter(cmd.ErrOrStderr()).PrintError(err)
		return RuntimeError{Err: fmt.Errorf("resolving environment: %w", err)}
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(env), "", "  "); err != nil {
		return err
	}
	out.Println(pretty.String())
	return nil
}
