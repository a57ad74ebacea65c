package root

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logicalclocks/hopsworks-usage/pkg/logging"
	"github.com/logicalclocks/hopsworks-usage/pkg/paths"
	"github.com/logicalclocks/hopsworks-usage/pkg/usage"
	"github.com/logicalclocks/hopsworks-usage/pkg/userconfig"
)

type rootFlags struct {
	enableOtel  bool
	debugMode   bool
	logFilePath string
	logMaxSize  string
	logBackups  int
	logFile     io.Closer
	shutdown    func(context.Context) error
}

func NewRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "hopsworks-usage",
		Short: "hopsworks-usage - inspect and control anonymous usage reporting",
		Long:  "hopsworks-usage shows the identity attached to usage events and manages whether they are collected",
		Example: `  hopsworks-usage status
  hopsworks-usage config disable
  hopsworks-usage ping --endpoint http://localhost:8080/`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.setupLogging(); err != nil {
				// If logging setup fails, fall back to stderr so we still get logs
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
				slog.Warn("Failed to set up log file", "error", err)
			}

			if flags.enableOtel {
				shutdown, err := initOTelSDK(cmd.Context())
				if err != nil {
					slog.Warn("Failed to initialize OpenTelemetry SDK", "error", err)
				} else {
					flags.shutdown = shutdown
					slog.Debug("OpenTelemetry SDK initialized successfully")
				}
			}

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if flags.shutdown != nil {
				if err := flags.shutdown(context.WithoutCancel(cmd.Context())); err != nil {
					slog.Error("Failed to shut down OpenTelemetry SDK", "error", err)
				}
			}
			if flags.logFile != nil {
				if err := flags.logFile.Close(); err != nil {
					slog.Error("Failed to close log file", "error", err)
				}
			}
			return nil
		},
		// If no subcommand is specified, show help
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.debugMode, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.enableOtel, "otel", "o", false, "Enable OpenTelemetry tracing of usage deliveries")
	cmd.PersistentFlags().StringVar(&flags.logFilePath, "log-file", "", "Path to debug log file (default: ~/.hopsworks/logs/usage.debug.log; only used with --debug)")
	cmd.PersistentFlags().StringVar(&flags.logMaxSize, "log-max-size", "10MB", "Size at which the debug log file is rotated")
	cmd.PersistentFlags().IntVar(&flags.logBackups, "log-backups", logging.DefaultRotation.MaxBackups, "Number of rotated debug log files to keep")

	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "advanced", Title: "Advanced Commands:"})

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newEnvCmd())
	cmd.AddCommand(newUserIDCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newPingCmd())

	return cmd
}

func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	// A nil slice would make cobra fall back to os.Args.
	rootCmd.SetArgs(append([]string{}, args...))
	setContextRecursive(ctx, rootCmd)

	if err := rootCmd.Execute(); err != nil {
		return processErr(ctx, err, stderr, rootCmd)
	}
	return nil
}

func setContextRecursive(ctx context.Context, cmd *cobra.Command) {
	cmd.SetContext(ctx)
	for _, child := range cmd.Commands() {
		setContextRecursive(ctx, child)
	}
}

func processErr(ctx context.Context, err error, stderr io.Writer, rootCmd *cobra.Command) error {
	if ctx.Err() != nil {
		return ctx.Err()
	} else if _, ok := errors.AsType[RuntimeError](err); ok {
		// Runtime errors have already been printed by the command itself
	} else {
		// Command line usage errors - show the error and usage
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr)
		if strings.HasPrefix(err.Error(), "unknown command ") || strings.HasPrefix(err.Error(), "accepts ") {
			_ = rootCmd.Usage()
		}
	}

	return err
}

// setupLogging configures slog logging behavior.
// When --debug is enabled, logs are written to a rotating file <dataDir>/usage.debug.log,
// or to the file specified by --log-file.
func (f *rootFlags) setupLogging() error {
	path := cmp.Or(strings.TrimSpace(f.logFilePath), filepath.Join(paths.GetDataDir(), "usage.debug.log"))

	rotation := logging.DefaultRotation
	if f.debugMode {
		var err error
		if rotation, err = logging.ParseRotation(f.logMaxSize, f.logBackups); err != nil {
			return err
		}
	}

	logFile, err := logging.Setup(f.debugMode, path, rotation)
	if err != nil {
		return err
	}
	f.logFile = logFile
	return nil
}

// RuntimeError wraps runtime errors to distinguish them from usage errors
type RuntimeError struct {
	Err error
}

func (e RuntimeError) Error() string {
	return e.Err.Error()
}

func (e RuntimeError) Unwrap() error {
	return e.Err
}

// loadConfig resolves the usage configuration the way the library does.
func loadConfig(ctx context.Context) (usage.Config, error) {
	return usage.LoadConfig(ctx, usage.DefaultProvider(userconfig.Path()))
}

// newClient builds a client from the resolved configuration. Unlike
// usage.Default it is not disabled when running under tests.
func newClient(ctx context.Context, opts ...usage.Option) (*usage.Client, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		slog.Debug("Invalid usage configuration", "error", err)
	}

	base := []usage.Option{
		usage.WithConfig(cfg),
		usage.WithLogger(slog.Default()),
	}
	return usage.New(append(base, opts...)...), err
}
