package root

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/logicalclocks/hopsworks-usage/pkg/cli"
	"github.com/logicalclocks/hopsworks-usage/pkg/httpclient"
	"github.com/logicalclocks/hopsworks-usage/pkg/usage"
)

type pingFlags struct {
	endpoint string
	timeout  time.Duration
	fail     bool
}

func newPingCmd() *cobra.Command {
	var flags pingFlags

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Send a single test event to the usage endpoint",
		Long:  "Send one usage event through the regular wrapper and dispatcher and report how the endpoint answered. The event is sent even if collection is disabled.",
		Example: `  hopsworks-usage ping
  hopsworks-usage ping --endpoint http://localhost:8080/ --error`,
		Args:    cobra.NoArgs,
		GroupID: "advanced",
		RunE:    flags.run,
	}

	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "Endpoint to send to (default: the configured endpoint)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 15*time.Second, "How long to wait for delivery")
	cmd.Flags().BoolVar(&flags.fail, "error", false, "Report the test call as failed")

	return cmd
}

var errPing = errors.New("ping: simulated failure")

func (f *pingFlags) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cli.NewPrinter(cmd.OutOrStdout())

	cfg, err := loadConfig(ctx)
	if err != nil {
		out.PrintError(err)
	}
	if cfg.Executors < 1 {
		cfg.Executors = usage.DefaultExecutors
	}

	recorder := &responseRecorder{next: httpclient.NewHTTPClient(httpclient.WithTimeout(cfg.Timeout))}
	opts := []usage.Option{
		usage.WithConfig(cfg),
		usage.WithEnabled(true),
		usage.WithLogger(slog.Default()),
		usage.WithHTTPClient(recorder),
	}
	if f.endpoint != "" {
		opts = append(opts, usage.WithEndpoint(f.endpoint))
	}
	c := usage.New(opts...)

	ping := usage.WrapErr(c, func() error {
		if f.fail {
			return errPing
		}
		return nil
	}, usage.AsSite("hopsworks_usage.cli", "ping"))
	_ = ping()

	waitCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	if err := c.Close(waitCtx); err != nil {
		return RuntimeError{Err: fmt.Errorf("waiting for delivery: %w", err)}
	}

	status, size, sendErr := recorder.result()
	switch {
	case sendErr != nil:
		cli.NewPrinter(cmd.ErrOrStderr()).PrintError(sendErr)
		return RuntimeError{Err: sendErr}
	case status == 0:
		err := errors.New("no event was sent")
		cli.NewPrinter(cmd.ErrOrStderr()).PrintError(err)
		return RuntimeError{Err: err}
	case status < 200 || status >= 300:
		err := fmt.Errorf("endpoint answered %d %s", status, http.StatusText(status))
		cli.NewPrinter(cmd.ErrOrStderr()).PrintError(err)
		return RuntimeError{Err: err}
	}

	out.Printf("Event delivered (%d %s, %s sent)\n", status, http.StatusText(status), units.HumanSize(float64(size)))
	return nil
}

// responseRecorder remembers the outcome of the last request.
type responseRecorder struct {
	next usage.HTTPClient

	mu     sync.Mutex
	status int
	size   int64
	err    error
}

func (r *responseRecorder) Do(req *http.Request) (*http.Response, error) {
	resp, err := r.next.Do(req)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = req.ContentLength
	r.err = err
	if resp != nil {
		r.status = resp.StatusCode
	}
	return resp, err
}

func (r *responseRecorder) result() (int, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.size, r.err
}
