package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tiendamonedas/admin-dashboard/internal/infrastructure/apiclient"
	"github.com/tiendamonedas/admin-dashboard/internal/pkg/config"
)

// exitError carries a process exit code out of a command.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// ExitCode returns the code err asks for, 1 for any other error.
func ExitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func newPingCmd() *cobra.Command {
	var (
		baseURL string
		path    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the remote API answers",
		Long: `ping sends one GET to the API base address and reports whether anything
answered. Any HTTP status counts as reachable; exit code 2 means the API
could not be contacted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if baseURL == "" {
				cfg, err := config.Load(cmd.Context())
				if err != nil {
					return err
				}
				baseURL = cfg.API.BaseURL
			}
			if code := runPing(cmd.Context(), cmd.OutOrStdout(), baseURL, path, timeout); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "api-url", "", "API base address (overrides API_BASE_URL)")
	cmd.Flags().StringVar(&path, "path", "/", "path to probe")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}

func runPing(ctx context.Context, w io.Writer, baseURL, path string, timeout time.Duration) int {
	gw := apiclient.New(apiclient.Config{BaseURL: baseURL, Timeout: timeout}, zerolog.Nop())

	start := time.Now()
	status, err := gw.Probe(ctx, path)
	if err != nil {
		fmt.Fprintf(w, "API:     %s\nStatus:  unreachable\nError:   %v\n", baseURL, err)
		return 2
	}
	fmt.Fprintf(w, "API:     %s\nStatus:  reachable (HTTP %d)\nLatency: %s\n", baseURL, status, time.Since(start).Round(time.Millisecond))
	return 0
}
