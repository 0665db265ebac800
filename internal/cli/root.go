// Package cli holds the dashboard's cobra commands.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns the dashboard command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Admin dashboard for the coin store",
		Long: `dashboard serves the administrator web interface of the coin store.

Configuration is read from the environment and an optional .env file in the
working directory (PORT, API_BASE_URL, SESSION_BACKEND, REDIS_ADDR, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve, newPingCmd())
	return root
}
