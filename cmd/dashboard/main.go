package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tiendamonedas/admin-dashboard/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
