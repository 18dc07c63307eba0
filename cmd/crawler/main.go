// Command crawler runs the politeness-constrained crawl described by the
// flags and config file internal/cli accepts, shutting down cleanly on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cmd "github.com/rohmanhakim/uci-crawler/internal/cli"
	"github.com/rohmanhakim/uci-crawler/internal/runner"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetRunner(runner.Run)

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
