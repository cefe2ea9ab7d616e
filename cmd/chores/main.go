package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tgienger/chores/internal/cli"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := &cli.RootOptions{
		Build: cli.BuildInfo{Version: version, Commit: commit, Date: date},
	}
	cmd := cli.NewRootCommand(opts)
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
