package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tphakala/birdnet-sql/cmd"
	"github.com/tphakala/birdnet-sql/internal/buildinfo"
	"github.com/tphakala/birdnet-sql/internal/runtime"
)

// Build-time variables set with -ldflags
var (
	version   string
	buildDate string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := runtime.NewContext(buildinfo.New(version, buildDate))
	defer func() {
		if err := rt.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", err)
		}
	}()

	rootCmd := cmd.RootCommand(rt)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
