package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"commitgen/internal/cli"
)

func main() {
	// Ctrl+C / SIGTERM cancel in-flight probes, polls and child commands.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(cli.Execute(ctx))
}
