package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/use-agent/solvetrack/cmd/solvetrack/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commands.ExecuteContext(ctx)
}
