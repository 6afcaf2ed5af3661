package main

import (
	"context"
	"os/signal"
	"syscall"

	"kilometers.ai/dropin/internal/interfaces/cli"
	"kilometers.ai/dropin/internal/interfaces/di"
)

func main() {
	container := di.NewContainer()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli.Execute(ctx, container.GetCLIContainer())
}
