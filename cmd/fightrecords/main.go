package main

import (
	"context"
	"os/signal"
	"syscall"
)

func main() {
	// Cancelled between requests on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ExecuteContext(ctx)
}
