package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	memseedcmder "github.com/papercomputeco/memseed/cmd/memseed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := memseedcmder.NewMemseedCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
