package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"reelcut/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// One correlation id per invocation ties its log lines together.
	ctx = services.WithRequestID(ctx, uuid.NewString())

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, formatError(err))
		}
		stop()
		os.Exit(1)
	}
}

// formatError prefixes the user-facing notice when err carries a known kind.
func formatError(err error) string {
	notice := services.Notice(err)
	if notice == "" || services.ErrorKind(err) == "internal" {
		return err.Error()
	}
	return notice + "\n  " + err.Error()
}
