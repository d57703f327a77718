package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// setupLifecycle derives a context canceled on SIGINT, SIGTERM or, when
// timeout is positive, after timeout. The returned function releases both.
func setupLifecycle(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	cancelTimeout := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}
