//go:build windows

package shutdown

import (
	"context"
	"os"
	"os/signal"
)

// Context is cancelled on Ctrl+C, or when stop is called.
func Context(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
