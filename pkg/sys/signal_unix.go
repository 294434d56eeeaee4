//go:build unix

package sys

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

func notifySignals() (<-chan os.Signal, func()) {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	// SIGINT is only delivered when the terminal is not in raw mode, or when
	// it is sent by another process.
	signal.Notify(sigCh, unix.SIGHUP, unix.SIGTERM, unix.SIGINT)
	return sigCh, func() { signal.Stop(sigCh) }
}
