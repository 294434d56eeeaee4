// Package sys provides system utilities for terminal programs.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

const sigsChanBufferSize = 16

// IsATTY determines whether the given file is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NotifySignals returns a channel on which the signals that should end an
// interactive session get delivered, and a function to stop the delivery.
func NotifySignals() (<-chan os.Signal, func()) { return notifySignals() }
