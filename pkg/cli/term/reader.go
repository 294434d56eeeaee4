// Package term contains the terminal adapter of the line editor: raw mode
// setup, decoding of key events, and VT100 output.
package term

import (
	"errors"
	"fmt"
	"os"

	"src.lnedit.sh/pkg/ui"
)

// Reader reads key events from the terminal.
type Reader interface {
	// ReadKey reads a single key from the terminal. It returns io.EOF when
	// the input is exhausted.
	ReadKey() (ui.Key, error)
	// Stop aborts any outstanding ReadKey call, which returns ErrStopped; so
	// does every later call. It is safe to call Stop from another goroutine.
	Stop()
	// Close releases resources associated with the Reader. It does not close
	// the underlying file.
	Close()
}

// ErrStopped is returned by Reader after Stop has been called.
var ErrStopped = errors.New("stopped")

var errTimeout = errors.New("timed out")

type seqError struct {
	msg string
	seq string
}

func (err seqError) Error() string {
	return fmt.Sprintf("%s: %q", err.msg, err.seq)
}

// NewReader creates a new Reader on the given terminal file.
func NewReader(f *os.File) (Reader, error) {
	return newReader(f)
}

// IsReadErrorRecoverable returns whether an error returned by Reader is
// recoverable, that is, whether it is safe to call ReadKey again.
func IsReadErrorRecoverable(err error) bool {
	var se seqError
	return errors.As(err, &se) || errors.Is(err, errTimeout)
}
