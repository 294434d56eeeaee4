package term

import (
	"fmt"
	"os"

	goterm "golang.org/x/term"
)

// Setup puts the terminal referred to by the given file in raw mode: input is
// delivered byte by byte without echo, and output is not post-processed. It
// returns a function that restores the previous terminal attributes.
func Setup(in *os.File) (restore func() error, err error) {
	fd := int(in.Fd())
	state, err := goterm.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("can't set up terminal attribute: %w", err)
	}
	return func() error {
		if err := goterm.Restore(fd, state); err != nil {
			return fmt.Errorf("can't restore terminal attribute: %w", err)
		}
		return nil
	}, nil
}
