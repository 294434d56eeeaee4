// Package repl is the interactive program of lnedit: it reads lines with the
// line editor and echoes them back until an empty line or the end of input.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"

	"src.lnedit.sh/pkg/cli"
	"src.lnedit.sh/pkg/config"
	"src.lnedit.sh/pkg/errutil"
	"src.lnedit.sh/pkg/logutil"
	"src.lnedit.sh/pkg/prog"
	"src.lnedit.sh/pkg/sys"
)

var logger = logutil.GetLogger("[repl] ")

var errNotTerminal = errors.New("standard input is not a terminal")

// Program is the interactive program.
type Program struct{}

func (Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not supported")
	}
	cfg, err := config.Load(f.RC)
	if err != nil {
		return err
	}
	logger.Printf("loaded config from %q", f.RC)
	if f.Prompt != "" {
		cfg.Prompt = f.Prompt
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	style, err := cfg.Style()
	if err != nil {
		return err
	}
	bindings, err := cfg.KeyBindings()
	if err != nil {
		return err
	}
	if !sys.IsATTY(fds[0].Fd()) {
		return errNotTerminal
	}

	tty := cli.NewTTY(fds[0], fds[1])
	stopRelay := relaySignals(tty)
	defer stopRelay()

	s := cli.NewSession(cli.SessionSpec{
		TTY: tty, Prompt: cfg.Prompt, PromptStyle: style, Bindings: bindings})
	e := &echoer{w: fds[1]}
	err = s.Run(e.consume)
	return errutil.Multi(err, e.err)
}

// Writes committed lines back. It stops the session at an empty line or at
// the first failed write, which is kept in err.
type echoer struct {
	w   io.Writer
	err error
}

func (e *echoer) consume(line string) bool {
	if line == "" {
		return false
	}
	// The terminal is in raw mode, so the newline needs an explicit carriage
	// return.
	if _, err := io.WriteString(e.w, line+"\r\n"); err != nil {
		e.err = fmt.Errorf("write line: %w", err)
		return false
	}
	return true
}

// Ends the input of tty when a signal that should end the session arrives,
// so that the session returns and restores the terminal. Returns a function
// that stops relaying.
func relaySignals(tty cli.TTY) func() {
	sigCh, stopSignals := sys.NotifySignals()
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			logger.Println("got signal", sig)
			tty.CloseReader()
		case <-done:
		}
	}()
	return func() {
		stopSignals()
		close(done)
	}
}
