package repl

import (
	"bytes"
	"errors"
	"testing"

	"src.lnedit.sh/pkg/cli"
	"src.lnedit.sh/pkg/cli/clitest"
	"src.lnedit.sh/pkg/ui"
)

func TestEchoer(t *testing.T) {
	var buf bytes.Buffer
	e := &echoer{w: &buf}

	if !e.consume("1+2") {
		t.Errorf("consume(\"1+2\") -> false, want true")
	}
	if e.consume("") {
		t.Errorf("consume(\"\") -> true, want false")
	}
	if got, want := buf.String(), "1+2\r\n"; got != want {
		t.Errorf("got output %q, want %q", got, want)
	}
	if e.err != nil {
		t.Errorf("got err %v, want nil", e.err)
	}
}

var errWrite = errors.New("write failed")

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errWrite
}

func TestEchoer_WriteErrorEndsSession(t *testing.T) {
	tty, ctrl := clitest.NewFakeTTY()
	w := &failingWriter{}
	e := &echoer{w: w}
	s := cli.NewSession(cli.SessionSpec{TTY: tty, Prompt: "> "})

	ctrl.InjectString("a")
	ctrl.Inject(ui.K(ui.Enter))
	ctrl.InjectString("b")
	ctrl.Inject(ui.K(ui.Enter))

	err := s.Run(e.consume)
	if err != nil {
		t.Errorf("Run -> %v, want nil", err)
	}
	if !errors.Is(e.err, errWrite) {
		t.Errorf("got err %v, want it to wrap %v", e.err, errWrite)
	}
	if w.n != 1 {
		t.Errorf("got %d writes, want 1", w.n)
	}
	if got := s.History().Len(); got != 1 {
		t.Errorf("got %d history entries, want 1", got)
	}
}
