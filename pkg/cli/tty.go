package cli

import (
	"errors"
	"io"
	"os"
	"sync"

	"src.lnedit.sh/pkg/cli/term"
	"src.lnedit.sh/pkg/errutil"
	"src.lnedit.sh/pkg/ui"
)

// TTY is the type the terminal dependency of the editor needs to satisfy.
type TTY interface {
	// Setup puts the terminal in raw mode and starts key input.
	//
	// This method returns a restore function that undoes the setup, and any
	// error during setup. It should be called before any other method, and
	// the restore function must be called exactly once.
	Setup() (restore func() error, err error)

	// ReadKey blocks until a key is available and returns it. It returns
	// io.EOF when the input is exhausted or CloseReader has been called.
	ReadKey() (ui.Key, error)
	// CloseReader aborts any outstanding and future ReadKey call. It is safe
	// to call it from another goroutine.
	CloseReader()

	// WriteString writes text at the cursor.
	WriteString(s string)
	// ClearLine clears the current line and moves the cursor to its start.
	ClearLine()
	// MoveToColumn moves the cursor to a 0-based column of the current line.
	MoveToColumn(col int)
	// Flush sends all output written since the last Flush to the terminal.
	Flush() error
}

type aTTY struct {
	in *os.File
	w  term.Writer

	// Protects r and closed.
	mutex  sync.Mutex
	r      term.Reader
	closed bool
}

var errNotSetUp = errors.New("terminal not set up")

// NewTTY returns a new TTY from input and output terminal files.
func NewTTY(in, out *os.File) TTY {
	return &aTTY{in: in, w: term.NewWriter(out)}
}

func (t *aTTY) Setup() (func() error, error) {
	restoreTerm, err := term.Setup(t.in)
	if err != nil {
		return nil, err
	}
	r, err := term.NewReader(t.in)
	if err != nil {
		return nil, errutil.Multi(err, restoreTerm())
	}

	t.mutex.Lock()
	t.r = r
	if t.closed {
		r.Stop()
	}
	t.mutex.Unlock()

	return func() error {
		t.mutex.Lock()
		t.r = nil
		t.mutex.Unlock()
		r.Stop()
		r.Close()
		return restoreTerm()
	}, nil
}

func (t *aTTY) ReadKey() (ui.Key, error) {
	t.mutex.Lock()
	r := t.r
	t.mutex.Unlock()
	if r == nil {
		return ui.Key{}, errNotSetUp
	}
	for {
		k, err := r.ReadKey()
		switch {
		case err == nil:
			return k, nil
		case errors.Is(err, term.ErrStopped) || errors.Is(err, io.EOF):
			return ui.Key{}, io.EOF
		case term.IsReadErrorRecoverable(err):
			logger.Println("ignoring read error:", err)
		default:
			return ui.Key{}, err
		}
	}
}

func (t *aTTY) CloseReader() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.closed = true
	if t.r != nil {
		t.r.Stop()
	}
}

func (t *aTTY) WriteString(s string) { t.w.WriteString(s) }
func (t *aTTY) ClearLine()           { t.w.ClearLine() }
func (t *aTTY) MoveToColumn(col int) { t.w.MoveToColumn(col) }
func (t *aTTY) Flush() error         { return t.w.Flush() }
