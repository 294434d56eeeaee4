// Package clitest provides a fake terminal for testing the cli package.
package clitest

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"src.lnedit.sh/pkg/cli"
	"src.lnedit.sh/pkg/ui"
)

// Maximum number of keys FakeTTY buffers.
const fakeTTYKeys = 4096

type keyOrError struct {
	key ui.Key
	err error
}

// An implementation of the cli.TTY interface that emulates a terminal line
// display and is useful in tests.
type fakeTTY struct {
	setup func() (func() error, error)
	// Number of calls to Setup and to the restore functions it returned.
	setups, restores int

	// Channel that ReadKey reads from. Closed by CloseReader.
	keyCh chan keyOrError
	// Whether keyCh has been closed.
	keyChClosed bool

	// Lines that the cursor has left with a newline.
	lines []string
	// The line the cursor is on, and the cursor column.
	line []byte
	col  int
	// The screen at each Flush.
	frames []Frame
	// All calls of output methods, in a readable form.
	log []string

	// Protects all fields above.
	mutex sync.Mutex
}

// Frame is the state of the current line of a fake terminal when Flush was
// called.
type Frame struct {
	Line string
	Col  int
}

func (f Frame) String() string { return fmt.Sprintf("%q@%d", f.Line, f.Col) }

// NewFakeTTY creates a new FakeTTY and a handle for controlling it.
func NewFakeTTY() (cli.TTY, TTYCtrl) {
	tty := &fakeTTY{keyCh: make(chan keyOrError, fakeTTYKeys)}
	return tty, TTYCtrl{tty}
}

// Delegates to the setup function specified using the SetSetup method of
// TTYCtrl, or returns a nop restore function and a nil error.
func (t *fakeTTY) Setup() (func() error, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.setups++
	if t.setup == nil {
		return t.countRestore(func() error { return nil }), nil
	}
	restore, err := t.setup()
	if err != nil {
		return nil, err
	}
	return t.countRestore(restore), nil
}

func (t *fakeTTY) countRestore(restore func() error) func() error {
	return func() error {
		t.mutex.Lock()
		t.restores++
		t.mutex.Unlock()
		return restore()
	}
}

// Returns the next injected key, or io.EOF after the input has been closed
// and drained.
func (t *fakeTTY) ReadKey() (ui.Key, error) {
	ke, ok := <-t.keyCh
	if !ok {
		return ui.Key{}, io.EOF
	}
	return ke.key, ke.err
}

// Closes keyCh.
func (t *fakeTTY) CloseReader() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.keyChClosed {
		close(t.keyCh)
		t.keyChClosed = true
	}
}

func (t *fakeTTY) WriteString(s string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.log = append(t.log, fmt.Sprintf("write %q", s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\033':
			// Skip SGR sequences; they take no columns.
			if j := strings.IndexByte(s[i:], 'm'); strings.HasPrefix(s[i:], "\033[") && j > 0 {
				i += j
				continue
			}
			t.putByte(c)
		case '\r':
			t.col = 0
		case '\n':
			t.lines = append(t.lines, string(t.line))
			t.line = nil
		default:
			t.putByte(c)
		}
	}
}

func (t *fakeTTY) putByte(c byte) {
	for len(t.line) < t.col {
		t.line = append(t.line, ' ')
	}
	if t.col < len(t.line) {
		t.line[t.col] = c
	} else {
		t.line = append(t.line, c)
	}
	t.col++
}

func (t *fakeTTY) ClearLine() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.log = append(t.log, "clear")
	t.line = nil
	t.col = 0
}

func (t *fakeTTY) MoveToColumn(col int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.log = append(t.log, fmt.Sprintf("column %d", col))
	t.col = col
}

// Records the current line as a Frame.
func (t *fakeTTY) Flush() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.log = append(t.log, "flush")
	t.frames = append(t.frames, Frame{string(t.line), t.col})
	return nil
}

// TTYCtrl is an interface for controlling a fake terminal.
type TTYCtrl struct{ *fakeTTY }

// GetTTYCtrl takes a TTY and returns a TTYCtrl and true, if the TTY is a fake
// terminal. Otherwise it returns an invalid TTYCtrl and false.
func GetTTYCtrl(t cli.TTY) (TTYCtrl, bool) {
	fake, ok := t.(*fakeTTY)
	return TTYCtrl{fake}, ok
}

// SetSetup sets the return values of the Setup method of the fake terminal.
// The restore function is still counted by SetupCounts.
func (t TTYCtrl) SetSetup(restore func() error, err error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.setup = func() (func() error, error) {
		return restore, err
	}
}

// Inject injects keys to the fake terminal. Keys injected after the input
// has been closed are dropped.
func (t TTYCtrl) Inject(keys ...ui.Key) {
	for _, k := range keys {
		t.inject(keyOrError{key: k})
	}
}

// InjectString injects one key for each byte of s.
func (t TTYCtrl) InjectString(s string) {
	for i := 0; i < len(s); i++ {
		t.inject(keyOrError{key: ui.K(rune(s[i]))})
	}
}

// InjectError makes ReadKey return the given error once.
func (t TTYCtrl) InjectError(err error) {
	t.inject(keyOrError{err: err})
}

func (t TTYCtrl) inject(ke keyOrError) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.keyChClosed {
		t.keyCh <- ke
	}
}

// EndInput closes the input. ReadKey returns the keys injected so far, then
// io.EOF.
func (t TTYCtrl) EndInput() { t.CloseReader() }

// SetupCounts returns the number of calls to Setup and to the restore
// functions it returned.
func (t TTYCtrl) SetupCounts() (setups, restores int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.setups, t.restores
}

// Screen returns the line the cursor is on and the cursor column.
func (t TTYCtrl) Screen() Frame {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return Frame{string(t.line), t.col}
}

// Lines returns the lines the cursor has left with a newline, oldest first.
func (t TTYCtrl) Lines() []string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([]string(nil), t.lines...)
}

// Frames returns the screen as it was at each call to Flush.
func (t TTYCtrl) Frames() []Frame {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([]Frame(nil), t.frames...)
}

// LastFrame returns the screen at the last call to Flush. It returns a zero
// Frame if Flush has never been called.
func (t TTYCtrl) LastFrame() Frame {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(t.frames) == 0 {
		return Frame{}
	}
	return t.frames[len(t.frames)-1]
}

// Log returns all calls of output methods in a readable form, such as
// `write "> "`, "clear", "column 2" and "flush".
func (t TTYCtrl) Log() []string {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([]string(nil), t.log...)
}

// ResetLog clears the log of output calls.
func (t TTYCtrl) ResetLog() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.log = nil
}

// Describe returns a multi-line description of the screen, for use in test
// failure messages.
func (t TTYCtrl) Describe() string {
	var sb strings.Builder
	for _, line := range t.Lines() {
		fmt.Fprintf(&sb, "%q\n", line)
	}
	fmt.Fprintf(&sb, "%v (current)", t.Screen())
	return sb.String()
}
