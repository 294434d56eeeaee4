// Package cli implements an interactive single-line editor with in-memory
// history.
package cli

import (
	"io"
	"os"

	"src.lnedit.sh/pkg/cli/histutil"
	"src.lnedit.sh/pkg/cli/tk"
	"src.lnedit.sh/pkg/errutil"
	"src.lnedit.sh/pkg/logutil"
	"src.lnedit.sh/pkg/ui"
)

var logger = logutil.GetLogger("[cli] ")

// SessionSpec specifies the configuration of a Session. Zero fields get
// defaults.
type SessionSpec struct {
	// Defaults to the terminal on stdin and stdout.
	TTY TTY
	// Written before the line. It must be printable ASCII.
	Prompt string
	// Style of the prompt.
	PromptStyle ui.Style
	// Defaults to tk.DefaultBindings().
	Bindings tk.Bindings
	// Defaults to an empty in-memory store.
	History tk.History
}

// Session reads lines from a terminal, one editing round at a time. Committed
// lines are appended to its history, which later rounds can recall.
type Session struct {
	tty         TTY
	prompt      string
	promptStyle ui.Style
	bindings    tk.Bindings
	history     tk.History
}

// NewSession creates a new Session from the given specification.
func NewSession(spec SessionSpec) *Session {
	s := &Session{
		tty:         spec.TTY,
		prompt:      spec.Prompt,
		promptStyle: spec.PromptStyle,
		bindings:    spec.Bindings,
		history:     spec.History,
	}
	if s.tty == nil {
		s.tty = NewTTY(os.Stdin, os.Stdout)
	}
	if s.bindings == nil {
		s.bindings = tk.DefaultBindings()
	}
	if s.history == nil {
		s.history = histutil.NewMemStore()
	}
	return s
}

// History returns the history of the session.
func (s *Session) History() tk.History { return s.history }

// Run sets up the terminal and reads lines until the input ends or consume
// returns false. Each committed line is passed to consume. The terminal is
// restored before Run returns, including when it panics. The end of the input
// is not an error.
func (s *Session) Run(consume func(line string) bool) (err error) {
	restore, err := s.tty.Setup()
	if err != nil {
		return err
	}
	defer func() {
		err = errutil.Multi(err, restore())
	}()

	for {
		line, err := s.ReadLine()
		if err == io.EOF {
			logger.Println("input ended")
			return nil
		} else if err != nil {
			return err
		}
		if !consume(line) {
			return nil
		}
	}
}

// ReadLine runs one editing round and returns the committed line. It returns
// io.EOF if the input ends before a commit. The terminal must already be set
// up; Run does that.
func (s *Session) ReadLine() (string, error) {
	logger.Println("starting round, history has", s.history.Len(), "entries")
	r := tk.NewRound(s.history)
	if err := s.redraw(r); err != nil {
		return "", err
	}
	for {
		k, err := s.tty.ReadKey()
		if err != nil {
			return "", err
		}
		switch r.Handle(s.bindings, k) {
		case tk.Committed:
			line := r.Commit()
			logger.Printf("committed %q, history has %d entries", line, s.history.Len())
			s.tty.WriteString("\r\n")
			return line, s.tty.Flush()
		case tk.Ignored:
			logger.Println("ignored key", k)
		}
		if err := s.redraw(r); err != nil {
			return "", err
		}
	}
}

func (s *Session) redraw(r *tk.Round) error {
	s.tty.ClearLine()
	s.tty.WriteString(s.promptStyle.Render(s.prompt) + r.Displayed())
	s.tty.MoveToColumn(len(s.prompt) + r.Dot())
	return s.tty.Flush()
}
