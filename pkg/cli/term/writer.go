package term

import (
	"bytes"
	"fmt"
	"io"
)

// Writer represents the output to a terminal. Output is buffered until Flush
// is called, so that a redraw reaches the terminal in one write.
type Writer interface {
	// WriteString writes text at the cursor.
	WriteString(s string)
	// ClearLine clears the line the cursor is on and moves the cursor to the
	// first column.
	ClearLine()
	// MoveToColumn moves the cursor to the given 0-based column of the
	// current line.
	MoveToColumn(col int)
	// Flush writes all buffered output to the terminal.
	Flush() error
}

type writer struct {
	file io.Writer
	buf  bytes.Buffer
}

// NewWriter returns a Writer that writes VT100 sequences to the given
// io.Writer.
func NewWriter(f io.Writer) Writer {
	return &writer{file: f}
}

const (
	carriageReturn = "\r"
	eraseLine      = "\033[2K"
)

func (w *writer) WriteString(s string) { w.buf.WriteString(s) }

func (w *writer) ClearLine() {
	w.buf.WriteString(carriageReturn + eraseLine)
}

func (w *writer) MoveToColumn(col int) {
	w.buf.WriteString(carriageReturn)
	// \033[0C moves the cursor by one column on most terminals, so it is
	// never emitted.
	if col > 0 {
		fmt.Fprintf(&w.buf, "\033[%dC", col)
	}
}

func (w *writer) Flush() error {
	if w.buf.Len() == 0 {
		return nil
	}
	_, err := w.file.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
