// Package tk contains the editing state machine of the line editor.
package tk

// History is the part of the history store that a Round uses. Only Commit
// calls Add.
type History interface {
	Len() int
	Get(i int) string
	Add(line string) int
}

// View records which line a Round displays. It is either a HistoryView or a
// DraftView.
type View interface{ isView() }

// HistoryView displays a history entry. The entry is never modified; the
// first edit forks it into a DraftView.
type HistoryView struct{ Index int }

// DraftView displays the private, uncommitted buffer of a Round.
type DraftView struct{ Buffer string }

func (HistoryView) isView() {}
func (DraftView) isView()   {}

// Round keeps the state of one editing round, from an empty line to a commit.
//
// All positions are byte offsets; only ASCII is ever inserted, so a byte is a
// character and a column.
type Round struct {
	history History
	view    View
	// The draft as it was before the view moved into history, restored when
	// the view moves back.
	stash string
	dot   int
}

// NewRound returns a Round that displays an empty draft.
func NewRound(h History) *Round {
	return &Round{history: h, view: DraftView{}}
}

// View returns the current view.
func (r *Round) View() View { return r.view }

// Dot returns the position of the cursor.
func (r *Round) Dot() int { return r.dot }

// ViewIndex returns the index of the displayed history entry, or the length
// of the history if the draft is displayed.
func (r *Round) ViewIndex() int {
	if v, ok := r.view.(HistoryView); ok {
		return v.Index
	}
	return r.history.Len()
}

// Displayed returns the line currently displayed.
func (r *Round) Displayed() string {
	switch v := r.view.(type) {
	case HistoryView:
		return r.history.Get(v.Index)
	case DraftView:
		return v.Buffer
	}
	panic("unreachable")
}

// Returns the draft buffer, first copying the displayed history entry into it
// if a history entry is displayed. Every mutation starts with fork.
func (r *Round) fork() string {
	if v, ok := r.view.(HistoryView); ok {
		r.view = DraftView{r.history.Get(v.Index)}
		r.stash = ""
	}
	return r.view.(DraftView).Buffer
}

// IsInsertable returns whether a rune may be inserted: only printable ASCII
// is accepted, so that one byte is always one column.
func IsInsertable(c rune) bool {
	return 0x20 <= c && c < 0x7f
}

// InsertChar inserts c at the dot and moves the dot past it. Runes for which
// IsInsertable is false are ignored.
func (r *Round) InsertChar(c rune) {
	if !IsInsertable(c) {
		return
	}
	buf := r.fork()
	r.view = DraftView{buf[:r.dot] + string(c) + buf[r.dot:]}
	r.dot++
}

// Backspace deletes the character before the dot.
func (r *Round) Backspace() {
	buf := r.fork()
	if r.dot > 0 {
		r.dot--
		r.view = DraftView{buf[:r.dot] + buf[r.dot+1:]}
	}
}

// MoveLeft moves the dot left by one character.
func (r *Round) MoveLeft() {
	if r.dot > 0 {
		r.dot--
	}
}

// MoveRight moves the dot right by one character.
func (r *Round) MoveRight() {
	if r.dot < len(r.Displayed()) {
		r.dot++
	}
}

// HistoryPrev displays the previous history entry.
func (r *Round) HistoryPrev() {
	if i := r.ViewIndex(); i > 0 {
		r.moveView(i - 1)
	}
}

// HistoryNext displays the next history entry, or the draft after the last
// entry.
func (r *Round) HistoryNext() {
	if i := r.ViewIndex(); i < r.history.Len() {
		r.moveView(i + 1)
	}
}

// Moves the view to the given index. A dot at the end of the old line stays
// at the end of the new line; a dot beyond the new line is clamped.
func (r *Round) moveView(i int) {
	prevLen := len(r.Displayed())
	if v, ok := r.view.(DraftView); ok {
		r.stash = v.Buffer
	}
	if i == r.history.Len() {
		r.view = DraftView{r.stash}
	} else {
		r.view = HistoryView{i}
	}
	currLen := len(r.Displayed())
	if r.dot == prevLen || r.dot > currLen {
		r.dot = currLen
	}
}

// MoveWordLeft moves the dot to the start of the word before it.
func (r *Round) MoveWordLeft() {
	r.dot = wordLeft(r.Displayed(), r.dot)
}

// MoveWordRight moves the dot to the end of the word after it.
func (r *Round) MoveWordRight() {
	r.dot = wordRight(r.Displayed(), r.dot)
}

// MoveLineStart moves the dot to the start of the line.
func (r *Round) MoveLineStart() {
	r.dot = 0
}

// MoveLineEnd moves the dot to the end of the line.
func (r *Round) MoveLineEnd() {
	r.dot = len(r.Displayed())
}

// KillWordLeft deletes from the start of the word before the dot to the dot.
func (r *Round) KillWordLeft() {
	buf := r.fork()
	b := wordLeft(buf, r.dot)
	r.view = DraftView{buf[:b] + buf[r.dot:]}
	r.dot = b
}

// KillLineLeft deletes from the start of the line to the dot.
func (r *Round) KillLineLeft() {
	buf := r.fork()
	r.view = DraftView{buf[r.dot:]}
	r.dot = 0
}

// Commit returns the committed line. A draft is appended to the history; a
// displayed history entry is returned as is, without being appended again.
func (r *Round) Commit() string {
	switch v := r.view.(type) {
	case HistoryView:
		return r.history.Get(v.Index)
	case DraftView:
		r.history.Add(v.Buffer)
		return v.Buffer
	}
	panic("unreachable")
}
