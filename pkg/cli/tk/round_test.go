package tk

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.lnedit.sh/pkg/cli/histutil"
	"src.lnedit.sh/pkg/ui"
)

// Feeds keys to a new Round until one of them commits. Returns the committed
// line and whether a commit happened.
func feed(h History, b Bindings, keys ...ui.Key) (string, bool) {
	r := NewRound(h)
	for _, k := range keys {
		if r.Handle(b, k) == Committed {
			return r.Commit(), true
		}
	}
	return "", false
}

func typed(s string) []ui.Key {
	keys := make([]ui.Key, len(s))
	for i, c := range s {
		keys[i] = ui.K(c)
	}
	return keys
}

func keys(groups ...any) []ui.Key {
	var keys []ui.Key
	for _, g := range groups {
		switch g := g.(type) {
		case string:
			keys = append(keys, typed(g)...)
		case ui.Key:
			keys = append(keys, g)
		default:
			panic("bad key group")
		}
	}
	return keys
}

var (
	enter     = ui.K(ui.Enter)
	up        = ui.K(ui.Up)
	down      = ui.K(ui.Down)
	left      = ui.K(ui.Left)
	right     = ui.K(ui.Right)
	killWord  = ui.K('W', ui.Ctrl)
	killLine  = ui.K('U', ui.Ctrl)
	backspace = ui.K(ui.Backspace)
)

var roundTests = []struct {
	name        string
	history     []string
	keys        []ui.Key
	wantLine    string
	wantHistory []string
}{
	{
		name:        "empty line",
		keys:        keys(enter),
		wantLine:    "",
		wantHistory: []string{""},
	},
	{
		name:        "typed line",
		keys:        keys("hi", enter),
		wantLine:    "hi",
		wantHistory: []string{"hi"},
	},
	{
		name:        "typed line with space",
		keys:        keys("hi you", enter),
		wantLine:    "hi you",
		wantHistory: []string{"hi you"},
	},
	{
		name:        "insert before cursor",
		keys:        keys("h", left, "i", enter),
		wantLine:    "ih",
		wantHistory: []string{"ih"},
	},
	{
		name:        "recall without edit",
		history:     []string{"a"},
		keys:        keys(up, enter),
		wantLine:    "a",
		wantHistory: []string{"a"},
	},
	{
		name:        "recall with edit",
		history:     []string{"a"},
		keys:        keys(up, "b", enter),
		wantLine:    "ab",
		wantHistory: []string{"a", "ab"},
	},
	{
		name:        "kill word",
		keys:        keys("hi you", killWord, enter),
		wantLine:    "hi ",
		wantHistory: []string{"hi "},
	},
	{
		name:        "kill line",
		keys:        keys("hi you", killLine, enter),
		wantLine:    "",
		wantHistory: []string{""},
	},
	{
		name:        "kill line in the middle",
		keys:        keys("hi you", left, left, killLine, enter),
		wantLine:    "ou",
		wantHistory: []string{"ou"},
	},
	{
		name:        "backspace",
		keys:        keys("hix", backspace, enter),
		wantLine:    "hi",
		wantHistory: []string{"hi"},
	},
	{
		name:        "backspace at start",
		keys:        keys("hi", ui.K('A', ui.Ctrl), backspace, enter),
		wantLine:    "hi",
		wantHistory: []string{"hi"},
	},
	{
		name:        "backspace on recalled entry forks",
		history:     []string{"abc"},
		keys:        keys(up, backspace, enter),
		wantLine:    "ab",
		wantHistory: []string{"abc", "ab"},
	},
	{
		name:        "recall older entry",
		history:     []string{"a", "b"},
		keys:        keys(up, up, enter),
		wantLine:    "a",
		wantHistory: []string{"a", "b"},
	},
	{
		name:        "recall stops at oldest entry",
		history:     []string{"a", "b"},
		keys:        keys(up, up, up, up, enter),
		wantLine:    "a",
		wantHistory: []string{"a", "b"},
	},
	{
		name:        "draft is restored after browsing history",
		history:     []string{"a"},
		keys:        keys("draft", up, down, enter),
		wantLine:    "draft",
		wantHistory: []string{"a", "draft"},
	},
	{
		name:        "down past the draft is a no-op",
		history:     []string{"a"},
		keys:        keys("x", down, down, enter),
		wantLine:    "x",
		wantHistory: []string{"a", "x"},
	},
	{
		name:        "editing a recalled entry discards the draft",
		history:     []string{"a"},
		keys:        keys("draft", up, "b", enter),
		wantLine:    "ab",
		wantHistory: []string{"a", "ab"},
	},
	{
		name:        "word movement and insertion",
		keys:        keys("hi you", ui.K('b', ui.Alt), "x", ui.K('E', ui.Ctrl), "!", enter),
		wantLine:    "hi xyou!",
		wantHistory: []string{"hi xyou!"},
	},
	{
		name:        "control keys are not inserted",
		keys:        keys("a", ui.K('G', ui.Ctrl), ui.K(ui.F1), ui.K('x', ui.Alt), ui.K('\t'), "b", enter),
		wantLine:    "ab",
		wantHistory: []string{"ab"},
	},
	{
		name:        "non-ASCII runes are not inserted",
		keys:        keys("a", ui.K('é'), ui.K('语'), "b", enter),
		wantLine:    "ab",
		wantHistory: []string{"ab"},
	},
}

func TestRound(t *testing.T) {
	for _, test := range roundTests {
		t.Run(test.name, func(t *testing.T) {
			h := histutil.NewMemStore(test.history...)
			line, ok := feed(h, DefaultBindings(), test.keys...)
			if !ok {
				t.Fatalf("no commit")
			}
			if line != test.wantLine {
				t.Errorf("got line %q, want %q", line, test.wantLine)
			}
			if diff := cmp.Diff(test.wantHistory, h.All()); diff != "" {
				t.Errorf("history (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRound_NoCommit(t *testing.T) {
	h := histutil.NewMemStore("a")
	_, ok := feed(h, DefaultBindings(), keys(up, "bc")...)
	if ok {
		t.Errorf("got commit, want none")
	}
	if diff := cmp.Diff([]string{"a"}, h.All()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestRound_ForkOnWrite(t *testing.T) {
	h := histutil.NewMemStore("abc")
	r := NewRound(h)

	r.HistoryPrev()
	if diff := cmp.Diff(View(HistoryView{0}), r.View()); diff != "" {
		t.Errorf("View after HistoryPrev (-want +got):\n%s", diff)
	}
	r.MoveLeft()
	r.MoveLineStart()
	r.MoveWordRight()
	if _, ok := r.View().(HistoryView); !ok {
		t.Errorf("navigation forked the view: %#v", r.View())
	}

	r.InsertChar('X')
	if diff := cmp.Diff(View(DraftView{"abcX"}), r.View()); diff != "" {
		t.Errorf("View after InsertChar (-want +got):\n%s", diff)
	}
	if got := h.Get(0); got != "abc" {
		t.Errorf("history entry mutated to %q", got)
	}
	if r.ViewIndex() != h.Len() {
		t.Errorf("ViewIndex() = %d, want %d", r.ViewIndex(), h.Len())
	}
}

func TestRound_DotClamping(t *testing.T) {
	h := histutil.NewMemStore("a long entry", "ab")
	r := NewRound(h)
	for _, c := range "draft" {
		r.InsertChar(c)
	}

	// At the end of the line, the dot follows the end.
	r.HistoryPrev()
	checkDot(t, r, 2)
	r.HistoryPrev()
	checkDot(t, r, 12)

	// Elsewhere it stays if it fits.
	r.MoveLineStart()
	r.MoveRight()
	r.HistoryNext()
	checkDot(t, r, 1)

	// And is clamped if it doesn't.
	r.HistoryPrev()
	r.MoveWordRight()
	checkDot(t, r, 6)
	r.HistoryNext()
	checkDot(t, r, 2)

	r.HistoryNext()
	checkDot(t, r, 5)
	if got := r.Displayed(); got != "draft" {
		t.Errorf("Displayed() = %q, want %q", got, "draft")
	}
}

func checkDot(t *testing.T, r *Round, want int) {
	t.Helper()
	if r.Dot() != want {
		t.Errorf("Dot() = %d, want %d", r.Dot(), want)
	}
}

func TestRound_CommitUneditedRecallDoesNotAppend(t *testing.T) {
	h := histutil.NewMemStore("x", "y")
	for i := 0; i < 2; i++ {
		r := NewRound(h)
		r.HistoryPrev()
		r.HistoryPrev()
		r.MoveLeft()
		if got := r.Commit(); got != "x" {
			t.Errorf("Commit() = %q, want %q", got, "x")
		}
	}
	if h.Len() != 2 {
		t.Errorf("history has %d entries, want 2", h.Len())
	}
}

var randomKeys = []ui.Key{
	ui.K('a'), ui.K('b'), ui.K(' '), ui.K('.'), ui.K('é'), ui.K('\t'),
	up, down, left, right, backspace, killWord, killLine,
	ui.K('A', ui.Ctrl), ui.K('E', ui.Ctrl),
	ui.K('b', ui.Alt), ui.K('f', ui.Alt),
}

// Random walks through the state machine, checking that the dot and the view
// stay in range and that history entries are never changed by editing.
func TestRound_RandomWalk(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	seed := []string{"hi you", "", "foo.bar baz", "x"}
	b := DefaultBindings()
	for walk := 0; walk < 200; walk++ {
		h := histutil.NewMemStore(seed...)
		r := NewRound(h)
		for step := 0; step < 50; step++ {
			k := randomKeys[rnd.Intn(len(randomKeys))]
			r.Handle(b, k)
			if r.Dot() < 0 || r.Dot() > len(r.Displayed()) {
				t.Fatalf("walk %d step %d: dot %d out of range for %q",
					walk, step, r.Dot(), r.Displayed())
			}
			if i := r.ViewIndex(); i < 0 || i > h.Len() {
				t.Fatalf("walk %d step %d: view index %d out of range", walk, step, i)
			}
		}
		if diff := cmp.Diff(seed, h.All()); diff != "" {
			t.Fatalf("walk %d: history changed (-want +got):\n%s", walk, diff)
		}
	}
}
