package tk

import (
	"fmt"
	"sort"

	"src.lnedit.sh/pkg/ui"
)

// Action names an editing operation that can be bound to keys.
type Action string

// Actions that can be bound to keys. Inserting characters is not an action;
// it is what happens to printable keys without a binding.
const (
	Backspace     Action = "backspace"
	MoveLeft      Action = "move-left"
	MoveRight     Action = "move-right"
	HistoryPrev   Action = "history-prev"
	HistoryNext   Action = "history-next"
	MoveWordLeft  Action = "move-word-left"
	MoveWordRight Action = "move-word-right"
	MoveLineStart Action = "move-line-start"
	MoveLineEnd   Action = "move-line-end"
	KillWordLeft  Action = "kill-word-left"
	KillLineLeft  Action = "kill-line-left"
	Commit        Action = "commit"
)

var actionFns = map[Action]func(*Round){
	Backspace:     (*Round).Backspace,
	MoveLeft:      (*Round).MoveLeft,
	MoveRight:     (*Round).MoveRight,
	HistoryPrev:   (*Round).HistoryPrev,
	HistoryNext:   (*Round).HistoryNext,
	MoveWordLeft:  (*Round).MoveWordLeft,
	MoveWordRight: (*Round).MoveWordRight,
	MoveLineStart: (*Round).MoveLineStart,
	MoveLineEnd:   (*Round).MoveLineEnd,
	KillWordLeft:  (*Round).KillWordLeft,
	KillLineLeft:  (*Round).KillLineLeft,
}

// Actions returns the names of all actions, sorted.
func Actions() []Action {
	actions := []Action{Commit}
	for a := range actionFns {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

func isAction(a Action) bool {
	_, ok := actionFns[a]
	return ok || a == Commit
}

// Bindings maps keys to actions.
type Bindings map[ui.Key]Action

// DefaultBindings returns the default key bindings. They follow the Emacs
// conventions of readline.
func DefaultBindings() Bindings {
	return Bindings{
		ui.K(ui.Enter): Commit,

		ui.K(ui.Backspace): Backspace,
		ui.K('H', ui.Ctrl): Backspace,

		ui.K(ui.Left):      MoveLeft,
		ui.K('B', ui.Ctrl): MoveLeft,
		ui.K(ui.Right):     MoveRight,
		ui.K('F', ui.Ctrl): MoveRight,

		ui.K(ui.Up):        HistoryPrev,
		ui.K('P', ui.Ctrl): HistoryPrev,
		ui.K(ui.Down):      HistoryNext,
		ui.K('N', ui.Ctrl): HistoryNext,

		ui.K('b', ui.Alt):       MoveWordLeft,
		ui.K(ui.Left, ui.Ctrl):  MoveWordLeft,
		ui.K('f', ui.Alt):       MoveWordRight,
		ui.K(ui.Right, ui.Ctrl): MoveWordRight,

		ui.K('A', ui.Ctrl): MoveLineStart,
		ui.K(ui.Home):      MoveLineStart,
		ui.K('E', ui.Ctrl): MoveLineEnd,
		ui.K(ui.End):       MoveLineEnd,

		ui.K('W', ui.Ctrl):         KillWordLeft,
		ui.K(ui.Backspace, ui.Alt): KillWordLeft,
		ui.K('U', ui.Ctrl):         KillLineLeft,
	}
}

// Override rebinds actions. The map is keyed by action names, and each value
// lists the keys for that action, in the syntax of ui.ParseKey. The keys
// previously bound to an overridden action are unbound first. Nothing is
// changed if any action or key is invalid.
func (b Bindings) Override(m map[string][]string) error {
	parsed := make(map[Action][]ui.Key, len(m))
	for name, keys := range m {
		a := Action(name)
		if !isAction(a) {
			return fmt.Errorf("unknown action %q", name)
		}
		for _, s := range keys {
			k, err := ui.ParseKey(s)
			if err != nil {
				return fmt.Errorf("binding for %s: %w", name, err)
			}
			parsed[a] = append(parsed[a], k)
		}
	}
	for k, a := range b {
		if _, ok := parsed[a]; ok {
			delete(b, k)
		}
	}
	for a, keys := range parsed {
		for _, k := range keys {
			b[k] = a
		}
	}
	return nil
}

// Result describes what a key did to a Round.
type Result int

// Possible values of Result.
const (
	// The key had no effect.
	Ignored Result = iota
	// The key was handled; the round continues.
	Handled
	// The key commits the round. Round.Commit should be called next.
	Committed
)

// Handle applies a key to the round. A key bound to an action runs that
// action. An unbound printable ASCII key without modifiers is inserted.
// Anything else is ignored.
func (r *Round) Handle(b Bindings, k ui.Key) Result {
	if a, ok := b[k]; ok {
		if a == Commit {
			return Committed
		}
		actionFns[a](r)
		return Handled
	}
	if k.Mod == 0 && IsInsertable(k.Rune) {
		r.InsertChar(k.Rune)
		return Handled
	}
	return Ignored
}
