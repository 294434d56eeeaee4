package tk

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.lnedit.sh/pkg/cli/histutil"
	"src.lnedit.sh/pkg/tt"
	"src.lnedit.sh/pkg/ui"
)

func TestDefaultBindings_AllActionsBound(t *testing.T) {
	bound := make(map[Action]bool)
	for _, a := range DefaultBindings() {
		bound[a] = true
	}
	for _, a := range Actions() {
		if !bound[a] {
			t.Errorf("action %s has no default binding", a)
		}
	}
}

func TestActions(t *testing.T) {
	actions := Actions()
	if len(actions) != 12 {
		t.Errorf("got %d actions, want 12", len(actions))
	}
	for i := 1; i < len(actions); i++ {
		if actions[i-1] >= actions[i] {
			t.Errorf("actions not sorted: %v", actions)
		}
	}
}

func TestBindings_Override(t *testing.T) {
	b := DefaultBindings()
	err := b.Override(map[string][]string{
		"kill-line-left": {"Ctrl-K", "Alt-u"},
		"commit":         {"Ctrl-O"},
	})
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	want := map[ui.Key]Action{
		ui.K('K', ui.Ctrl): KillLineLeft,
		ui.K('u', ui.Alt):  KillLineLeft,
		ui.K('O', ui.Ctrl): Commit,
		ui.K('U', ui.Ctrl): "",
		ui.K(ui.Enter):     "",
		ui.K('W', ui.Ctrl): KillWordLeft,
	}
	for k, a := range want {
		if b[k] != a {
			t.Errorf("binding for %s is %q, want %q", k, b[k], a)
		}
	}
}

func TestBindings_Override_Errors(t *testing.T) {
	override := func(m map[string][]string) (Bindings, error) {
		b := DefaultBindings()
		err := b.Override(m)
		return b, err
	}
	tt.Test(t, tt.Fn("Override", override), tt.Table{
		Args(map[string][]string{"no-such-action": {"Ctrl-A"}}).
			Rets(DefaultBindings(), tt.ErrorWithMessage("unknown action")),
		Args(map[string][]string{"commit": {"Hyper-X"}}).
			Rets(DefaultBindings(), tt.ErrorWithMessage("bad modifier")),
		Args(map[string][]string{"commit": {"Enter"}, "backspace": {"NoSuchKey"}}).
			Rets(DefaultBindings(), tt.ErrorWithMessage("bad key")),
	})
}

func TestHandle(t *testing.T) {
	b := DefaultBindings()
	r := NewRound(histutil.NewMemStore())
	tt.Test(t, tt.Fn("Handle", func(k ui.Key) Result { return r.Handle(b, k) }), tt.Table{
		Args(ui.K('a')).Rets(Handled),
		Args(ui.K(ui.Left)).Rets(Handled),
		Args(ui.K('G', ui.Ctrl)).Rets(Ignored),
		Args(ui.K('a', ui.Alt)).Rets(Ignored),
		Args(ui.K('é')).Rets(Ignored),
		Args(ui.K(ui.Enter)).Rets(Committed),
	})
	if diff := cmp.Diff(View(DraftView{"a"}), r.View()); diff != "" {
		t.Errorf("View (-want +got):\n%s", diff)
	}
}
