package clitest

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.lnedit.sh/pkg/ui"
)

func TestFakeTTY_Setup(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	restoreCalled := 0
	ttyCtrl.SetSetup(func() error { restoreCalled++; return nil }, nil)

	restore, err := tty.Setup()
	if err != nil {
		t.Errorf("Setup -> error %v, want nil", err)
	}
	restore()
	if restoreCalled != 1 {
		t.Errorf("Setup did not return restore")
	}
	if setups, restores := ttyCtrl.SetupCounts(); setups != 1 || restores != 1 {
		t.Errorf("SetupCounts() -> (%d, %d), want (1, 1)", setups, restores)
	}
}

func TestFakeTTY_SetupError(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	setupErr := errors.New("no terminal")
	ttyCtrl.SetSetup(nil, setupErr)

	_, err := tty.Setup()
	if err != setupErr {
		t.Errorf("Setup -> error %v, want %v", err, setupErr)
	}
}

func TestFakeTTY_Keys(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	readErr := errors.New("read error")
	ttyCtrl.Inject(ui.K('a'))
	ttyCtrl.InjectString("bc")
	ttyCtrl.InjectError(readErr)
	ttyCtrl.EndInput()
	ttyCtrl.Inject(ui.K('d'))

	for _, want := range []ui.Key{ui.K('a'), ui.K('b'), ui.K('c')} {
		if k, err := tty.ReadKey(); k != want || err != nil {
			t.Errorf("Got (%v, %v), want (%v, nil)", k, err, want)
		}
	}
	if _, err := tty.ReadKey(); err != readErr {
		t.Errorf("Got error %v, want %v", err, readErr)
	}
	for i := 0; i < 2; i++ {
		if _, err := tty.ReadKey(); err != io.EOF {
			t.Errorf("Got error %v, want io.EOF", err)
		}
	}
}

func TestFakeTTY_CloseReaderTwice(t *testing.T) {
	tty, _ := NewFakeTTY()
	tty.CloseReader()
	tty.CloseReader()
	if _, err := tty.ReadKey(); err != io.EOF {
		t.Errorf("Got error %v, want io.EOF", err)
	}
}

func TestFakeTTY_Screen(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()

	tty.WriteString("> hello")
	tty.Flush()
	tty.MoveToColumn(2)
	tty.WriteString("J")
	tty.Flush()
	tty.MoveToColumn(9)
	tty.WriteString("!")
	tty.Flush()
	tty.ClearLine()
	tty.WriteString("> x")
	tty.MoveToColumn(2)
	tty.Flush()
	tty.WriteString("\r\n")
	tty.WriteString("> ")
	tty.Flush()

	wantFrames := []Frame{
		{"> hello", 7},
		{"> Jello", 3},
		{"> Jello  !", 10},
		{"> x", 2},
		{"> ", 2},
	}
	if diff := cmp.Diff(wantFrames, ttyCtrl.Frames()); diff != "" {
		t.Errorf("Frames() (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"> x"}, ttyCtrl.Lines()); diff != "" {
		t.Errorf("Lines() (-want +got):\n%s", diff)
	}
	if got := ttyCtrl.LastFrame(); got != ttyCtrl.Screen() {
		t.Errorf("LastFrame() = %v, Screen() = %v", got, ttyCtrl.Screen())
	}
}

func TestFakeTTY_Log(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	tty.ClearLine()
	tty.WriteString("> ")
	tty.MoveToColumn(2)
	tty.Flush()

	wantLog := []string{"clear", `write "> "`, "column 2", "flush"}
	if diff := cmp.Diff(wantLog, ttyCtrl.Log()); diff != "" {
		t.Errorf("Log() (-want +got):\n%s", diff)
	}
	ttyCtrl.ResetLog()
	if log := ttyCtrl.Log(); len(log) != 0 {
		t.Errorf("Log() after ResetLog -> %v, want empty", log)
	}
}

func TestGetTTYCtrl(t *testing.T) {
	tty, _ := NewFakeTTY()
	if _, ok := GetTTYCtrl(tty); !ok {
		t.Errorf("GetTTYCtrl(fake) -> false, want true")
	}
}

func TestFakeTTY_SkipsSGR(t *testing.T) {
	tty, ttyCtrl := NewFakeTTY()
	tty.WriteString("\033[1;32m> \033[mx")
	tty.Flush()

	if got, want := ttyCtrl.LastFrame(), (Frame{"> x", 3}); got != want {
		t.Errorf("got frame %v, want %v", got, want)
	}
}
