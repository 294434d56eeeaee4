//go:build linux

package term

import (
	"testing"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"src.lnedit.sh/pkg/must"
)

func TestSetup(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("can't open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	fd := int(tty.Fd())
	before := must.OK1(unix.IoctlGetTermios(fd, unix.TCGETS))
	if before.Lflag&(unix.ICANON|unix.ECHO) == 0 {
		t.Fatalf("fresh pty is already in raw mode")
	}

	restore, err := Setup(tty)
	if err != nil {
		t.Fatalf("Setup -> %v", err)
	}
	raw := must.OK1(unix.IoctlGetTermios(fd, unix.TCGETS))
	if raw.Lflag&(unix.ICANON|unix.ECHO) != 0 {
		t.Errorf("ICANON or ECHO still set after Setup")
	}
	if raw.Oflag&unix.OPOST != 0 {
		t.Errorf("OPOST still set after Setup")
	}

	if err := restore(); err != nil {
		t.Errorf("restore -> %v", err)
	}
	after := must.OK1(unix.IoctlGetTermios(fd, unix.TCGETS))
	if after.Lflag != before.Lflag || after.Iflag != before.Iflag || after.Oflag != before.Oflag {
		t.Errorf("terminal attributes not restored: got %+v, want %+v", after, before)
	}
}

func TestSetup_NotATerminal(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()

	if _, err := Setup(r); err == nil {
		t.Errorf("Setup on a pipe -> nil error, want error")
	}
}
