//go:build unix

package term

import (
	"os"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"src.lnedit.sh/pkg/ui"
)

// reader reads terminal escape sequences and decodes them into keys.
type reader struct {
	fr      fileReader
	br      *pushbackReader
	stopped atomic.Bool
}

func newReader(f *os.File) (*reader, error) {
	fr, err := newFileReader(f)
	if err != nil {
		return nil, err
	}
	return &reader{fr: fr, br: &pushbackReader{rd: fr}}, nil
}

func (rd *reader) ReadKey() (ui.Key, error) {
	if rd.stopped.Load() {
		return ui.Key{}, ErrStopped
	}
	return readKey(rd.br)
}

func (rd *reader) Stop() {
	if rd.stopped.Swap(true) {
		return
	}
	rd.fr.Stop()
}

func (rd *reader) Close() {
	rd.fr.Close()
}

// A byteReaderWithTimeout that can take back bytes. Bytes taken back are
// returned by later reads before anything else, without waiting.
type pushbackReader struct {
	rd      byteReaderWithTimeout
	pending []byte
}

func (r *pushbackReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	if n := len(r.pending); n > 0 {
		b := r.pending[n-1]
		r.pending = r.pending[:n-1]
		return b, nil
	}
	return r.rd.ReadByteWithTimeout(timeout)
}

func (r *pushbackReader) unreadByte(b byte) { r.pending = append(r.pending, b) }

// Used by readRune in readKey to signal end of current sequence.
const runeEndOfSeq rune = -1

// Timeout for bytes in escape sequences. Modern terminal emulators send escape
// sequences very fast, so 10ms is more than sufficient. SSH connections on a
// slow link might be problematic though.
var keySeqTimeout = 10 * time.Millisecond

func readKey(rd *pushbackReader) (key ui.Key, err error) {
	var r rune
	r, err = readRune(rd, -1)
	if err != nil {
		return
	}

	currentSeq := string(r)
	// Attempts to read a rune within a timeout of keySeqTimeout. It returns
	// runeEndOfSeq if there is any error; the caller should terminate the
	// current sequence when it sees that value.
	readRune :=
		func() rune {
			r, e := readRune(rd, keySeqTimeout)
			if e != nil {
				return runeEndOfSeq
			}
			currentSeq += string(r)
			return r
		}
	badSeq := func(msg string) {
		err = seqError{msg, currentSeq}
	}

	switch r {
	case 0x1b: // ^[ Escape
		r2 := readRune()
		// rxvt and derivatives prepend another ESC to a CSI-style or G3-style
		// sequence to signal Alt. If that happens, remember this now; it will
		// be later picked up when parsing those two kinds of sequences.
		//
		// Other terminals like xterm encode Alt in the modifier argument of
		// the sequence instead, so this is only needed for rxvt.
		hasTwoLeadingESC := false
		if r2 == 0x1b {
			hasTwoLeadingESC = true
			r2 = readRune()
		}
		if r2 == runeEndOfSeq {
			// Nothing follows. Taken as a lone Escape.
			key = ui.K('[', ui.Ctrl)
			break
		}
		switch r2 {
		case '[':
			// A '[' follows. CSI style function key sequence.
			r = readRune()
			if r == runeEndOfSeq {
				key = ui.K('[', ui.Alt)
				return
			}

			nums := make([]int, 0, 2)
		CSISeq:
			for {
				switch {
				case r == ';':
					nums = append(nums, 0)
				case '0' <= r && r <= '9':
					if len(nums) == 0 {
						nums = append(nums, 0)
					}
					cur := len(nums) - 1
					nums[cur] = nums[cur]*10 + int(r-'0')
				case r == runeEndOfSeq:
					badSeq("incomplete CSI")
					return
				default: // Treat as a terminator.
					break CSISeq
				}

				r = readRune()
			}
			k := parseCSI(nums, r)
			if k == (ui.Key{}) {
				badSeq("bad CSI")
			} else {
				if hasTwoLeadingESC {
					k.Mod |= ui.Alt
				}
				key = k
			}
		case 'O':
			// An 'O' follows. G3 style function key sequence: read one rune.
			r = readRune()
			if r == runeEndOfSeq {
				// Nothing follows after 'O'. Taken as Alt-O.
				key = ui.K('O', ui.Alt)
				return
			}
			k, ok := g3Seq[r]
			if ok {
				if hasTwoLeadingESC {
					k.Mod |= ui.Alt
				}
				key = k
			} else {
				badSeq("bad G3")
			}
		default:
			// Something other than '[' or 'O' follows. Taken as an
			// Alt-modified key, possibly also modified by Ctrl.
			key = ctrlModify(r2)
			key.Mod |= ui.Alt
		}
	default:
		key = ctrlModify(r)
	}
	return
}

// Reads one UTF-8 encoded rune. Invalid encodings decode to utf8.RuneError. A
// byte that cannot continue the current encoding ends it, and is left for the
// next read.
func readRune(rd *pushbackReader, timeout time.Duration) (rune, error) {
	b, err := rd.ReadByteWithTimeout(timeout)
	if err != nil {
		return runeEndOfSeq, err
	}
	if b < utf8.RuneSelf {
		return rune(b), nil
	}
	var n int
	switch {
	case b&0xe0 == 0xc0:
		n = 2
	case b&0xf0 == 0xe0:
		n = 3
	case b&0xf8 == 0xf0:
		n = 4
	default:
		return utf8.RuneError, nil
	}
	buf := []byte{b}
	for len(buf) < n {
		b, err := rd.ReadByteWithTimeout(keySeqTimeout)
		if err != nil {
			return utf8.RuneError, nil
		}
		if b&0xc0 != 0x80 {
			rd.unreadByte(b)
			return utf8.RuneError, nil
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	return r, nil
}

// Determines whether a rune corresponds to a Ctrl-modified key and returns the
// ui.Key the rune represents.
func ctrlModify(r rune) ui.Key {
	switch r {
	case 0x0:
		return ui.K('`', ui.Ctrl) // ^@
	case 0x1e:
		return ui.K('6', ui.Ctrl) // ^^
	case 0x1f:
		return ui.K('/', ui.Ctrl) // ^_
	case '\r':
		// In raw mode the Enter key sends ^M instead of ^J.
		return ui.K(ui.Enter)
	case ui.Tab, ui.Enter, ui.Backspace: // ^I ^J ^?
		// Ambiguous Ctrl keys; prefer the non-Ctrl form as they are more likely.
		return ui.K(r)
	default:
		// Regular ui.Ctrl sequences.
		if 0x1 <= r && r <= 0x1d {
			return ui.K(r+0x40, ui.Ctrl)
		}
	}
	return ui.K(r)
}

// Tables for key sequences. Comments document which terminal emulators are
// known to generate which sequences. The terminal emulators tested are
// categorized into xterm (including actual xterm, libvte-based terminals,
// Konsole and Terminal.app unless otherwise noted), urxvt, tmux.

// G3-style key sequences: \eO followed by exactly one character. For instance,
// \eOA is Up. These cannot be extended to support modifier keys, other than a
// leading \e for Alt (e.g. \e\eOA is Alt-Up). Terminals that send G3-style
// key sequences typically switch to CSI-style ones when a non-Alt modifier key
// is pressed.
var g3Seq = map[rune]ui.Key{
	// xterm, tmux; only in applications that enable keypad transmit mode.
	// According to the urxvt manpage, \eO[ABCD] are sent for Ctrl-Shift arrow
	// keys, but urxvt 9.22 sends \eO[abcd] for those, same as Ctrl.
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	// urxvt
	'a': ui.K(ui.Up, ui.Ctrl), 'b': ui.K(ui.Down, ui.Ctrl),
	'c': ui.K(ui.Right, ui.Ctrl), 'd': ui.K(ui.Left, ui.Ctrl),
	// xterm, urxvt, tmux
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

// Tables for CSI-style key sequences. A CSI sequence is \e[ followed by zero or
// more numerical arguments (separated by semicolons), ending in a non-numeric,
// non-semicolon rune. CSI-style key sequences are a subset of them.
//
// In all variants, modifier keys are encoded in numerical arguments; see
// xtermModify. Although the encoding can express almost any key combination,
// many terminals send the same sequence for Shift-Up as for Up.

// CSI-style key sequences identified by the last rune. For instance, \e[A is
// Up. When modified, two numerical arguments are added, the first always being
// 1 and the second identifying the modifier. For instance, \e[1;5D is
// Ctrl-Left.
var csiSeqByLast = map[rune]ui.Key{
	// xterm, urxvt, tmux
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	// urxvt
	'a': ui.K(ui.Up, ui.Shift), 'b': ui.K(ui.Down, ui.Shift),
	'c': ui.K(ui.Right, ui.Shift), 'd': ui.K(ui.Left, ui.Shift),
	// xterm (Terminal.app only sends those in alternate screen)
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	// xterm, urxvt, tmux
	'Z': ui.K(ui.Tab, ui.Shift),
}

// CSI-style key sequences ending with '~' with one or two numerical
// arguments. The first argument identifies the key, and the optional second
// argument identifies the modifier. For instance, \e[3~ is Delete, and \e[3;5~
// is Ctrl-Delete.
//
// An alternative encoding of the modifier key, only known to be used by urxvt
// (and likely rxvt), is to change the last rune: '$' for Shift, '^' for Ctrl,
// and '@' for Ctrl+Shift. The numeric argument is kept unchanged. For
// instance, \e[3^ is Ctrl-Delete.
var csiSeqTilde = map[int]rune{
	// tmux (NOTE: urxvt uses the pair for Find/Select)
	1: ui.Home, 4: ui.End,
	// xterm (Terminal.app sends ^M for Fn+Enter), urxvt, tmux
	2: ui.Insert,
	// xterm, urxvt, tmux
	3: ui.Delete,
	// xterm (Terminal.app only sends those in alternate screen), urxvt, tmux
	// NOTE: called Prior/Next in urxvt manpage
	5: ui.PageUp, 6: ui.PageDown,
	// urxvt
	7: ui.Home, 8: ui.End,
	// urxvt
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4,
	// xterm, urxvt, tmux
	// NOTE: 16 and 22 are unused
	15: ui.F5, 17: ui.F6, 18: ui.F7, 19: ui.F8,
	20: ui.F9, 21: ui.F10, 23: ui.F11, 24: ui.F12,
}

// parseCSI parses a CSI-style key sequence.
func parseCSI(nums []int, last rune) ui.Key {
	if k, ok := csiSeqByLast[last]; ok {
		if len(nums) == 0 {
			// Unmodified: \e[A (Up)
			return k
		} else if len(nums) == 2 && nums[0] == 1 {
			// Modified: \e[1;5A (Ctrl-Up)
			return xtermModify(k, nums[1])
		} else {
			return ui.Key{}
		}
	}

	switch last {
	case '~':
		if len(nums) == 1 || len(nums) == 2 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				k := ui.K(r)
				if len(nums) == 1 {
					// Unmodified: \e[5~ (e.g. PageUp)
					return k
				}
				// Modified: \e[5;5~ (e.g. Ctrl-PageUp)
				return xtermModify(k, nums[1])
			}
		}
	case '$', '^', '@':
		if len(nums) == 1 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				var mod ui.Mod
				switch last {
				case '$':
					mod = ui.Shift
				case '^':
					mod = ui.Ctrl
				case '@':
					mod = ui.Shift | ui.Ctrl
				}
				return ui.K(r, mod)
			}
		}
	}

	return ui.Key{}
}

// xtermModify applies a modifier argument in the xterm encoding: 1 plus a
// bitmask of Shift (1), Alt (2), Ctrl (4) and Meta (8). An argument of 0 is
// treated as no modifier.
func xtermModify(k ui.Key, mod int) ui.Key {
	if mod < 0 || mod > 16 {
		// Out of range
		return ui.Key{}
	}
	if mod == 0 {
		return k
	}
	modFlags := mod - 1
	if modFlags&0x1 != 0 {
		k.Mod |= ui.Shift
	}
	if modFlags&0x2 != 0 {
		k.Mod |= ui.Alt
	}
	if modFlags&0x4 != 0 {
		k.Mod |= ui.Ctrl
	}
	if modFlags&0x8 != 0 {
		// This should be Meta, but Meta and Alt are conflated.
		k.Mod |= ui.Alt
	}
	return k
}
