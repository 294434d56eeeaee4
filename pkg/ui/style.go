package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// NoColor can be set to true to suppress foreground and background colors
// when rendering. Its initial value follows https://no-color.org.
var NoColor = os.Getenv("NO_COLOR") != ""

// Style specifies how text shall be displayed.
type Style struct {
	Fg         Color
	Bg         Color
	Bold       bool
	Dim        bool
	Italic     bool
	Underlined bool
	Blink      bool
	Inverse    bool
}

// SGR returns the SGR sequence for the style, without the leading "\033[" and
// the trailing "m".
func (s Style) SGR() string {
	var sgr []string

	addIf := func(b bool, code string) {
		if b {
			sgr = append(sgr, code)
		}
	}
	addIf(s.Bold, "1")
	addIf(s.Dim, "2")
	addIf(s.Italic, "3")
	addIf(s.Underlined, "4")
	addIf(s.Blink, "5")
	addIf(s.Inverse, "7")
	if s.Fg != nil && !NoColor {
		sgr = append(sgr, s.Fg.fgSGR())
	}
	if s.Bg != nil && !NoColor {
		sgr = append(sgr, s.Bg.bgSGR())
	}

	return strings.Join(sgr, ";")
}

// Render returns text wrapped in the escape sequences that display it in the
// style and reset the style afterwards. It returns text unchanged when the
// style has no effect. The escape sequences take no columns on the terminal.
func (s Style) Render(text string) string {
	sgr := s.SGR()
	if sgr == "" || text == "" {
		return text
	}
	return "\033[" + sgr + "m" + text + "\033[m"
}

var boolFieldAccessor = map[string]func(*Style) *bool{
	"bold":       func(s *Style) *bool { return &s.Bold },
	"dim":        func(s *Style) *bool { return &s.Dim },
	"italic":     func(s *Style) *bool { return &s.Italic },
	"underlined": func(s *Style) *bool { return &s.Underlined },
	"blink":      func(s *Style) *bool { return &s.Blink },
	"inverse":    func(s *Style) *bool { return &s.Inverse },
}

// ParseStyle parses a style from space-separated words. Each word is one of:
//
//   - An attribute: bold, dim, italic, underlined, blink or inverse.
//
//   - A color, optionally prefixed with "fg-", sets the foreground color.
//
//   - A color prefixed with "bg-" sets the background color.
//
// Colors are named like "red" and "bright-red", "color0" to "color255" for
// the xterm 256-color palette, or "#rrggbb" for 24-bit colors.
func ParseStyle(s string) (Style, error) {
	var style Style
	for _, word := range strings.Fields(s) {
		if f, ok := boolFieldAccessor[word]; ok {
			*f(&style) = true
			continue
		}
		target, name := &style.Fg, word
		if strings.HasPrefix(word, "fg-") {
			name = word[len("fg-"):]
		} else if strings.HasPrefix(word, "bg-") {
			target, name = &style.Bg, word[len("bg-"):]
		}
		color := parseColor(name)
		if color == nil {
			return Style{}, fmt.Errorf("bad style word: %q", word)
		}
		*target = color
	}
	return style, nil
}

// Color represents a color.
type Color interface {
	fgSGR() string
	bgSGR() string
	String() string
}

// Builtin ANSI colors.
var (
	Black   Color = ansiColor(0)
	Red     Color = ansiColor(1)
	Green   Color = ansiColor(2)
	Yellow  Color = ansiColor(3)
	Blue    Color = ansiColor(4)
	Magenta Color = ansiColor(5)
	Cyan    Color = ansiColor(6)
	White   Color = ansiColor(7)

	BrightBlack   Color = ansiBrightColor(0)
	BrightRed     Color = ansiBrightColor(1)
	BrightGreen   Color = ansiBrightColor(2)
	BrightYellow  Color = ansiBrightColor(3)
	BrightBlue    Color = ansiBrightColor(4)
	BrightMagenta Color = ansiBrightColor(5)
	BrightCyan    Color = ansiBrightColor(6)
	BrightWhite   Color = ansiBrightColor(7)
)

// XTerm256Color returns a color from the xterm 256-color palette.
func XTerm256Color(i uint8) Color { return xterm256Color(i) }

// TrueColor returns a 24-bit true color.
func TrueColor(r, g, b uint8) Color { return trueColor{r, g, b} }

var colorNames = []string{
	"black", "red", "green", "yellow",
	"blue", "magenta", "cyan", "white",
}

var colorByName = make(map[string]Color)

func init() {
	for i, name := range colorNames {
		colorByName[name] = ansiColor(uint8(i))
		colorByName["bright-"+name] = ansiBrightColor(uint8(i))
	}
}

type ansiColor uint8

func (c ansiColor) fgSGR() string  { return strconv.Itoa(30 + int(c)) }
func (c ansiColor) bgSGR() string  { return strconv.Itoa(40 + int(c)) }
func (c ansiColor) String() string { return colorNames[c] }

type ansiBrightColor uint8

func (c ansiBrightColor) fgSGR() string  { return strconv.Itoa(90 + int(c)) }
func (c ansiBrightColor) bgSGR() string  { return strconv.Itoa(100 + int(c)) }
func (c ansiBrightColor) String() string { return "bright-" + colorNames[c] }

type xterm256Color uint8

func (c xterm256Color) fgSGR() string  { return "38;5;" + strconv.Itoa(int(c)) }
func (c xterm256Color) bgSGR() string  { return "48;5;" + strconv.Itoa(int(c)) }
func (c xterm256Color) String() string { return "color" + strconv.Itoa(int(c)) }

type trueColor struct{ r, g, b uint8 }

func (c trueColor) fgSGR() string { return "38;2;" + c.rgbSGR() }
func (c trueColor) bgSGR() string { return "48;2;" + c.rgbSGR() }

func (c trueColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

func (c trueColor) rgbSGR() string {
	return fmt.Sprintf("%d;%d;%d", c.r, c.g, c.b)
}

func parseColor(name string) Color {
	if color, ok := colorByName[name]; ok {
		return color
	}
	if strings.HasPrefix(name, "color") {
		i, err := strconv.Atoi(name[len("color"):])
		if err == nil && 0 <= i && i < 256 {
			return XTerm256Color(uint8(i))
		}
	} else if strings.HasPrefix(name, "#") && len(name) == 7 {
		var rgb [3]uint8
		for i := range rgb {
			v, err := strconv.ParseUint(name[1+2*i:3+2*i], 16, 8)
			if err != nil {
				return nil
			}
			rgb[i] = uint8(v)
		}
		return TrueColor(rgb[0], rgb[1], rgb[2])
	}
	return nil
}
