package render

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"
	Bell  = "\a"
)

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", CSI, row, col)
}

// ClearScreen clears the entire screen.
func ClearScreen() string {
	return CSI + "2J"
}

// HideCursor hides the terminal cursor.
func HideCursor() string {
	return CSI + "?25l"
}

// ShowCursor shows the terminal cursor.
func ShowCursor() string {
	return CSI + "?25h"
}

// EnableAltScreen switches to the alternate screen buffer.
func EnableAltScreen() string {
	return CSI + "?1049h"
}

// DisableAltScreen switches back from the alternate screen buffer.
func DisableAltScreen() string {
	return CSI + "?1049l"
}

// WriteCellSGR writes a single cell's full SGR + character to the builder.
// Uses combined SGR to avoid state leakage between cells.
func WriteCellSGR(sb *strings.Builder, c Cell) {
	if c.Bold {
		sb.WriteString("\x1b[0;1;38;2;")
	} else {
		sb.WriteString("\x1b[0;38;2;")
	}
	writeRGB(sb, c.Fg)
	sb.WriteString(";48;2;")
	writeRGB(sb, c.Bg)
	sb.WriteByte('m')
	sb.WriteRune(c.Ch)
}

func writeRGB(sb *strings.Builder, c RGB) {
	sb.WriteString(strconv.Itoa(int(c.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.B)))
}

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Palette.
var (
	Black     = RGB{0, 0, 0}
	White     = RGB{255, 255, 255}
	HeartRed  = RGB{255, 0, 0}
	warnRed   = RGB{255, 0, 0}
	dimText   = RGB{130, 130, 145}
	panelBg   = RGB{20, 15, 22}
	panelEdge = RGB{200, 180, 120}
)

// ParseHexColor parses "#rrggbb" or "#rgb". The leading '#' is optional.
func ParseHexColor(s string) (RGB, bool) {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

// colorOr parses s and falls back to def when it is not a hex color.
func colorOr(s string, def RGB) RGB {
	if c, ok := ParseHexColor(s); ok {
		return c
	}
	return def
}

// blend mixes a over b; alpha 1 is pure a.
func blend(a, b RGB, alpha float64) RGB {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x)*alpha + float64(y)*(1-alpha) + 0.5)
	}
	return RGB{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B)}
}
