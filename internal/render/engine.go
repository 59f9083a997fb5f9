package render

import (
	"strings"

	"soul-battle/internal/game"
)

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch   rune
	Fg   RGB
	Bg   RGB
	Bold bool
}

var sentinel = Cell{Ch: '\x00', Fg: RGB{R: 255}, Bg: RGB{B: 255}, Bold: true}

// Engine is a per-session double-buffer diff renderer. It is not safe for
// concurrent use; the renderers that wrap it serialize access.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	pixels        [][]RGB // width x 2*height, composed before the cell pass
	heart         PixelSprite
	firstFrame    bool
	lastPhase     game.Phase
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{heart: HeartSprite()}
	e.Resize(width, height)
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	e.width = width
	e.height = height
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.pixels = make([][]RGB, height*2)
	for y := range e.pixels {
		e.pixels[y] = make([]RGB, width)
	}
	e.firstFrame = true
}

// Size returns the terminal dimensions in cells.
func (e *Engine) Size() (int, int) {
	return e.width, e.height
}

// SetHeart replaces the soul sprite. An empty sprite restores the default.
func (e *Engine) SetHeart(s PixelSprite) {
	if s.Width() == 0 {
		s = HeartSprite()
	}
	e.heart = s
	e.firstFrame = true
}

// Invalidate forces the next frame to repaint every cell.
func (e *Engine) Invalidate() {
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render composes the frame and returns the ANSI bytes for the cells that
// changed since the previous call.
func (e *Engine) Render(f game.Frame) string {
	e.compose(f)

	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	e.diff(func(x, y int, c Cell) {
		// Only emit cursor position if not consecutive
		if y != lastRow || x != lastCol {
			sb.WriteString(MoveTo(y+1, x+1))
		}
		WriteCellSGR(&sb, c)
		lastRow = y
		lastCol = x + 1
	})

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}
	return sb.String()
}

// Draw composes the frame and calls set for every changed cell.
func (e *Engine) Draw(f game.Frame, set func(x, y int, c Cell)) {
	e.compose(f)
	e.diff(set)
}

// CellAt returns the last presented cell at (x, y).
func (e *Engine) CellAt(x, y int) Cell {
	if x < 0 || x >= e.width || y < 0 || y >= e.height {
		return Cell{}
	}
	return e.current[y][x]
}

// diff calls emit for every cell that differs from the presented buffer,
// row by row, then swaps buffers.
func (e *Engine) diff(emit func(x, y int, c Cell)) {
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				emit(x, y, nc)
			}
		}
	}
	e.current, e.next = e.next, e.current
	e.firstFrame = false
}

func (e *Engine) setCell(x, y int, c Cell) {
	if x >= 0 && x < e.width && y >= 0 && y < e.height {
		e.next[y][x] = c
	}
}

// writeText writes colored text into a bounded region [col, maxCol). Returns the next column position.
func (e *Engine) writeText(row, col, maxCol int, text string, fg, bg RGB, bold bool) int {
	for _, r := range text {
		if col >= maxCol || col >= e.width {
			break
		}
		e.setCell(col, row, Cell{Ch: r, Fg: fg, Bg: bg, Bold: bold})
		col++
	}
	return col
}

// writeOver writes text keeping each cell's existing background.
func (e *Engine) writeOver(row, col int, text string, fg RGB, bold bool) int {
	for _, r := range text {
		if row >= 0 && row < e.height && col >= 0 && col < e.width {
			bg := e.next[row][col].Bg
			e.next[row][col] = Cell{Ch: r, Fg: fg, Bg: bg, Bold: bold}
		}
		col++
	}
	return col
}

// drawCenteredText draws text centered on the given row.
func (e *Engine) drawCenteredText(row int, text string, fg RGB, bold bool) {
	cx := (e.width - len([]rune(text))) / 2
	e.writeOver(row, cx, text, fg, bold)
}

// hpBarColor returns the fill color for an HP bar based on current/max ratio.
func hpBarColor(current, maxHP int) RGB {
	if maxHP <= 0 {
		return RGB{80, 80, 90}
	}
	ratio := float64(current) / float64(maxHP)
	if ratio > 0.5 {
		return RGB{70, 210, 70}
	} else if ratio > 0.25 {
		return RGB{220, 200, 40}
	}
	return RGB{220, 60, 40}
}

// drawBar draws a width-cell bar filled in proportion to current/maximum.
func (e *Engine) drawBar(row, col, width, current, maximum int, fill RGB) int {
	filled := 0
	if maximum > 0 {
		filled = width * current / maximum
	}
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	for i := 0; i < width; i++ {
		x := col + i
		if x >= e.width || row < 0 || row >= e.height {
			break
		}
		bg := e.next[row][x].Bg
		if i < filled {
			e.next[row][x] = Cell{Ch: '█', Fg: fill, Bg: bg}
		} else {
			e.next[row][x] = Cell{Ch: '░', Fg: RGB{45, 45, 55}, Bg: bg}
		}
	}
	return col + width
}
