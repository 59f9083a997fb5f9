package render

import (
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"

	"soul-battle/internal/game"
)

// ANSIRenderer draws frames as ANSI truecolor diffs onto a terminal stream.
type ANSIRenderer struct {
	mu     sync.Mutex
	w      io.Writer
	engine *Engine
	err    error
}

// NewANSIRenderer creates a renderer for a cols x rows terminal.
func NewANSIRenderer(w io.Writer, cols, rows int) *ANSIRenderer {
	return &ANSIRenderer{w: w, engine: NewEngine(cols, rows)}
}

// Draw writes the cells that changed since the last frame. After the first
// write error every later frame is dropped; Err reports it.
func (r *ANSIRenderer) Draw(f game.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	out := r.engine.Render(f)
	if out == "" {
		return
	}
	if _, err := io.WriteString(r.w, out); err != nil {
		r.err = err
	}
}

// Resize adapts to a new terminal size; the next frame repaints fully.
func (r *ANSIRenderer) Resize(cols, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.Resize(cols, rows)
}

// SetHeart replaces the soul sprite.
func (r *ANSIRenderer) SetHeart(s PixelSprite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.SetHeart(s)
}

// Err returns the first write error.
func (r *ANSIRenderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// ScreenRenderer blits frames onto a tcell screen.
type ScreenRenderer struct {
	mu     sync.Mutex
	screen tcell.Screen
	engine *Engine
}

// NewScreenRenderer creates a renderer sized to the screen.
func NewScreenRenderer(screen tcell.Screen) *ScreenRenderer {
	w, h := screen.Size()
	return &ScreenRenderer{screen: screen, engine: NewEngine(w, h)}
}

// Draw updates the changed cells and shows the screen. A size change
// since the last frame triggers a full repaint.
func (r *ScreenRenderer) Draw(f game.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, h := r.screen.Size()
	if ew, eh := r.engine.Size(); w != ew || h != eh {
		r.engine.Resize(w, h)
		r.screen.Clear()
	}
	r.engine.Draw(f, func(x, y int, c Cell) {
		r.screen.SetContent(x, y, c.Ch, nil, cellStyle(c))
	})
	r.screen.Show()
}

// SetHeart replaces the soul sprite.
func (r *ScreenRenderer) SetHeart(s PixelSprite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine.SetHeart(s)
}

func cellStyle(c Cell) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.Fg.R), int32(c.Fg.G), int32(c.Fg.B))).
		Background(tcell.NewRGBColor(int32(c.Bg.R), int32(c.Bg.G), int32(c.Bg.B)))
	if c.Bold {
		st = st.Bold(true)
	}
	return st
}
