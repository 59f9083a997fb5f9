package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"

	"soul-battle/internal/game"
)

// Canvas text sizes, in points at 72 DPI.
const (
	nameFontSize = 20
	textFontSize = 16
)

// PNGRenderer draws frames at native canvas resolution. It keeps the last
// drawn image so headless hosts can capture any tick.
type PNGRenderer struct {
	text, bold font.Face

	mu   sync.Mutex
	last image.Image
}

// NewPNGRenderer loads the monospace faces used for canvas text.
func NewPNGRenderer() (*PNGRenderer, error) {
	text, err := loadFace(gomono.TTF, textFontSize)
	if err != nil {
		return nil, fmt.Errorf("text face: %w", err)
	}
	bold, err := loadFace(gomonobold.TTF, nameFontSize)
	if err != nil {
		return nil, fmt.Errorf("bold face: %w", err)
	}
	return &PNGRenderer{text: text, bold: bold}, nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Draw renders the frame and keeps it as the last image.
func (r *PNGRenderer) Draw(f game.Frame) {
	img := r.Render(f)
	r.mu.Lock()
	r.last = img
	r.mu.Unlock()
}

// Last returns the most recently drawn image, or nil.
func (r *PNGRenderer) Last() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Render draws one frame.
func (r *PNGRenderer) Render(f game.Frame) image.Image {
	return r.context(f).Image()
}

// SavePNG renders the frame to a PNG file.
func (r *PNGRenderer) SavePNG(path string, f game.Frame) error {
	return r.context(f).SavePNG(path)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func (r *PNGRenderer) context(f game.Frame) *gg.Context {
	dc := gg.NewContext(int(f.Width), int(f.Height))
	dc.SetHexColor("#000")
	dc.Clear()
	if f.Phase == game.PhaseMenu {
		return dc
	}

	// Battle box
	dc.SetHexColor("#fff")
	dc.SetLineWidth(3)
	dc.DrawRectangle(boxInset, boxInset, f.Width-2*boxInset, f.Height-2*boxInset)
	dc.Stroke()

	dc.SetFontFace(r.bold)
	dc.DrawStringAnchored(f.EnemyName, f.Width/2, hudTextY, 0.5, 0)

	dc.SetFontFace(r.text)
	if f.LowTime {
		dc.SetHexColor("#ff0000")
	}
	dc.DrawStringAnchored(fmt.Sprintf("Time: %ds", f.TimeLeft), f.Width-timerTextX, hudTextY, 0.5, 0)

	for _, b := range f.Bullets {
		c := colorOr(b.Color, White)
		dc.SetRGB255(int(c.R), int(c.G), int(c.B))
		dc.DrawCircle(b.X, b.Y, b.Radius*2)
		dc.Fill()
	}

	drawHeart(dc, f)

	dc.SetHexColor("#fff")
	dc.DrawString(fmt.Sprintf("HP: %d/%d", f.HP, f.MaxHP), hpTextX, hudTextY)

	if f.Result != nil {
		r.drawResult(dc, f, *f.Result)
	}
	return dc
}

// drawHeart fills the soul path scaled to the player size, half
// transparent while blinking.
func drawHeart(dc *gg.Context, f game.Frame) {
	if f.Blink {
		dc.SetRGBA(1, 0, 0, 0.5)
	} else {
		dc.SetRGB(1, 0, 0)
	}
	scale := f.PlayerRadius * 2 / 20
	dc.Push()
	dc.Translate(f.PlayerX, f.PlayerY)
	dc.Scale(scale, scale)
	dc.MoveTo(0, 5)
	dc.CubicTo(-10, -5, -20, 0, -10, 15)
	dc.LineTo(0, 20)
	dc.LineTo(10, 15)
	dc.CubicTo(20, 0, 10, -5, 0, 5)
	dc.ClosePath()
	dc.Fill()
	dc.Pop()
}

func (r *PNGRenderer) drawResult(dc *gg.Context, f game.Frame, res game.Result) {
	lines := strings.Split(res.Message, "\n")
	const lineH = 24
	h := float64(len(lines)+2) * lineH
	w := f.Width / 2
	x := (f.Width - w) / 2
	y := (f.Height - h) / 2

	dc.SetRGBA(0, 0, 0, 0.85)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
	dc.SetHexColor("#fff")
	dc.SetLineWidth(2)
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()

	dc.SetFontFace(r.bold)
	if res.Title == game.TitleVictory {
		dc.SetHexColor("#00ff00")
	} else {
		dc.SetHexColor("#ff0000")
	}
	dc.DrawStringAnchored(res.Title, f.Width/2, y+lineH, 0.5, 0.5)

	dc.SetFontFace(r.text)
	dc.SetHexColor("#fff")
	for i, l := range lines {
		dc.DrawStringAnchored(l, f.Width/2, y+float64(i+2)*lineH, 0.5, 0.5)
	}
}
