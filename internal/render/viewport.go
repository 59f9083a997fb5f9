package render

// Viewport projects canvas coordinates onto a terminal grid. Each cell
// holds two stacked pixels, so the pixel grid is Cols x 2*Rows.
type Viewport struct {
	CanvasW, CanvasH float64
	Cols, Rows       int
}

// NewViewport maps a canvasW x canvasH canvas onto cols x rows cells.
func NewViewport(canvasW, canvasH float64, cols, rows int) Viewport {
	return Viewport{CanvasW: canvasW, CanvasH: canvasH, Cols: cols, Rows: rows}
}

// PixelW returns the pixel grid width.
func (v Viewport) PixelW() int { return v.Cols }

// PixelH returns the pixel grid height.
func (v Viewport) PixelH() int { return v.Rows * 2 }

// ToPixel converts a canvas position to pixel grid coordinates. The
// result may fall outside the grid.
func (v Viewport) ToPixel(x, y float64) (int, int) {
	if v.CanvasW <= 0 || v.CanvasH <= 0 {
		return -1, -1
	}
	return floorDiv(x*float64(v.PixelW()), v.CanvasW), floorDiv(y*float64(v.PixelH()), v.CanvasH)
}

// ToCell converts a canvas position to cell coordinates (0-based).
func (v Viewport) ToCell(x, y float64) (int, int) {
	px, py := v.ToPixel(x, y)
	if py < 0 {
		return px, -1
	}
	return px, py / 2
}

// ContainsPixel reports whether a pixel lies on the grid.
func (v Viewport) ContainsPixel(px, py int) bool {
	return px >= 0 && px < v.PixelW() && py >= 0 && py < v.PixelH()
}

func floorDiv(num, den float64) int {
	q := num / den
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}
