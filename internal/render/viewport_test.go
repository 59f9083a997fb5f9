package render

import "testing"

func TestViewportProjection(t *testing.T) {
	vp := NewViewport(600, 400, 80, 24)
	tests := []struct {
		name     string
		x, y     float64
		px, py   int
		col, row int
		onGrid   bool
	}{
		{"origin", 0, 0, 0, 0, 0, 0, true},
		{"center", 300, 200, 40, 24, 40, 12, true},
		{"box corner", 40, 40, 5, 4, 5, 2, true},
		{"far edge", 599.9, 399.9, 79, 47, 79, 23, true},
		{"past right", 600, 10, 80, 1, 80, 0, false},
		{"above", 10, -5, 1, -1, 1, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, py := vp.ToPixel(tt.x, tt.y)
			if px != tt.px || py != tt.py {
				t.Errorf("ToPixel = (%d,%d), want (%d,%d)", px, py, tt.px, tt.py)
			}
			col, row := vp.ToCell(tt.x, tt.y)
			if col != tt.col || row != tt.row {
				t.Errorf("ToCell = (%d,%d), want (%d,%d)", col, row, tt.col, tt.row)
			}
			if got := vp.ContainsPixel(px, py); got != tt.onGrid {
				t.Errorf("ContainsPixel = %v, want %v", got, tt.onGrid)
			}
		})
	}
}

func TestViewportEmptyCanvas(t *testing.T) {
	vp := NewViewport(0, 0, 80, 24)
	if px, py := vp.ToPixel(10, 10); vp.ContainsPixel(px, py) {
		t.Errorf("empty canvas projected onto the grid at (%d,%d)", px, py)
	}
}
