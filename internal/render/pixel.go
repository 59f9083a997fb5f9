package render

import (
	"fmt"
	"image/png"
	"os"
)

// MaxSpriteSize bounds loaded sprites on both axes, in pixels.
const MaxSpriteSize = 16

// Pixel represents a single pixel with RGB color and transparency.
type Pixel struct {
	R, G, B     uint8
	Transparent bool
}

// RGB returns the pixel color.
func (p Pixel) RGB() RGB {
	return RGB{p.R, p.G, p.B}
}

// TransparentPixel returns a transparent pixel.
func TransparentPixel() Pixel {
	return Pixel{Transparent: true}
}

// P is a shorthand to create an opaque pixel.
func P(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b}
}

// PixelSprite is a grid of pixels, indexed [y][x]. Every row has the same width.
type PixelSprite [][]Pixel

// Width returns the sprite width in pixels.
func (s PixelSprite) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Height returns the sprite height in pixels.
func (s PixelSprite) Height() int {
	return len(s)
}

// pixelArt builds a sprite from rows of text; 'X' is an opaque pixel of c,
// anything else is transparent.
func pixelArt(c RGB, rows ...string) PixelSprite {
	s := make(PixelSprite, len(rows))
	for y, row := range rows {
		s[y] = make([]Pixel, len(row))
		for x := 0; x < len(row); x++ {
			if row[x] == 'X' {
				s[y][x] = P(c.R, c.G, c.B)
			} else {
				s[y][x] = TransparentPixel()
			}
		}
	}
	return s
}

// HeartSprite returns the default 7x6 red soul.
func HeartSprite() PixelSprite {
	return pixelArt(HeartRed,
		".XX.XX.",
		"XXXXXXX",
		"XXXXXXX",
		".XXXXX.",
		"..XXX..",
		"...X...",
	)
}

// LoadPixelSprite reads a PNG of at most MaxSpriteSize pixels per side.
// Alpha<50% or magenta (#FF00FF) pixels are treated as transparent.
func LoadPixelSprite(path string) (PixelSprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 || w > MaxSpriteSize || h > MaxSpriteSize {
		return nil, fmt.Errorf("%s: expected at most %dx%d, got %dx%d", path, MaxSpriteSize, MaxSpriteSize, w, h)
	}

	ps := make(PixelSprite, h)
	for y := 0; y < h; y++ {
		ps[y] = make([]Pixel, w)
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)

			if a < 0x8000 || (r8 == 0xFF && g8 == 0x00 && b8 == 0xFF) {
				ps[y][x] = TransparentPixel()
			} else {
				ps[y][x] = P(r8, g8, b8)
			}
		}
	}
	return ps, nil
}
