package render

import (
	"fmt"
	"math"
	"strings"

	"soul-battle/internal/game"
)

// Canvas layout, in canvas units.
const (
	boxInset   = 40 // battle box stroke
	hudTextY   = 30 // baseline of the top text row
	hpTextX    = 50
	timerTextX = 80 // measured back from the right edge
)

var (
	victoryGreen = RGB{0, 255, 0}
	boxWhite     = White
)

// compose fills the next buffer with the frame.
func (e *Engine) compose(f game.Frame) {
	if f.Phase != e.lastPhase {
		e.firstFrame = true
		e.lastPhase = f.Phase
	}
	vp := NewViewport(f.Width, f.Height, e.width, e.height)

	e.clearPixels(Black)
	if f.Phase == game.PhaseMenu {
		e.pixelsToCells()
		e.drawMenu(f)
		return
	}

	for _, b := range f.Bullets {
		// Bullets are drawn at twice their collision radius.
		e.plotDisc(vp, b.X, b.Y, b.Radius*2, colorOr(b.Color, White))
	}
	e.plotHeart(vp, f)
	e.pixelsToCells()

	e.drawBox(vp)
	e.drawTopRow(vp, f)
	if f.Result != nil {
		e.drawResult(*f.Result)
	}
}

func (e *Engine) clearPixels(c RGB) {
	for y := range e.pixels {
		for x := range e.pixels[y] {
			e.pixels[y][x] = c
		}
	}
}

// plotDisc fills every pixel whose center lies within r of (cx, cy). A disc
// smaller than a pixel still marks the pixel under its center.
func (e *Engine) plotDisc(vp Viewport, cx, cy, r float64, c RGB) {
	if vp.PixelW() == 0 || vp.PixelH() == 0 {
		return
	}
	pw := vp.CanvasW / float64(vp.PixelW())
	ph := vp.CanvasH / float64(vp.PixelH())
	x0, y0 := vp.ToPixel(cx-r, cy-r)
	x1, y1 := vp.ToPixel(cx+r, cy+r)

	hit := false
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			if !vp.ContainsPixel(px, py) {
				continue
			}
			mx := (float64(px) + 0.5) * pw
			my := (float64(py) + 0.5) * ph
			if math.Hypot(mx-cx, my-cy) <= r {
				e.pixels[py][px] = c
				hit = true
			}
		}
	}
	if !hit {
		px, py := vp.ToPixel(cx, cy)
		if vp.ContainsPixel(px, py) {
			e.pixels[py][px] = c
		}
	}
}

// plotHeart stamps the soul sprite centered on the player. While blinking
// it is blended half over whatever lies beneath.
func (e *Engine) plotHeart(vp Viewport, f game.Frame) {
	cx, cy := vp.ToPixel(f.PlayerX, f.PlayerY)
	ox := cx - e.heart.Width()/2
	oy := cy - e.heart.Height()/2
	for y, row := range e.heart {
		for x, p := range row {
			if p.Transparent {
				continue
			}
			px, py := ox+x, oy+y
			if !vp.ContainsPixel(px, py) {
				continue
			}
			c := p.RGB()
			if f.Blink {
				c = blend(c, e.pixels[py][px], 0.5)
			}
			e.pixels[py][px] = c
		}
	}
}

// pixelsToCells folds each pair of stacked pixels into one half-block cell.
func (e *Engine) pixelsToCells() {
	for y := 0; y < e.height; y++ {
		top, bottom := e.pixels[2*y], e.pixels[2*y+1]
		for x := 0; x < e.width; x++ {
			if top[x] == bottom[x] {
				e.next[y][x] = Cell{Ch: ' ', Bg: top[x]}
			} else {
				e.next[y][x] = Cell{Ch: '▀', Fg: top[x], Bg: bottom[x]}
			}
		}
	}
}

// stroke draws a box-drawing rune over the cell, keeping its background.
func (e *Engine) stroke(x, y int, ch rune, fg RGB) {
	if x >= 0 && x < e.width && y >= 0 && y < e.height {
		e.next[y][x] = Cell{Ch: ch, Fg: fg, Bg: e.next[y][x].Bg}
	}
}

// drawBox outlines the battle box at boxInset from every canvas edge.
func (e *Engine) drawBox(vp Viewport) {
	left, top := vp.ToCell(boxInset, boxInset)
	right, bottom := vp.ToCell(vp.CanvasW-boxInset, vp.CanvasH-boxInset)
	if right <= left || bottom <= top {
		return
	}
	for x := left + 1; x < right; x++ {
		e.stroke(x, top, '─', boxWhite)
		e.stroke(x, bottom, '─', boxWhite)
	}
	for y := top + 1; y < bottom; y++ {
		e.stroke(left, y, '│', boxWhite)
		e.stroke(right, y, '│', boxWhite)
	}
	e.stroke(left, top, '┌', boxWhite)
	e.stroke(right, top, '┐', boxWhite)
	e.stroke(left, bottom, '└', boxWhite)
	e.stroke(right, bottom, '┘', boxWhite)
}

// drawTopRow draws HP on the left, the enemy name centered and the
// countdown on the right.
func (e *Engine) drawTopRow(vp Viewport, f game.Frame) {
	hpCol, row := vp.ToCell(hpTextX, hudTextY)
	hp := fmt.Sprintf("HP: %d/%d", f.HP, f.MaxHP)
	col := e.writeOver(row, hpCol, hp, White, false)
	e.drawBar(row, col+1, 6, f.HP, f.MaxHP, hpBarColor(f.HP, f.MaxHP))

	e.drawCenteredText(row, f.EnemyName, White, true)

	timer := fmt.Sprintf("Time: %ds", f.TimeLeft)
	timerFg := White
	if f.LowTime {
		timerFg = warnRed
	}
	// The canvas text is centered on width-80.
	tc, _ := vp.ToCell(vp.CanvasW-timerTextX, hudTextY)
	tc -= len(timer) / 2
	if tc+len(timer) > e.width {
		tc = e.width - len(timer)
	}
	e.writeOver(row, tc, timer, timerFg, false)
}

// drawResult draws the result panel centered on the screen.
func (e *Engine) drawResult(r game.Result) {
	lines := strings.Split(r.Message, "\n")
	w := len([]rune(r.Title))
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w += 4
	h := len(lines) + 4 // border, title, gap, lines, border
	x0 := (e.width - w) / 2
	y0 := (e.height - h) / 2

	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			e.setCell(x, y, Cell{Ch: ' ', Bg: panelBg})
		}
	}
	for x := x0 + 1; x < x0+w-1; x++ {
		e.stroke(x, y0, '─', panelEdge)
		e.stroke(x, y0+h-1, '─', panelEdge)
	}
	for y := y0 + 1; y < y0+h-1; y++ {
		e.stroke(x0, y, '│', panelEdge)
		e.stroke(x0+w-1, y, '│', panelEdge)
	}
	e.stroke(x0, y0, '┌', panelEdge)
	e.stroke(x0+w-1, y0, '┐', panelEdge)
	e.stroke(x0, y0+h-1, '└', panelEdge)
	e.stroke(x0+w-1, y0+h-1, '┘', panelEdge)

	titleFg := warnRed
	if r.Title == game.TitleVictory {
		titleFg = victoryGreen
	}
	e.drawCenteredText(y0+1, r.Title, titleFg, true)
	for i, l := range lines {
		e.drawCenteredText(y0+3+i, l, White, false)
	}
}

// drawMenu draws the lobby: the catalog with its keys and the running score.
func (e *Engine) drawMenu(f game.Frame) {
	defs := game.Catalog()
	top := (e.height - len(defs) - 6) / 2

	e.drawCenteredText(top, "SOUL BATTLE", HeartRed, true)
	for i, def := range defs {
		line := fmt.Sprintf("%d  %-8s  ATK %d", i+1, def.Name, def.Attack)
		e.drawCenteredText(top+2+i, line, colorOr(def.Color, White), false)
	}
	row := top + 3 + len(defs)
	e.drawCenteredText(row, fmt.Sprintf("EXP %d  GOLD %d", f.Score.EXP, f.Score.Gold), White, false)
	e.drawCenteredText(row+2, "1-4 Fight  │  R Random  │  Q Quit", dimText, false)
}
