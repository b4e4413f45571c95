package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type rect struct {
	x int
	y int
	w int
	h int
}

func (r rect) contains(px, py int) bool {
	return px >= r.x && px < r.x+r.w && py >= r.y && py < r.y+r.h
}

type buttonID int

const (
	buttonRestart buttonID = iota
	buttonNext
	buttonMenu
	buttonPlay
)

type button struct {
	id    buttonID
	label string
	r     rect
}

// rowLayout lays n boxes of w x h in a row centred on cx, separated by gap.
func rowLayout(n, cx, y, w, h, gap int) []rect {
	if n <= 0 {
		return nil
	}
	total := n*w + (n-1)*gap
	x := cx - total/2
	out := make([]rect, n)
	for i := range out {
		out[i] = rect{x: x + i*(w+gap), y: y, w: w, h: h}
	}
	return out
}

// gridLayout arranges n cards in rows of cols inside area, keeping every
// card the same size.
func gridLayout(n, cols int, area rect, gap int) []rect {
	if n <= 0 {
		return nil
	}
	if cols <= 0 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	cw := (area.w - (cols-1)*gap) / cols
	ch := (area.h - (rows-1)*gap) / rows
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	out := make([]rect, n)
	for i := range out {
		col, row := i%cols, i/cols
		out[i] = rect{x: area.x + col*(cw+gap), y: area.y + row*(ch+gap), w: cw, h: ch}
	}
	return out
}

// hitButton returns the button under (px, py).
func hitButton(buttons []button, px, py int) (buttonID, bool) {
	for _, b := range buttons {
		if b.r.contains(px, py) {
			return b.id, true
		}
	}
	return 0, false
}

func drawButton(screen *ebiten.Image, b button, hover bool) {
	bg := color.RGBA{R: 38, G: 42, B: 58, A: 240}
	if hover {
		bg = color.RGBA{R: 60, G: 70, B: 100, A: 250}
	}
	x, y, w, h := float32(b.r.x), float32(b.r.y), float32(b.r.w), float32(b.r.h)
	vector.FillRect(screen, x, y, w, h, bg, false)
	vector.StrokeRect(screen, x, y, w, h, 1.0, color.RGBA{R: 120, G: 130, B: 170, A: 255}, false)
	drawLabelCentered(screen, b.label, float64(b.r.x)+float64(b.r.w)/2, float64(b.r.y)+float64(b.r.h)/2, 1.5, color.White)
}
