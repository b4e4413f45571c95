package game

import (
	"math"

	"github.com/Garsondee/jigsaw/internal/puzzle"
)

// View maps puzzle world space (y up, grid centred on the origin) onto a
// screen rectangle (y down).
type View struct {
	Zoom    float64 // screen pixels per world unit
	CenterX float64 // screen position of the world origin
	CenterY float64
}

// FitView scales worldSize to fill the w x h area at (x, y), leaving margin
// (a fraction of the smaller side) on every edge.
func FitView(worldSize puzzle.Vec2, x, y, w, h int, margin float64) View {
	v := View{
		Zoom:    1,
		CenterX: float64(x) + float64(w)/2,
		CenterY: float64(y) + float64(h)/2,
	}
	if worldSize.X <= 0 || worldSize.Y <= 0 || w <= 0 || h <= 0 {
		return v
	}
	pad := margin * math.Min(float64(w), float64(h))
	availW := float64(w) - 2*pad
	availH := float64(h) - 2*pad
	if availW <= 0 || availH <= 0 {
		availW, availH = float64(w), float64(h)
	}
	v.Zoom = math.Min(availW/worldSize.X, availH/worldSize.Y)
	return v
}

// ToScreen converts a world point to screen pixels.
func (v View) ToScreen(p puzzle.Vec2) (float64, float64) {
	return v.CenterX + p.X*v.Zoom, v.CenterY - p.Y*v.Zoom
}

// ToWorld is the inverse of ToScreen.
func (v View) ToWorld(sx, sy float64) puzzle.Vec2 {
	if v.Zoom == 0 {
		return puzzle.Vec2{}
	}
	return puzzle.Vec2{X: (sx - v.CenterX) / v.Zoom, Y: (v.CenterY - sy) / v.Zoom}
}

// Rect returns the screen rectangle (top-left, size) of a world box.
func (v View) Rect(center, size puzzle.Vec2) (x, y, w, h float32) {
	sx, sy := v.ToScreen(center)
	sw, sh := size.X*v.Zoom, size.Y*v.Zoom
	return float32(sx - sw/2), float32(sy - sh/2), float32(sw), float32(sh)
}
