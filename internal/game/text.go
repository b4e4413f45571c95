package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// uiFace is the bitmap face used for titles and buttons; panels keep the
// debug font.
var uiFace = text.NewGoXFace(basicfont.Face7x13)

// drawLabel draws s with its top-left corner at (x, y), scaled by scale.
func drawLabel(dst *ebiten.Image, s string, x, y, scale float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, uiFace, op)
}

// drawLabelCentered centres s on (cx, cy).
func drawLabelCentered(dst *ebiten.Image, s string, cx, cy, scale float64, clr color.Color) {
	w, h := text.Measure(s, uiFace, 0)
	drawLabel(dst, s, cx-w*scale/2, cy-h*scale/2, scale, clr)
}
