package level

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// DefaultChapterID names the built-in chapter used when no manifest is found.
const DefaultChapterID = "chapter_1"

// defaultGrids is the built-in chapter's difficulty ramp.
var defaultGrids = [][2]int{
	{3, 3}, {3, 4}, {4, 4}, {4, 5}, {5, 5}, {5, 6},
}

// GenerateArtwork paints a deterministic poster-style picture so that
// every grid cell has distinct detail to line up.
func GenerateArtwork(w, h int, seed int64, label string) image.Image {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- cosmetic only
	dc := gg.NewContext(w, h)
	fw, fh := float64(w), float64(h)

	hue := rng.Float64() * 360
	grad := gg.NewLinearGradient(0, 0, fw, fh)
	grad.AddColorStop(0, hsv(hue, 0.55, 0.95))
	grad.AddColorStop(1, hsv(math.Mod(hue+140, 360), 0.65, 0.45))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, fw, fh)
	dc.Fill()

	// Concentric rings around a random focus.
	cx := fw * (0.3 + rng.Float64()*0.4)
	cy := fh * (0.3 + rng.Float64()*0.4)
	maxR := math.Hypot(fw, fh)
	for r := maxR; r > 8; r -= 24 + rng.Float64()*24 {
		dc.DrawCircle(cx, cy, r)
		dc.SetColor(hsv(math.Mod(hue+r*0.4, 360), 0.5, 0.9))
		dc.SetLineWidth(3 + rng.Float64()*5)
		dc.Stroke()
	}

	// Scattered discs give local texture.
	for i := 0; i < 40; i++ {
		dc.DrawCircle(rng.Float64()*fw, rng.Float64()*fh, 6+rng.Float64()*28)
		c := hsv(math.Mod(hue+rng.Float64()*180, 360), 0.7, 0.95)
		dc.SetColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 150})
		dc.Fill()
	}

	if label != "" {
		dc.SetFontFace(basicfont.Face7x13)
		dc.Push()
		dc.ScaleAbout(6, 6, fw/2, fh/2)
		dc.SetRGBA(0, 0, 0, 0.55)
		dc.DrawStringAnchored(label, fw/2+0.5, fh/2+0.5, 0.5, 0.5)
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(label, fw/2, fh/2, 0.5, 0.5)
		dc.Pop()
	}
	return dc.Image()
}

// DefaultChapter builds the built-in chapter with generated artwork.
func DefaultChapter() Chapter {
	total := len(defaultGrids)
	ch := Chapter{
		ID:            DefaultChapterID,
		Title:         "Chapter 1",
		RevealImage:   GenerateArtwork(900, 600, 7, "CHAPTER 1"),
		RevealRows:    2,
		RevealColumns: 3,
	}
	for i, g := range defaultGrids {
		ch.Levels = append(ch.Levels, Config{
			ChapterID:         DefaultChapterID,
			LevelIndex:        i,
			TotalLevels:       total,
			DisplayName:       fmt.Sprintf("Level %d", i+1),
			Image:             GenerateArtwork(800, 1000, int64(100+i), fmt.Sprintf("%d", i+1)),
			GridWidth:         g[0],
			GridHeight:        g[1],
			TargetWorldHeight: 8,
		})
	}
	return ch
}

// hsv converts hue [0,360), saturation and value [0,1] to RGBA.
func hsv(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8((r + m) * 255),
		G: uint8((g + m) * 255),
		B: uint8((b + m) * 255),
		A: 255,
	}
}
