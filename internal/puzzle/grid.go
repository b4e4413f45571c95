package puzzle

import "math"

const (
	minSnapMultiplier     = 0.4
	defaultSnapMultiplier = 0.65
)

// GridCoord addresses a slot by column and row. Y=0 is the top row.
type GridCoord struct {
	X, Y int
}

// Layout is the world-space placement of every slot for one assembly.
type Layout struct {
	Width, Height int
	PieceSize     Vec2 // after scaling
	Spacing       float64
	Scale         float64
	Anchor        Vec2 // centre of the top-left slot
	SnapRadius    float64

	slots []Vec2
}

// ComputeLayout centres a width x height grid on the origin. When
// targetHeight > 0 the piece size is scaled so the grid, spacing included,
// is exactly targetHeight tall.
func ComputeLayout(pieceSize Vec2, spacing float64, width, height int, targetHeight, snapMultiplier float64) Layout {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	scale := 1.0
	gaps := float64(height-1) * spacing
	if targetHeight > 0 && pieceSize.Y > 0 {
		if avail := targetHeight - gaps; avail > 0 {
			scale = avail / (float64(height) * pieceSize.Y)
		}
	}
	size := pieceSize.Scale(scale)

	totalW := float64(width)*size.X + float64(width-1)*spacing
	totalH := float64(height)*size.Y + gaps
	anchor := Vec2{-totalW/2 + size.X/2, totalH/2 - size.Y/2}

	l := Layout{
		Width:      width,
		Height:     height,
		PieceSize:  size,
		Spacing:    spacing,
		Scale:      scale,
		Anchor:     anchor,
		SnapRadius: math.Min(size.X, size.Y) * clampSnap(snapMultiplier),
		slots:      make([]Vec2, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l.slots[y*width+x] = anchor.Add(Vec2{
				float64(x) * (size.X + spacing),
				-float64(y) * (size.Y + spacing),
			})
		}
	}
	return l
}

func clampSnap(m float64) float64 {
	if m <= minSnapMultiplier || m > 1 {
		return defaultSnapMultiplier
	}
	return m
}

// Slots is the number of slots.
func (l Layout) Slots() int { return len(l.slots) }

// Valid reports whether i names a slot.
func (l Layout) Valid(i int) bool { return i >= 0 && i < len(l.slots) }

func (l Layout) SlotIndex(c GridCoord) int { return c.Y*l.Width + c.X }

func (l Layout) Coord(i int) GridCoord {
	return GridCoord{X: i % l.Width, Y: i / l.Width}
}

// SlotPosition is the world centre of slot i. Invalid indices return the origin.
func (l Layout) SlotPosition(i int) Vec2 {
	if !l.Valid(i) {
		return Vec2{}
	}
	return l.slots[i]
}

// Size is the full grid extent in world units.
func (l Layout) Size() Vec2 {
	return Vec2{
		float64(l.Width)*l.PieceSize.X + float64(l.Width-1)*l.Spacing,
		float64(l.Height)*l.PieceSize.Y + float64(l.Height-1)*l.Spacing,
	}
}

// NearestSlot returns the closest slot within the snap radius. Ties go to
// the lowest index.
func (l Layout) NearestSlot(p Vec2) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i, s := range l.slots {
		d := p.Dist(s)
		if d <= l.SnapRadius && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}
