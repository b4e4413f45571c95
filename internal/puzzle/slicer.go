package puzzle

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

var ErrImageTooSmall = errors.New("puzzle: image smaller than grid")

// PixelRect is a rectangle in image pixels with the origin at the
// bottom-left corner of the image.
type PixelRect struct {
	X, Y, W, H int
}

// Fragment is the part of the source image that belongs to one grid cell.
type Fragment struct {
	Index int // Row*columns + Col
	Row   int // 0 is the visual top
	Col   int
	Rect  PixelRect
	Image *image.RGBA
	Size  Vec2 // world size at the caller's pixels-per-unit
}

// CellSize is the cell size in pixels. Pixels the integer division leaves
// over on the right and top edges belong to no cell.
func CellSize(imgW, imgH, rows, cols int) (int, int) {
	if rows <= 0 || cols <= 0 {
		return 0, 0
	}
	return imgW / cols, imgH / rows
}

// CellRects returns rows*cols equal rectangles tiling the bottom-left
// cols*cellW x rows*cellH region of an imgW x imgH image, indexed
// row*cols+col with row 0 at the top.
func CellRects(imgW, imgH, rows, cols int) ([]PixelRect, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("puzzle: invalid grid %dx%d", cols, rows)
	}
	cellW, cellH := CellSize(imgW, imgH, rows, cols)
	if cellW == 0 || cellH == 0 {
		return nil, fmt.Errorf("%w: %dx%d pixels for %dx%d cells", ErrImageTooSmall, imgW, imgH, cols, rows)
	}
	rects := make([]PixelRect, 0, rows*cols)
	for row := 0; row < rows; row++ {
		y := (rows - 1 - row) * cellH
		for col := 0; col < cols; col++ {
			rects = append(rects, PixelRect{X: col * cellW, Y: y, W: cellW, H: cellH})
		}
	}
	return rects, nil
}

// Slice cuts src into rows*cols fragments. ppu converts pixels to world units.
func Slice(src image.Image, rows, cols int, ppu float64) ([]Fragment, error) {
	if src == nil {
		return nil, ErrMissingImage
	}
	if ppu <= 0 {
		return nil, fmt.Errorf("puzzle: pixels per unit must be > 0, got %v", ppu)
	}
	b := src.Bounds()
	rects, err := CellRects(b.Dx(), b.Dy(), rows, cols)
	if err != nil {
		return nil, err
	}
	frags := make([]Fragment, len(rects))
	for i, r := range rects {
		// flip to the top-left origin image.Image uses
		top := b.Min.Y + b.Dy() - (r.Y + r.H)
		dst := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
		draw.Draw(dst, dst.Bounds(), src, image.Pt(b.Min.X+r.X, top), draw.Src)
		frags[i] = Fragment{
			Index: i,
			Row:   i / cols,
			Col:   i % cols,
			Rect:  r,
			Image: dst,
			Size:  Vec2{float64(r.W) / ppu, float64(r.H) / ppu},
		}
	}
	return frags, nil
}
