package puzzle

import (
	"errors"
	"image"
	"testing"
)

func TestCellRects_EqualCellsTileFromOrigin(t *testing.T) {
	for _, size := range [][2]int{{300, 300}, {257, 199}, {1000, 801}} {
		imgW, imgH := size[0], size[1]
		for w := 2; w <= 10; w++ {
			for h := 2; h <= 10; h++ {
				rects, err := CellRects(imgW, imgH, h, w)
				if err != nil {
					t.Fatalf("%dx%d on %dx%d: %v", w, h, imgW, imgH, err)
				}
				if len(rects) != w*h {
					t.Fatalf("expected %d rects, got %d", w*h, len(rects))
				}
				cellW, cellH := CellSize(imgW, imgH, h, w)
				covered := make([]int, imgW*imgH)
				for _, r := range rects {
					if r.W != cellW || r.H != cellH {
						t.Fatalf("%dx%d: rect %+v is not %dx%d", w, h, r, cellW, cellH)
					}
					if r.X < 0 || r.Y < 0 || r.X+r.W > imgW || r.Y+r.H > imgH {
						t.Fatalf("%dx%d: rect %+v outside %dx%d", w, h, r, imgW, imgH)
					}
					for y := r.Y; y < r.Y+r.H; y++ {
						for x := r.X; x < r.X+r.W; x++ {
							covered[y*imgW+x]++
						}
					}
				}
				for i, c := range covered {
					want := 0
					if i%imgW < w*cellW && i/imgW < h*cellH {
						want = 1
					}
					if c != want {
						t.Fatalf("%dx%d on %dx%d: pixel (%d,%d) covered %d times",
							w, h, imgW, imgH, i%imgW, i/imgW, c)
					}
				}
			}
		}
	}
}

func TestCellRects_RowZeroIsTop(t *testing.T) {
	rects, err := CellRects(300, 200, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	// bottom-left origin: row 0 sits at the top half
	if r := rects[0]; r.X != 0 || r.Y != 100 || r.W != 100 || r.H != 100 {
		t.Fatalf("unexpected rect for index 0: %+v", r)
	}
	if r := rects[5]; r.X != 200 || r.Y != 0 {
		t.Fatalf("unexpected rect for index 5: %+v", r)
	}
}

func TestCellRects_ImageTooSmall(t *testing.T) {
	_, err := CellRects(3, 40, 4, 4)
	if !errors.Is(err, ErrImageTooSmall) {
		t.Fatalf("expected ErrImageTooSmall, got %v", err)
	}
}

func TestSlice_FragmentPixelsMatchSource(t *testing.T) {
	src := PatternImage(90, 60)
	frags, err := Slice(src, 2, 3, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(frags) != 6 {
		t.Fatalf("expected 6 fragments, got %d", len(frags))
	}
	// index 0 is the visual top-left: image rows 0..29, columns 0..29
	f := frags[0]
	if f.Row != 0 || f.Col != 0 {
		t.Fatalf("expected row 0 col 0, got %d,%d", f.Row, f.Col)
	}
	if got, want := f.Image.RGBAAt(5, 7), src.RGBAAt(5, 7); got != want {
		t.Fatalf("fragment 0 pixel: expected %v, got %v", want, got)
	}
	// index 4 is bottom row, middle column
	f = frags[4]
	if got, want := f.Image.RGBAAt(0, 0), src.RGBAAt(30, 30); got != want {
		t.Fatalf("fragment 4 origin: expected %v, got %v", want, got)
	}
	if f.Size.X != 3 || f.Size.Y != 3 {
		t.Fatalf("expected world size 3x3, got %+v", f.Size)
	}
}

func TestSlice_OffsetBounds(t *testing.T) {
	base := PatternImage(120, 120)
	sub := base.SubImage(image.Rect(20, 20, 80, 80))
	frags, err := Slice(sub, 2, 2, 100)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := frags[3].Image.RGBAAt(0, 0), base.RGBAAt(50, 50); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSlice_Deterministic(t *testing.T) {
	src := PatternImage(101, 77)
	a, _ := Slice(src, 3, 4, 100)
	b, _ := Slice(src, 3, 4, 100)
	for i := range a {
		if a[i].Rect != b[i].Rect {
			t.Fatalf("fragment %d differs: %+v vs %+v", i, a[i].Rect, b[i].Rect)
		}
	}
}

func TestCellRects_LeftoverPixelsDropped(t *testing.T) {
	rects, err := CellRects(301, 257, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	// cell 75x85: row 0 starts at y=170, column 3 at x=225
	if r := rects[3]; r.X != 225 || r.Y != 170 || r.W != 75 || r.H != 85 {
		t.Fatalf("unexpected top-right rect: %+v", r)
	}
	if r := rects[8]; r.X != 0 || r.Y != 0 || r.W != 75 || r.H != 85 {
		t.Fatalf("unexpected bottom-left rect: %+v", r)
	}
}
