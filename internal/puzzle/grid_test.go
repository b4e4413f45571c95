package puzzle

import (
	"math"
	"testing"
)

func TestComputeLayout_Idempotent(t *testing.T) {
	a := ComputeLayout(Vec2{1, 1.25}, 0.02, 4, 5, 8, 0.65)
	b := ComputeLayout(Vec2{1, 1.25}, 0.02, 4, 5, 8, 0.65)
	for i := 0; i < a.Slots(); i++ {
		if a.SlotPosition(i) != b.SlotPosition(i) {
			t.Fatalf("slot %d differs: %v vs %v", i, a.SlotPosition(i), b.SlotPosition(i))
		}
	}
}

func TestComputeLayout_CentredAndScaled(t *testing.T) {
	l := ComputeLayout(Vec2{2, 2}, 0.1, 3, 4, 10, 0.65)
	if got := l.Size().Y; math.Abs(got-10) > 1e-9 {
		t.Fatalf("expected total height 10, got %v", got)
	}
	first := l.SlotPosition(0)
	last := l.SlotPosition(l.Slots() - 1)
	if math.Abs(first.X+last.X) > 1e-9 || math.Abs(first.Y+last.Y) > 1e-9 {
		t.Fatalf("grid not centred: first %v last %v", first, last)
	}
	if first.Y <= last.Y {
		t.Fatalf("row 0 should be above the last row: %v vs %v", first, last)
	}
	step := l.SlotPosition(1).X - first.X
	if math.Abs(step-(l.PieceSize.X+0.1)) > 1e-9 {
		t.Fatalf("expected column step %v, got %v", l.PieceSize.X+0.1, step)
	}
}

func TestComputeLayout_NaturalSize(t *testing.T) {
	l := ComputeLayout(Vec2{1.5, 1}, 0.02, 2, 2, 0, 0.65)
	if l.Scale != 1 || l.PieceSize != (Vec2{1.5, 1}) {
		t.Fatalf("expected natural size, got scale %v size %v", l.Scale, l.PieceSize)
	}
	if math.Abs(l.SnapRadius-0.65) > 1e-9 {
		t.Fatalf("expected snap radius 0.65, got %v", l.SnapRadius)
	}
}

func TestComputeLayout_SnapMultiplierClamped(t *testing.T) {
	for _, m := range []float64{0, 0.4, 1.2} {
		l := ComputeLayout(Vec2{1, 1}, 0, 2, 2, 0, m)
		if math.Abs(l.SnapRadius-0.65) > 1e-9 {
			t.Fatalf("multiplier %v: expected default radius, got %v", m, l.SnapRadius)
		}
	}
	if l := ComputeLayout(Vec2{1, 1}, 0, 2, 2, 0, 1); l.SnapRadius != 1 {
		t.Fatalf("multiplier 1 should be kept, got %v", l.SnapRadius)
	}
}

func TestLayout_IndexCoordRoundTrip(t *testing.T) {
	l := ComputeLayout(Vec2{1, 1}, 0, 5, 3, 0, 0.65)
	for i := 0; i < l.Slots(); i++ {
		if got := l.SlotIndex(l.Coord(i)); got != i {
			t.Fatalf("expected %d, got %d", i, got)
		}
	}
	if got := l.SlotIndex(GridCoord{X: 2, Y: 1}); got != 7 {
		t.Fatalf("expected slot 7, got %d", got)
	}
}

func TestNearestSlot(t *testing.T) {
	l := ComputeLayout(Vec2{1, 1}, 0, 2, 2, 0, 1)
	s1 := l.SlotPosition(1)
	if got, ok := l.NearestSlot(s1.Add(Vec2{0.1, -0.1})); !ok || got != 1 {
		t.Fatalf("expected slot 1, got %d ok=%v", got, ok)
	}
	if _, ok := l.NearestSlot(Vec2{10, 10}); ok {
		t.Fatal("expected no slot far away")
	}
	// the origin is equidistant from all four; lowest index wins
	if got, ok := l.NearestSlot(Vec2{}); !ok || got != 0 {
		t.Fatalf("expected tie to go to slot 0, got %d ok=%v", got, ok)
	}
}
