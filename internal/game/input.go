package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/jigsaw/internal/puzzle"
)

// pointerFrame is one tick of raw pointer state in screen pixels.
type pointerFrame struct {
	X, Y         float64
	Pressed      bool
	JustPressed  bool
	JustReleased bool
	Focused      bool
}

// pointer tracks a single mouse or touch pointer across ticks.
type pointer struct {
	held    bool
	touch   ebiten.TouchID
	touched bool
	lastX   float64
	lastY   float64
}

// poll reads the mouse, or the first active touch when there is one.
func (pt *pointer) poll() pointerFrame {
	f := pointerFrame{Focused: ebiten.IsFocused()}

	if !pt.touched {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			pt.touch = ids[0]
			pt.touched = true
			f.JustPressed = true
		}
	}
	if pt.touched {
		x, y := ebiten.TouchPosition(pt.touch)
		f.JustReleased = inpututil.IsTouchJustReleased(pt.touch)
		f.Pressed = !f.JustReleased
		if f.JustReleased {
			pt.touched = false
			f.X, f.Y = pt.lastX, pt.lastY // released touches report 0,0
		} else {
			f.X, f.Y = float64(x), float64(y)
		}
		pt.lastX, pt.lastY = f.X, f.Y
		return f
	}

	x, y := ebiten.CursorPosition()
	f.X, f.Y = float64(x), float64(y)
	f.Pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	f.JustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	f.JustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	pt.lastX, pt.lastY = f.X, f.Y
	return f
}

// sample converts a frame into engine input. A press that disappears
// without a release, or focus loss while held, is reported as Lost.
func (pt *pointer) sample(f pointerFrame, v View) puzzle.InputSample {
	in := puzzle.InputSample{Position: v.ToWorld(f.X, f.Y)}
	switch {
	case f.JustPressed && f.Focused:
		in.Down, in.Held = true, true
		pt.held = true
	case pt.held && f.JustReleased:
		in.Up = true
		pt.held = false
	case pt.held && (!f.Focused || !f.Pressed):
		in.Lost = true
		pt.held = false
	case pt.held:
		in.Held = true
	}
	return in
}
