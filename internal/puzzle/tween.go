package puzzle

import "time"

// Curve maps normalised time in [0,1] to progress in [0,1].
type Curve func(t float64) float64

// EaseInOut is the smoothstep curve 3t²-2t³.
func EaseInOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// Tween moves one piece between two points over a fixed duration.
type Tween struct {
	Piece    int
	From, To Vec2
	Elapsed  time.Duration
	Duration time.Duration
	Curve    Curve
}

// Done reports whether the tween has reached its end point.
func (tw *Tween) Done() bool { return tw.Elapsed >= tw.Duration }

// Advance steps the tween by dt and returns the new position.
func (tw *Tween) Advance(dt time.Duration) Vec2 {
	tw.Elapsed += dt
	if tw.Duration <= 0 || tw.Elapsed >= tw.Duration {
		tw.Elapsed = tw.Duration
		return tw.To
	}
	t := float64(tw.Elapsed) / float64(tw.Duration)
	c := tw.Curve
	if c == nil {
		c = EaseInOut
	}
	return Lerp(tw.From, tw.To, c(t))
}

// TweenSet advances a group of tweens together. Waiting for all of them
// is a count of unfinished tasks.
type TweenSet struct {
	tasks []*Tween
}

func (s *TweenSet) Add(tw *Tween) { s.tasks = append(s.tasks, tw) }

// Pending is the number of tweens still running.
func (s *TweenSet) Pending() int {
	n := 0
	for _, tw := range s.tasks {
		if !tw.Done() {
			n++
		}
	}
	return n
}

// Advance steps every unfinished tween and calls move with its new position.
func (s *TweenSet) Advance(dt time.Duration, move func(piece int, pos Vec2)) {
	for _, tw := range s.tasks {
		if tw.Done() {
			continue
		}
		move(tw.Piece, tw.Advance(dt))
	}
}

func (s *TweenSet) Clear() { s.tasks = s.tasks[:0] }
