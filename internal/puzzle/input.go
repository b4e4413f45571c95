package puzzle

// InputSample is the pointer state for one tick, in world units.
type InputSample struct {
	Position Vec2
	Down     bool // pressed this tick
	Held     bool
	Up       bool // released this tick
	Lost     bool // pointer went away without a release (touch cancel, focus loss)
}

// NoInput is a sample with no pointer activity.
func NoInput() InputSample { return InputSample{} }
