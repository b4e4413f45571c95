package puzzle

// EventSink receives presentation events from the engine.
type EventSink interface {
	PieceMoved(id int, pos Vec2)
	PiecePlaced(id int)
	PuzzleCompleted(hasNextLevel bool)
	PuzzleReset()
}

// NopSink ignores every event.
type NopSink struct{}

func (NopSink) PieceMoved(int, Vec2) {}
func (NopSink) PiecePlaced(int)      {}
func (NopSink) PuzzleCompleted(bool) {}
func (NopSink) PuzzleReset()         {}
