package puzzle

import (
	"fmt"
	"time"
)

// Phase is the engine's position in the reveal, shuffle and play sequence.
type Phase int

const (
	PhaseReveal    Phase = iota // solved image on show, input ignored
	PhaseSettle                 // short pause before the shuffle starts
	PhaseShuffling              // tweens running, input ignored
	PhasePlaying
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseReveal:
		return "reveal"
	case PhaseSettle:
		return "settle"
	case PhaseShuffling:
		return "shuffling"
	case PhasePlaying:
		return "playing"
	case PhaseComplete:
		return "complete"
	}
	return "unknown"
}

func (e *Engine) setPhase(p Phase) {
	e.phase = p
	e.phaseTimer = 0
}

// Update advances the engine by one frame. Input is only acted on while
// playing.
func (e *Engine) Update(dt time.Duration, in InputSample) {
	e.tick++
	switch e.phase {
	case PhaseReveal:
		if !e.settings.AnimateShuffle {
			e.Shuffle()
			return
		}
		e.phaseTimer += dt
		if e.phaseTimer >= e.settings.InitialDelay {
			e.setPhase(PhaseSettle)
		}
	case PhaseSettle:
		e.phaseTimer += dt
		if e.phaseTimer >= e.settings.SettleDelay {
			e.startAnimatedShuffle()
		}
	case PhaseShuffling:
		e.tweens.Advance(dt, e.movePiece)
		if e.tweens.Pending() == 0 {
			e.commitAnimatedShuffle()
		}
	case PhasePlaying:
		e.handleInput(in)
	}
}

// Shuffle performs an instant shuffle and starts play. Any drag is
// dropped and placement is recomputed from scratch.
func (e *Engine) Shuffle() {
	if e.dragging != noPiece {
		e.forceEndDrag("shuffle")
	}
	e.tweens.Clear()
	plan := instantPlan(e.rng, len(e.pieces))
	e.clearOccupancy()
	e.completed = false
	for i, p := range e.pieces {
		e.assign(p, plan[i], noPiece, true)
	}
	e.log.Debug("instant shuffle", "session", e.sessionID, "placed", e.placed)
	e.trace.Add(e.tick, noPiece, CatPuzzle, "shuffle_commit", "instant", float64(e.placed))
	e.setPhase(PhasePlaying)
}

func (e *Engine) startAnimatedShuffle() {
	order, targets := animatedPlan(e.rng, len(e.pieces))
	e.order, e.targets = order, targets
	e.tweens.Clear()
	s := e.settings
	for _, id := range order {
		p := e.pieces[id]
		e.tweens.Add(&Tween{
			Piece:    id,
			From:     p.position,
			To:       e.layout.SlotPosition(targets[id]),
			Duration: shuffleDuration(e.rng, s.ShuffleDuration, s.ShuffleJitter, s.MinShuffleDuration),
			Curve:    EaseInOut,
		})
	}
	e.log.Debug("animated shuffle started", "session", e.sessionID, "tweens", len(order))
	e.trace.Add(e.tick, noPiece, CatPuzzle, "shuffle_start",
		fmt.Sprintf("%d tweens", len(order)), float64(len(order)))
	e.setPhase(PhaseShuffling)
}

// commitAnimatedShuffle writes final occupancy once every tween landed.
func (e *Engine) commitAnimatedShuffle() {
	e.clearOccupancy()
	for _, id := range e.order {
		e.assign(e.pieces[id], e.targets[id], noPiece, true)
	}
	e.tweens.Clear()
	e.order, e.targets = nil, nil
	e.log.Debug("animated shuffle committed", "session", e.sessionID, "placed", e.placed)
	e.trace.Add(e.tick, noPiece, CatPuzzle, "shuffle_commit", "animated", float64(e.placed))
	e.setPhase(PhasePlaying)
}

// clearOccupancy empties every slot and returns all pieces to idle.
func (e *Engine) clearOccupancy() {
	for i := range e.occupants {
		e.occupants[i] = noPiece
	}
	for _, p := range e.pieces {
		p.currentSlot = noPiece
		p.state = PieceIdle
	}
	e.placed = 0
}

func (e *Engine) movePiece(id int, pos Vec2) {
	p := e.pieces[id]
	p.position = pos
	e.sink.PieceMoved(id, pos)
	e.trace.AddVerbose(e.tick, id, CatPiece, "move", fmt.Sprintf("%.2f,%.2f", pos.X, pos.Y), 0)
}
