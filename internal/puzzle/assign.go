package puzzle

import "fmt"

// assign moves p into target. Unless suppressSwap is set, a different
// unplaced occupant of target is displaced into previous. The call fails
// without changing anything when the occupant is placed, or when it would
// have to be displaced and previous is not a slot.
func (e *Engine) assign(p *Piece, target, previous int, suppressSwap bool) bool {
	if !e.layout.Valid(target) {
		return false
	}
	if !suppressSwap {
		occ := e.occupants[target]
		switch {
		case occ != noPiece && occ != p.ID:
			other := e.pieces[occ]
			if other.state == PiecePlaced {
				e.trace.Add(e.tick, p.ID, CatSlot, "reject", fmt.Sprintf("slot %d locked by %s", target, pieceLabel(occ)), float64(target))
				return false
			}
			if !e.layout.Valid(previous) {
				e.log.Warn("swap skipped, no slot to displace into",
					"session", e.sessionID, "piece", p.ID, "occupant", occ, "target", target)
				e.trace.Add(e.tick, p.ID, CatSlot, "reject", fmt.Sprintf("no previous slot for %s", pieceLabel(occ)), float64(target))
				return false
			}
			e.occupants[previous] = occ
			other.currentSlot = previous
			other.lastSlot = previous
			e.movePiece(occ, e.layout.SlotPosition(previous))
			e.trace.Add(e.tick, p.ID, CatSlot, "swap", fmt.Sprintf("%s -> slot %d", pieceLabel(occ), previous), float64(previous))
			e.updatePlacement(other)
		case occ == noPiece && e.layout.Valid(previous) && e.occupants[previous] == p.ID:
			e.occupants[previous] = noPiece
		}
	}
	if cur := p.currentSlot; cur != target && e.layout.Valid(cur) && e.occupants[cur] == p.ID {
		e.occupants[cur] = noPiece
	}

	e.occupants[target] = p.ID
	p.currentSlot = target
	p.lastSlot = target
	if p.state == PieceDragging {
		p.state = PieceIdle
	}
	e.movePiece(p.ID, e.layout.SlotPosition(target))
	e.trace.Add(e.tick, p.ID, CatSlot, "assign", fmt.Sprintf("slot %d", target), float64(target))
	e.updatePlacement(p)
	return true
}

// updatePlacement is idempotent: placedCount changes only on a state
// transition.
func (e *Engine) updatePlacement(p *Piece) {
	home := p.currentSlot == p.CorrectSlot
	switch {
	case home && p.state != PiecePlaced:
		p.state = PiecePlaced
		e.placed++
		e.log.Debug("piece placed", "session", e.sessionID, "piece", p.ID, "slot", p.currentSlot, "placed", e.placed)
		e.trace.Add(e.tick, p.ID, CatPiece, "placed", fmt.Sprintf("%d/%d", e.placed, len(e.pieces)), float64(e.placed))
		e.sink.PiecePlaced(p.ID)
		if e.placed == len(e.pieces) {
			e.complete()
		}
	case !home && p.state == PiecePlaced:
		p.state = PieceIdle
		e.placed--
	}
}

// restore snaps p back into its last slot. If that slot cannot take it,
// the piece is only moved to where its home slot is drawn.
func (e *Engine) restore(p *Piece, reason string) {
	if p.state == PieceDragging {
		p.state = PieceIdle
	}
	last := p.lastSlot
	if e.layout.Valid(last) && (e.occupants[last] == noPiece || e.occupants[last] == p.ID) {
		e.trace.Add(e.tick, p.ID, CatSlot, "snapback", fmt.Sprintf("slot %d (%s)", last, reason), float64(last))
		e.assign(p, last, noPiece, true)
		return
	}
	e.log.Warn("snap-back without a valid last slot",
		"session", e.sessionID, "piece", p.ID, "last_slot", last, "reason", reason)
	e.trace.Add(e.tick, p.ID, CatSlot, "snapback", fmt.Sprintf("home position (%s)", reason), -1)
	e.movePiece(p.ID, e.layout.SlotPosition(p.CorrectSlot))
}

// complete fires once per assembly.
func (e *Engine) complete() {
	if e.completed {
		return
	}
	e.completed = true
	e.setPhase(PhaseComplete)
	cfg := e.cfg
	if e.progress != nil {
		if err := e.progress.MarkLevelComplete(cfg.ChapterID, cfg.LevelIndex, cfg.TotalLevels); err != nil {
			e.log.Error("record completion", "session", e.sessionID, "chapter", cfg.ChapterID, "level", cfg.LevelIndex, "error", err)
		}
	}
	hasNext := e.HasNextLevel()
	e.log.Info("puzzle completed", "session", e.sessionID, "chapter", cfg.ChapterID, "level", cfg.LevelIndex, "has_next", hasNext)
	e.trace.Add(e.tick, noPiece, CatPuzzle, "complete", fmt.Sprintf("has_next=%t", hasNext), float64(e.placed))
	e.sink.PuzzleCompleted(hasNext)
}
