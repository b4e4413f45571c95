package puzzle

import "fmt"

// handleInput runs the per-tick drag transitions: a dragging piece moves
// or drops first, then a press may start a new drag.
func (e *Engine) handleInput(in InputSample) {
	if e.dragging != noPiece {
		p := e.pieces[e.dragging]
		switch {
		case in.Down:
			// a fresh press while dragging means the release was missed
			e.forceEndDrag("preempted by new press")
		case in.Up:
			e.movePiece(p.ID, in.Position.Add(p.dragOffset))
			e.endDrag(p, p.position)
			return
		case in.Lost:
			e.endDrag(p, p.position)
			return
		default:
			if in.Held {
				e.movePiece(p.ID, in.Position.Add(p.dragOffset))
			}
			return
		}
	}
	if in.Down {
		if id, ok := e.PieceAt(in.Position); ok {
			e.BeginDrag(id, in.Position)
		}
	}
}

// PieceAt returns the top-most piece under pt.
func (e *Engine) PieceAt(pt Vec2) (int, bool) {
	order := e.DrawOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if e.pieces[order[i]].Contains(pt) {
			return order[i], true
		}
	}
	return noPiece, false
}

// BeginDrag starts dragging piece id from pointer position pt. A piece
// already being dragged is force-ended first. Placed pieces and input
// outside play are ignored.
func (e *Engine) BeginDrag(id int, pt Vec2) bool {
	p := e.Piece(id)
	if p == nil || e.phase != PhasePlaying {
		return false
	}
	if p.state == PiecePlaced {
		e.trace.Add(e.tick, id, CatDrag, "ignored", "placed", 0)
		return false
	}
	if e.dragging == id {
		return true
	}
	if e.dragging != noPiece {
		e.forceEndDrag(fmt.Sprintf("preempted by %s", pieceLabel(id)))
	}

	p.dragOffset = p.position.Sub(pt)
	if e.layout.Valid(p.currentSlot) {
		p.lastSlot = p.currentSlot
		if e.occupants[p.currentSlot] == id {
			e.occupants[p.currentSlot] = noPiece
		}
	}
	p.currentSlot = noPiece
	p.state = PieceDragging
	e.dragging = id
	e.trace.Add(e.tick, id, CatDrag, "start", fmt.Sprintf("from slot %d", p.lastSlot), float64(p.lastSlot))
	return true
}

// endDrag resolves a drop at pt: the nearest slot within the snap radius,
// unless it is locked, else back to the last slot.
func (e *Engine) endDrag(p *Piece, pt Vec2) {
	e.dragging = noPiece
	slot, ok := e.layout.NearestSlot(pt)
	if !ok {
		e.trace.Add(e.tick, p.ID, CatDrag, "drop", "no slot in range", -1)
		e.restore(p, "out of range")
		return
	}
	e.trace.Add(e.tick, p.ID, CatDrag, "drop", fmt.Sprintf("slot %d", slot), float64(slot))
	if occ := e.occupants[slot]; occ != noPiece && occ != p.ID && e.pieces[occ].state == PiecePlaced {
		e.restore(p, "slot locked")
		return
	}
	if !e.assign(p, slot, p.lastSlot, false) {
		e.restore(p, "assign failed")
	}
}

// forceEndDrag drops the active drag back into its last slot at once.
func (e *Engine) forceEndDrag(reason string) {
	p := e.pieces[e.dragging]
	e.dragging = noPiece
	e.log.Debug("drag force-ended", "session", e.sessionID, "piece", p.ID, "reason", reason)
	e.trace.Add(e.tick, p.ID, CatDrag, "preempt", reason, float64(p.lastSlot))
	e.restore(p, reason)
}
