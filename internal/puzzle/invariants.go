package puzzle

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies that slot occupancy and piece state agree.
// It returns every violation joined into one error, or nil.
func (e *Engine) CheckInvariants() error {
	var errs []error
	claims := make(map[int]int, len(e.pieces))
	dragging := 0
	placed := 0
	for _, p := range e.pieces {
		switch p.state {
		case PieceDragging:
			dragging++
			if p.currentSlot != noPiece {
				errs = append(errs, fmt.Errorf("%s dragging but claims slot %d", pieceLabel(p.ID), p.currentSlot))
			}
			if e.dragging != p.ID {
				errs = append(errs, fmt.Errorf("%s dragging but engine tracks %s", pieceLabel(p.ID), pieceLabel(e.dragging)))
			}
		case PiecePlaced:
			placed++
			if p.currentSlot != p.CorrectSlot {
				errs = append(errs, fmt.Errorf("%s placed in slot %d, home is %d", pieceLabel(p.ID), p.currentSlot, p.CorrectSlot))
			}
		}
		if p.currentSlot == noPiece {
			continue
		}
		if prev, dup := claims[p.currentSlot]; dup {
			errs = append(errs, fmt.Errorf("slot %d claimed by %s and %s", p.currentSlot, pieceLabel(prev), pieceLabel(p.ID)))
		}
		claims[p.currentSlot] = p.ID
		if !e.layout.Valid(p.currentSlot) {
			errs = append(errs, fmt.Errorf("%s claims invalid slot %d", pieceLabel(p.ID), p.currentSlot))
		} else if e.occupants[p.currentSlot] != p.ID {
			errs = append(errs, fmt.Errorf("%s claims slot %d, table says %s", pieceLabel(p.ID), p.currentSlot, pieceLabel(e.occupants[p.currentSlot])))
		}
	}
	for slot, id := range e.occupants {
		if id == noPiece {
			continue
		}
		if id < 0 || id >= len(e.pieces) || e.pieces[id].currentSlot != slot {
			errs = append(errs, fmt.Errorf("slot %d lists %s which does not claim it", slot, pieceLabel(id)))
		}
	}
	if dragging > 1 {
		errs = append(errs, fmt.Errorf("%d pieces dragging at once", dragging))
	}
	if placed != e.placed {
		errs = append(errs, fmt.Errorf("placed count %d, %d pieces placed", e.placed, placed))
	}
	return errors.Join(errs...)
}
