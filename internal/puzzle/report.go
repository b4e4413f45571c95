package puzzle

import (
	"fmt"
	"strings"
)

// DebugReport is a text snapshot of the assembly meant for the clipboard.
func (e *Engine) DebugReport() string {
	cfg := e.cfg
	var b strings.Builder
	fmt.Fprintf(&b, "--- Jigsaw debug report ---\n")
	fmt.Fprintf(&b, "session=%s tick=%d phase=%s\n", e.sessionID, e.tick, e.phase)
	fmt.Fprintf(&b, "chapter=%s level=%d/%d grid=%dx%d placed=%d/%d complete=%t\n",
		cfg.ChapterID, cfg.LevelIndex+1, cfg.TotalLevels, cfg.GridWidth, cfg.GridHeight,
		e.placed, len(e.pieces), e.completed)
	l := e.layout
	fmt.Fprintf(&b, "piece=%.3fx%.3f scale=%.3f spacing=%.3f snap_radius=%.3f\n",
		l.PieceSize.X, l.PieceSize.Y, l.Scale, l.Spacing, l.SnapRadius)
	if id, ok := e.Dragging(); ok {
		fmt.Fprintf(&b, "dragging=%s\n", pieceLabel(id))
	}

	b.WriteString("\n== slots ==\n")
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			slot := l.SlotIndex(GridCoord{x, y})
			id := e.occupants[slot]
			mark := " "
			if id != noPiece && e.pieces[id].state == PiecePlaced {
				mark = "*"
			}
			fmt.Fprintf(&b, "%s%s ", pieceLabel(id), mark)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n== pieces ==\n")
	for _, p := range e.pieces {
		fmt.Fprintf(&b, "%s home=(%d,%d) slot=%d last=%d state=%s pos=(%.2f,%.2f)\n",
			pieceLabel(p.ID), p.Home.X, p.Home.Y, p.currentSlot, p.lastSlot, p.state,
			p.position.X, p.position.Y)
	}
	if err := e.CheckInvariants(); err != nil {
		fmt.Fprintf(&b, "\n== invariant violations ==\n%v\n", err)
	}
	return b.String()
}
