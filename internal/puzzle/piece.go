package puzzle

import "math"

// PieceState is the lifecycle of one piece within an assembly.
type PieceState int

const (
	PieceIdle PieceState = iota
	PieceDragging
	PiecePlaced
)

func (s PieceState) String() string {
	switch s {
	case PieceIdle:
		return "idle"
	case PieceDragging:
		return "dragging"
	case PiecePlaced:
		return "placed"
	}
	return "unknown"
}

// Piece is one grid cell's fragment. Only the Engine mutates it.
type Piece struct {
	ID          int
	Home        GridCoord
	CorrectSlot int
	Fragment    *Fragment

	currentSlot int // -1 while dragging
	lastSlot    int
	state       PieceState
	position    Vec2
	size        Vec2
	dragOffset  Vec2
}

func (p *Piece) CurrentSlot() int    { return p.currentSlot }
func (p *Piece) LastSlot() int       { return p.lastSlot }
func (p *Piece) State() PieceState   { return p.state }
func (p *Piece) IsPlaced() bool      { return p.state == PiecePlaced }
func (p *Piece) Position() Vec2      { return p.position }
func (p *Piece) Size() Vec2          { return p.size }
func (p *Piece) InCorrectSlot() bool { return p.currentSlot == p.CorrectSlot }

// Contains reports whether pt lies inside the piece's rectangle.
func (p *Piece) Contains(pt Vec2) bool {
	return math.Abs(pt.X-p.position.X) <= p.size.X/2 &&
		math.Abs(pt.Y-p.position.Y) <= p.size.Y/2
}
