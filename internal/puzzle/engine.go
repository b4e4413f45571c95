// Package puzzle is the jigsaw assembly engine: it slices a level image
// into pieces, lays out the slot grid, resolves drag and drop with slot
// swapping and snap-back, shuffles, and detects completion.
package puzzle

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Garsondee/jigsaw/internal/level"
	"github.com/Garsondee/jigsaw/internal/logging"
)

var (
	ErrMissingImage    = errors.New("puzzle: level has no source image")
	ErrMissingTemplate = errors.New("puzzle: no piece template")
)

const noPiece = -1

// Settings are the engine tunables.
type Settings struct {
	Spacing        float64 // world units between slots
	PixelsPerUnit  float64
	SnapMultiplier float64 // in (0.4, 1.0]; anything else falls back to 0.65
	AnimateShuffle bool

	InitialDelay       time.Duration
	SettleDelay        time.Duration
	ShuffleDuration    time.Duration
	ShuffleJitter      time.Duration
	MinShuffleDuration time.Duration
}

// DefaultSettings returns the tunables used when config leaves them unset.
func DefaultSettings() Settings {
	return Settings{
		Spacing:            0.02,
		PixelsPerUnit:      100,
		SnapMultiplier:     defaultSnapMultiplier,
		AnimateShuffle:     true,
		InitialDelay:       2 * time.Second,
		SettleDelay:        300 * time.Millisecond,
		ShuffleDuration:    1500 * time.Millisecond,
		ShuffleJitter:      300 * time.Millisecond,
		MinShuffleDuration: 500 * time.Millisecond,
	}
}

func (s Settings) normalized() Settings {
	d := DefaultSettings()
	if s.PixelsPerUnit <= 0 {
		s.PixelsPerUnit = d.PixelsPerUnit
	}
	if s.Spacing < 0 {
		s.Spacing = 0
	}
	s.SnapMultiplier = clampSnap(s.SnapMultiplier)
	if s.MinShuffleDuration <= 0 {
		s.MinShuffleDuration = d.MinShuffleDuration
	}
	return s
}

// PieceTemplate is the visual style shared by every piece.
type PieceTemplate struct {
	FrameColor       color.RGBA
	PlacedFrameColor color.RGBA // zero alpha hides the frame once placed
	FrameWidth       float32    // screen pixels
	SlotColor        color.RGBA
}

// DefaultTemplate is a white frame that disappears once a piece is placed.
func DefaultTemplate() *PieceTemplate {
	return &PieceTemplate{
		FrameColor:       color.RGBA{255, 255, 255, 255},
		PlacedFrameColor: color.RGBA{},
		FrameWidth:       2,
		SlotColor:        color.RGBA{255, 255, 255, 255},
	}
}

// Frame returns the frame colour for a piece in state s.
func (t *PieceTemplate) Frame(s PieceState) color.RGBA {
	if s == PiecePlaced {
		return t.PlacedFrameColor
	}
	return t.FrameColor
}

// ProgressRecorder is told when a level is completed.
type ProgressRecorder interface {
	MarkLevelComplete(chapterID string, levelIndex, totalLevels int) error
}

// Options are the engine's collaborators. Everything is optional except
// Template, which New rejects when nil.
type Options struct {
	Settings Settings
	Template *PieceTemplate
	Levels   []level.Config // ordered levels of the active chapter
	Progress ProgressRecorder
	Sink     EventSink
	Logger   *logging.Logger
	Trace    *EventLog
	Rand     *rand.Rand
}

// Engine owns the pieces and slot occupancy of one assembly at a time.
type Engine struct {
	settings Settings
	template *PieceTemplate
	cfg      level.Config
	levels   []level.Config
	progress ProgressRecorder
	sink     EventSink
	log      *logging.Logger
	trace    *EventLog
	rng      *rand.Rand

	sessionID string
	layout    Layout
	pieces    []*Piece
	occupants []int // slot -> piece id or noPiece
	placed    int
	dragging  int // piece id or noPiece

	phase      Phase
	phaseTimer time.Duration
	tweens     TweenSet
	order      []int // commit order of the animated shuffle
	targets    []int // piece -> slot once the animated shuffle lands
	completed  bool
	tick       int
}

// New validates cfg and builds the first assembly. Configuration errors
// leave no engine behind.
func New(cfg level.Config, opts Options) (*Engine, error) {
	if opts.Template == nil {
		return nil, ErrMissingTemplate
	}
	if opts.Sink == nil {
		opts.Sink = NopSink{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- puzzle shuffle
	}
	e := &Engine{
		settings: opts.Settings.normalized(),
		template: opts.Template,
		levels:   opts.Levels,
		progress: opts.Progress,
		sink:     opts.Sink,
		log:      opts.Logger.With("component", "puzzle"),
		trace:    opts.Trace,
		rng:      opts.Rand,
		dragging: noPiece,
	}
	if err := e.Load(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Load replaces the level and rebuilds. On error the previous assembly
// is kept.
func (e *Engine) Load(cfg level.Config) error {
	if cfg.Image == nil {
		return ErrMissingImage
	}
	cfg = cfg.Normalized()
	prev := e.cfg
	e.cfg = cfg
	if err := e.build(); err != nil {
		e.cfg = prev
		return err
	}
	return nil
}

// build discards the current assembly and creates a fresh one with every
// piece idle in its home slot.
func (e *Engine) build() error {
	cfg := e.cfg
	frags, err := Slice(cfg.Image, cfg.GridHeight, cfg.GridWidth, e.settings.PixelsPerUnit)
	if err != nil {
		return fmt.Errorf("slice level %s/%d: %w", cfg.ChapterID, cfg.LevelIndex, err)
	}
	b := cfg.Image.Bounds()
	cw, ch := CellSize(b.Dx(), b.Dy(), cfg.GridHeight, cfg.GridWidth)
	cell := Vec2{float64(cw) / e.settings.PixelsPerUnit, float64(ch) / e.settings.PixelsPerUnit}
	layout := ComputeLayout(cell, e.settings.Spacing, cfg.GridWidth, cfg.GridHeight,
		cfg.TargetWorldHeight, e.settings.SnapMultiplier)

	n := len(frags)
	pieces := make([]*Piece, n)
	occupants := make([]int, n)
	for i := range frags {
		f := &frags[i]
		home := GridCoord{X: f.Col, Y: f.Row}
		slot := layout.SlotIndex(home)
		pieces[i] = &Piece{
			ID:          i,
			Home:        home,
			CorrectSlot: slot,
			Fragment:    f,
			currentSlot: slot,
			lastSlot:    slot,
			state:       PieceIdle,
			position:    layout.SlotPosition(slot),
			size:        f.Size.Scale(layout.Scale),
		}
		occupants[slot] = i
	}

	e.sessionID = uuid.NewString()
	e.layout = layout
	e.pieces = pieces
	e.occupants = occupants
	e.placed = 0
	e.dragging = noPiece
	e.completed = false
	e.tweens.Clear()
	e.order, e.targets = nil, nil
	e.setPhase(PhaseReveal)

	e.log.Info("assembly built",
		"session", e.sessionID,
		"chapter", cfg.ChapterID,
		"level", cfg.LevelIndex,
		"grid", fmt.Sprintf("%dx%d", cfg.GridWidth, cfg.GridHeight),
		"slots", layout.Slots(),
		"snap_radius", layout.SnapRadius,
	)
	e.trace.Add(e.tick, noPiece, CatPuzzle, "built",
		fmt.Sprintf("%dx%d session=%s", cfg.GridWidth, cfg.GridHeight, e.sessionID), float64(n))
	return nil
}

// Reset force-ends any drag and rebuilds the current level.
func (e *Engine) Reset() error {
	if e.dragging != noPiece {
		e.forceEndDrag("reset")
	}
	if err := e.build(); err != nil {
		return err
	}
	e.trace.Add(e.tick, noPiece, CatPuzzle, "reset", "", 0)
	e.sink.PuzzleReset()
	return nil
}

// Accessors.

func (e *Engine) SessionID() string        { return e.sessionID }
func (e *Engine) Level() level.Config      { return e.cfg }
func (e *Engine) Layout() Layout           { return e.layout }
func (e *Engine) Template() *PieceTemplate { return e.template }
func (e *Engine) Phase() Phase             { return e.phase }
func (e *Engine) Tick() int                { return e.tick }
func (e *Engine) PlacedCount() int         { return e.placed }
func (e *Engine) TotalPieces() int         { return len(e.pieces) }
func (e *Engine) IsComplete() bool         { return e.completed }
func (e *Engine) Pieces() []*Piece         { return e.pieces }

// Piece returns the piece with the given id, or nil.
func (e *Engine) Piece(id int) *Piece {
	if id < 0 || id >= len(e.pieces) {
		return nil
	}
	return e.pieces[id]
}

// Occupant returns the id of the piece in slot, or -1.
func (e *Engine) Occupant(slot int) int {
	if !e.layout.Valid(slot) {
		return noPiece
	}
	return e.occupants[slot]
}

// Dragging returns the piece currently being dragged.
func (e *Engine) Dragging() (int, bool) {
	return e.dragging, e.dragging != noPiece
}

// DrawOrder lists piece ids back to front; the dragged piece is last.
func (e *Engine) DrawOrder() []int {
	out := make([]int, 0, len(e.pieces))
	for _, p := range e.pieces {
		if p.ID != e.dragging {
			out = append(out, p.ID)
		}
	}
	if e.dragging != noPiece {
		out = append(out, e.dragging)
	}
	return out
}

// NextLevel is the level after the current one in the same chapter.
func (e *Engine) NextLevel() (level.Config, bool) {
	return level.Next(e.levels, e.cfg)
}

func (e *Engine) HasNextLevel() bool {
	_, ok := e.NextLevel()
	return ok
}
