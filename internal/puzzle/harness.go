package puzzle

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/Garsondee/jigsaw/internal/level"
	"github.com/Garsondee/jigsaw/internal/progress"
)

// TestSession drives an Engine headlessly with deterministic seeding.
// It is used by tests and by the headless report.
type TestSession struct {
	Engine   *Engine
	Log      *EventLog
	Progress *progress.Tracker
	Step     time.Duration

	// sink counters
	Completions int
	LastHasNext bool
	Resets      int
	Placements  int
	Moves       int

	gridW, gridH int
	imgW, imgH   int
	chapterID    string
	levelIndex   int
	totalLevels  int
	target       float64
	settings     Settings
	seed         int64
	verbose      bool
}

// SessionOption configures a TestSession before the engine is built.
type SessionOption func(*TestSession)

func WithGrid(w, h int) SessionOption {
	return func(ts *TestSession) { ts.gridW, ts.gridH = w, h }
}

// WithSeed sets the shuffle RNG seed.
func WithSeed(seed int64) SessionOption {
	return func(ts *TestSession) { ts.seed = seed }
}

func WithImageSize(w, h int) SessionOption {
	return func(ts *TestSession) { ts.imgW, ts.imgH = w, h }
}

// WithAnimatedShuffle switches between the timed and the instant shuffle.
func WithAnimatedShuffle(on bool) SessionOption {
	return func(ts *TestSession) { ts.settings.AnimateShuffle = on }
}

// WithChapter plays level index of a chapter with total levels.
func WithChapter(chapterID string, index, total int) SessionOption {
	return func(ts *TestSession) {
		ts.chapterID, ts.levelIndex, ts.totalLevels = chapterID, index, total
	}
}

func WithProgress(tr *progress.Tracker) SessionOption {
	return func(ts *TestSession) { ts.Progress = tr }
}

func WithTargetHeight(h float64) SessionOption {
	return func(ts *TestSession) { ts.target = h }
}

// WithSettings replaces the engine settings wholesale.
func WithSettings(s Settings) SessionOption {
	return func(ts *TestSession) { ts.settings = s }
}

// WithVerbose also records per-tick piece moves.
func WithVerbose(v bool) SessionOption {
	return func(ts *TestSession) { ts.verbose = v }
}

// NewTestSession builds an engine over a generated pattern image.
func NewTestSession(opts ...SessionOption) (*TestSession, error) {
	s := DefaultSettings()
	s.AnimateShuffle = false
	ts := &TestSession{
		Step:        16 * time.Millisecond,
		gridW:       3,
		gridH:       3,
		imgW:        300,
		imgH:        300,
		chapterID:   "test",
		totalLevels: 1,
		settings:    s,
		seed:        1,
	}
	for _, o := range opts {
		o(ts)
	}
	if ts.Progress == nil {
		ts.Progress = progress.NewMemoryTracker()
	}
	ts.Log = NewEventLog(ts.verbose)

	levels := make([]level.Config, ts.totalLevels)
	for i := range levels {
		levels[i] = level.Config{
			ChapterID:         ts.chapterID,
			LevelIndex:        i,
			TotalLevels:       ts.totalLevels,
			Image:             PatternImage(ts.imgW, ts.imgH),
			GridWidth:         ts.gridW,
			GridHeight:        ts.gridH,
			TargetWorldHeight: ts.target,
		}
	}
	if ts.levelIndex < 0 || ts.levelIndex >= len(levels) {
		return nil, fmt.Errorf("level index %d outside chapter of %d", ts.levelIndex, len(levels))
	}
	e, err := New(levels[ts.levelIndex], Options{
		Settings: ts.settings,
		Template: DefaultTemplate(),
		Levels:   levels,
		Progress: ts.Progress,
		Sink:     ts,
		Trace:    ts.Log,
		Rand:     rand.New(rand.NewSource(ts.seed)), // #nosec G404 -- test harness
	})
	if err != nil {
		return nil, err
	}
	ts.Engine = e
	return ts, nil
}

// PatternImage encodes each pixel's coordinates in its colour so fragment
// contents can be checked exactly.
func PatternImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), uint8(x>>8<<4 | y>>8), 255})
		}
	}
	return img
}

func (ts *TestSession) PieceMoved(int, Vec2) { ts.Moves++ }
func (ts *TestSession) PiecePlaced(int)      { ts.Placements++ }
func (ts *TestSession) PuzzleReset()         { ts.Resets++ }

func (ts *TestSession) PuzzleCompleted(hasNext bool) {
	ts.Completions++
	ts.LastHasNext = hasNext
}

// Advance runs one engine tick with the given input.
func (ts *TestSession) Advance(in InputSample) {
	ts.Engine.Update(ts.Step, in)
}

// RunUntil ticks with no input until the engine reaches phase.
func (ts *TestSession) RunUntil(phase Phase, maxTicks int) bool {
	for i := 0; i < maxTicks; i++ {
		if ts.Engine.Phase() == phase {
			return true
		}
		ts.Advance(NoInput())
	}
	return ts.Engine.Phase() == phase
}

// StartPlay runs the reveal and shuffle until input is accepted.
func (ts *TestSession) StartPlay() error {
	if !ts.RunUntil(PhasePlaying, 10000) {
		return fmt.Errorf("engine stuck in phase %s", ts.Engine.Phase())
	}
	return nil
}

func (ts *TestSession) Press(pt Vec2)   { ts.Advance(InputSample{Position: pt, Down: true, Held: true}) }
func (ts *TestSession) MoveTo(pt Vec2)  { ts.Advance(InputSample{Position: pt, Held: true}) }
func (ts *TestSession) Release(pt Vec2) { ts.Advance(InputSample{Position: pt, Up: true}) }

// Drag presses on piece id, moves halfway and releases at to. It reports
// whether the piece was picked up.
func (ts *TestSession) Drag(id int, to Vec2) bool {
	p := ts.Engine.Piece(id)
	if p == nil {
		return false
	}
	from := p.Position()
	ts.Press(from)
	got, ok := ts.Engine.Dragging()
	if !ok || got != id {
		ts.Release(from)
		return false
	}
	ts.MoveTo(Lerp(from, to, 0.5))
	ts.Release(to)
	return true
}

// DragToSlot drops piece id on the centre of slot.
func (ts *TestSession) DragToSlot(id, slot int) bool {
	return ts.Drag(id, ts.Engine.Layout().SlotPosition(slot))
}

// SolveStats summarises one Solve run.
type SolveStats struct {
	Drags     int
	Misdrops  int
	Swaps     int
	SnapBacks int
	Ticks     int
}

// Solve drags unplaced pieces home until the puzzle completes or maxDrags
// is spent. With probability mistakeRate a drag instead goes to empty
// space or to a wrong slot.
func (ts *TestSession) Solve(rng *rand.Rand, mistakeRate float64, maxDrags int) SolveStats {
	var st SolveStats
	e := ts.Engine
	startTick := e.Tick()
	swaps0 := ts.Log.Count(CatSlot, "swap")
	snaps0 := ts.Log.Count(CatSlot, "snapback")
	for st.Drags < maxDrags && !e.IsComplete() {
		p := firstUnplaced(e)
		if p == nil {
			break
		}
		to := e.Layout().SlotPosition(p.CorrectSlot)
		if rng != nil && rng.Float64() < mistakeRate {
			st.Misdrops++
			if rng.Intn(2) == 0 {
				size := e.Layout().Size()
				to = Vec2{size.X * 2, size.Y * 2}
			} else {
				to = e.Layout().SlotPosition(rng.Intn(e.Layout().Slots()))
			}
		}
		if ts.Drag(p.ID, to) {
			st.Drags++
		} else {
			break
		}
	}
	st.Swaps = ts.Log.Count(CatSlot, "swap") - swaps0
	st.SnapBacks = ts.Log.Count(CatSlot, "snapback") - snaps0
	st.Ticks = e.Tick() - startTick
	return st
}

func firstUnplaced(e *Engine) *Piece {
	for _, p := range e.Pieces() {
		if !p.IsPlaced() {
			return p
		}
	}
	return nil
}
