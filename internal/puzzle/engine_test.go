package puzzle

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/jigsaw/internal/level"
)

func newPlaying(t *testing.T, opts ...SessionOption) *TestSession {
	t.Helper()
	ts, err := NewTestSession(opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := ts.StartPlay(); err != nil {
		t.Fatalf("start play: %v", err)
	}
	mustHold(t, ts)
	return ts
}

func mustHold(t *testing.T, ts *TestSession) {
	t.Helper()
	if err := ts.Engine.CheckInvariants(); err != nil {
		t.Fatalf("invariants broken: %v\n%s", err, ts.Log.Format())
	}
}

// unplaced returns up to n pieces that are not locked, in id order.
func unplaced(e *Engine, n int) []*Piece {
	var out []*Piece
	for _, p := range e.Pieces() {
		if !p.IsPlaced() {
			out = append(out, p)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

func TestNew_ConfigurationErrors(t *testing.T) {
	img := PatternImage(100, 100)
	if _, err := New(level.Config{GridWidth: 3, GridHeight: 3}, Options{Template: DefaultTemplate()}); !errors.Is(err, ErrMissingImage) {
		t.Fatalf("expected ErrMissingImage, got %v", err)
	}
	if _, err := New(level.Config{Image: img, GridWidth: 3, GridHeight: 3}, Options{}); !errors.Is(err, ErrMissingTemplate) {
		t.Fatalf("expected ErrMissingTemplate, got %v", err)
	}
	tiny := PatternImage(5, 5)
	if _, err := New(level.Config{Image: tiny, GridWidth: 10, GridHeight: 10}, Options{Template: DefaultTemplate()}); !errors.Is(err, ErrImageTooSmall) {
		t.Fatalf("expected ErrImageTooSmall, got %v", err)
	}
}

func TestNew_GridClampedIntoRange(t *testing.T) {
	e, err := New(level.Config{Image: PatternImage(200, 200), GridWidth: 1, GridHeight: 20}, Options{Template: DefaultTemplate()})
	if err != nil {
		t.Fatal(err)
	}
	if l := e.Layout(); l.Width != 2 || l.Height != 10 {
		t.Fatalf("expected 2x10, got %dx%d", l.Width, l.Height)
	}
	if e.TotalPieces() != 20 {
		t.Fatalf("expected 20 pieces, got %d", e.TotalPieces())
	}
}

func TestBuild_PiecesStartIdleAtHome(t *testing.T) {
	ts, err := NewTestSession(WithGrid(4, 3))
	if err != nil {
		t.Fatal(err)
	}
	e := ts.Engine
	if e.Phase() != PhaseReveal {
		t.Fatalf("expected reveal phase, got %s", e.Phase())
	}
	if e.PlacedCount() != 0 {
		t.Fatalf("initial layout must not count as placed, got %d", e.PlacedCount())
	}
	for _, p := range e.Pieces() {
		if p.State() != PieceIdle || p.CurrentSlot() != p.CorrectSlot {
			t.Fatalf("%d: expected idle at home, got %s in slot %d", p.ID, p.State(), p.CurrentSlot())
		}
		if p.Position() != e.Layout().SlotPosition(p.CorrectSlot) {
			t.Fatalf("%d: not drawn at its home slot", p.ID)
		}
	}
	if ts.Completions != 0 {
		t.Fatal("building must not complete the puzzle")
	}
}

func TestInstantShuffle_FillsEverySlotOnce(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		ts := newPlaying(t, WithGrid(5, 4), WithSeed(seed))
		e := ts.Engine
		seen := map[int]bool{}
		identity := true
		for slot := 0; slot < e.Layout().Slots(); slot++ {
			id := e.Occupant(slot)
			if id < 0 || seen[id] {
				t.Fatalf("seed %d: slot %d has occupant %d", seed, slot, id)
			}
			seen[id] = true
			if id != slot {
				identity = false
			}
		}
		if identity {
			t.Fatalf("seed %d: shuffle left the puzzle solved", seed)
		}
		if e.Phase() != PhasePlaying {
			t.Fatalf("expected playing, got %s", e.Phase())
		}
	}
}

func TestEndToEnd_ThreeByThreeCompletesOnceThenResets(t *testing.T) {
	ts := newPlaying(t, WithGrid(3, 3), WithSeed(42))
	e := ts.Engine

	st := ts.Solve(nil, 0, 50)
	mustHold(t, ts)
	if !e.IsComplete() || e.PlacedCount() != 9 {
		t.Fatalf("expected complete with 9 placed, got %d\n%s", e.PlacedCount(), e.DebugReport())
	}
	if ts.Completions != 1 {
		t.Fatalf("expected exactly one completion, got %d", ts.Completions)
	}
	if ts.Placements != 9 {
		t.Fatalf("expected 9 placement events, got %d", ts.Placements)
	}
	if st.Drags > 9 {
		t.Fatalf("a perfect solve needs at most 9 drags, used %d", st.Drags)
	}
	if done, _ := ts.Progress.IsLevelCompleted("test", 0); !done {
		t.Fatal("expected progress to record the completion")
	}

	for i := 0; i < 10; i++ {
		ts.Advance(NoInput())
	}
	if ts.Completions != 1 {
		t.Fatalf("completion fired again: %d", ts.Completions)
	}

	if err := e.Reset(); err != nil {
		t.Fatal(err)
	}
	if ts.Resets != 1 {
		t.Fatalf("expected one reset event, got %d", ts.Resets)
	}
	if e.PlacedCount() != 0 || e.IsComplete() {
		t.Fatalf("reset left placed=%d complete=%t", e.PlacedCount(), e.IsComplete())
	}
	for _, p := range e.Pieces() {
		if p.State() != PieceIdle {
			t.Fatalf("piece %d is %s after reset", p.ID, p.State())
		}
	}
	mustHold(t, ts)
}

func TestCompletion_PartialProgressDoesNotFire(t *testing.T) {
	ts := newPlaying(t, WithGrid(3, 3), WithSeed(5))
	e := ts.Engine
	first := unplaced(e, 1)[0]
	if !ts.DragToSlot(first.ID, first.CorrectSlot) {
		t.Fatal("could not pick up piece")
	}
	if !first.IsPlaced() {
		t.Fatalf("piece %d should be placed", first.ID)
	}
	// shuffle the remaining pieces among themselves a few times
	rng := rand.New(rand.NewSource(9)) // #nosec G404 -- test
	for i := 0; i < 20; i++ {
		ps := unplaced(e, len(e.Pieces()))
		if len(ps) < 2 {
			break
		}
		a, b := ps[rng.Intn(len(ps))], ps[rng.Intn(len(ps))]
		ts.DragToSlot(a.ID, b.CurrentSlot())
		mustHold(t, ts)
		if e.PlacedCount() < e.TotalPieces() && ts.Completions != 0 {
			t.Fatalf("completion fired at %d/%d", e.PlacedCount(), e.TotalPieces())
		}
	}
}

func TestDrag_SwapDisplacesOccupantIntoPreviousSlot(t *testing.T) {
	ts := newPlaying(t, WithGrid(4, 4), WithSeed(3))
	e := ts.Engine
	a := unplaced(e, 1)[0]
	from := a.CurrentSlot()
	target := a.CorrectSlot
	b := e.Piece(e.Occupant(target))
	if b == nil || b.ID == a.ID {
		t.Fatalf("expected slot %d to hold another piece", target)
	}

	ts.DragToSlot(a.ID, target)
	mustHold(t, ts)
	if !a.IsPlaced() || a.CurrentSlot() != target {
		t.Fatalf("expected %d placed in %d, got %s in %d", a.ID, target, a.State(), a.CurrentSlot())
	}
	if b.CurrentSlot() != from || e.Occupant(from) != b.ID {
		t.Fatalf("expected displaced piece %d in slot %d, got %d", b.ID, from, b.CurrentSlot())
	}
	if b.Position() != e.Layout().SlotPosition(from) {
		t.Fatal("displaced piece not moved to its new slot")
	}
	swap, ok := ts.Log.LastOf(CatSlot, "swap")
	if !ok || swap.Piece != pieceLabel(a.ID) || int(swap.NumVal) != from {
		t.Fatalf("expected swap by %s into slot %d, got %+v\n%s", pieceLabel(a.ID), from, swap, ts.Log.Format())
	}
	if want := fmt.Sprintf("%s -> slot %d", pieceLabel(b.ID), from); swap.Value != want {
		t.Fatalf("expected swap value %q, got %q", want, swap.Value)
	}
}

func TestAssign_FailsClosedWithoutPreviousSlot(t *testing.T) {
	ts := newPlaying(t, WithGrid(3, 3), WithSeed(8))
	e := ts.Engine
	ps := unplaced(e, 2)
	a, b := ps[0], ps[1]
	aSlot, bSlot := a.CurrentSlot(), b.CurrentSlot()

	if e.assign(a, bSlot, noPiece, false) {
		t.Fatal("assign should fail when the occupant has nowhere to go")
	}
	if a.CurrentSlot() != aSlot || b.CurrentSlot() != bSlot || e.Occupant(bSlot) != b.ID {
		t.Fatal("failed assign changed state")
	}
	mustHold(t, ts)
}

func TestDrag_PlacedPieceIgnored(t *testing.T) {
	ts := newPlaying(t, WithGrid(3, 3), WithSeed(12))
	e := ts.Engine
	a := unplaced(e, 1)[0]
	ts.DragToSlot(a.ID, a.CorrectSlot)
	if !a.IsPlaced() {
		t.Fatal("setup: piece not placed")
	}
	pos := a.Position()
	ts.Press(pos)
	if _, ok := e.Dragging(); ok {
		t.Fatal("placed piece must not start a drag")
	}
	ts.Release(Vec2{100, 100})
	if a.Position() != pos || !a.IsPlaced() {
		t.Fatal("placed piece moved")
	}
	if !ts.Log.HasEntry(CatDrag, "ignored", "placed") {
		t.Fatal("expected ignored drag entry")
	}
}

func TestDrag_LockedSlotSnapsBack(t *testing.T) {
	ts := newPlaying(t, WithGrid(3, 3), WithSeed(21))
	e := ts.Engine
	a := unplaced(e, 1)[0]
	ts.DragToSlot(a.ID, a.CorrectSlot)
	c := unplaced(e, 1)[0]
	home := c.CurrentSlot()

	ts.DragToSlot(c.ID, a.CorrectSlot)
	mustHold(t, ts)
	if c.CurrentSlot() != home || c.Position() != e.Layout().SlotPosition(home) {
		t.Fatalf("expected snap-back to %d, got %d", home, c.CurrentSlot())
	}
	if e.Occupant(a.CorrectSlot) != a.ID || !a.IsPlaced() {
		t.Fatal("locked slot lost its piece")
	}
}

func TestDrag_OutOfRangeSnapsBack(t *testing.T) {
	ts := newPlaying(t, WithGrid(3, 3), WithSeed(2))
	e := ts.Engine
	c := unplaced(e, 1)[0]
	slot := c.CurrentSlot()

	if !ts.Drag(c.ID, Vec2{50, -50}) {
		t.Fatal("could not pick up piece")
	}
	mustHold(t, ts)
	if c.CurrentSlot() != slot || c.State() != PieceIdle {
		t.Fatalf("expected idle in slot %d, got %s in %d", slot, c.State(), c.CurrentSlot())
	}
	if !ts.Log.HasEntry(CatSlot, "snapback", "out of range") {
		t.Fatalf("expected snapback entry\n%s", ts.Log.Format())
	}
}

func TestDrag_PointerLostResolvesAtPiece(t *testing.T) {
	ts := newPlaying(t, WithGrid(3, 3), WithSeed(4))
	e := ts.Engine
	c := unplaced(e, 1)[0]
	slot := c.CurrentSlot()

	ts.Press(c.Position())
	ts.MoveTo(Vec2{40, 40})
	if c.State() != PieceDragging || c.CurrentSlot() != -1 {
		t.Fatalf("expected dragging with no slot, got %s in %d", c.State(), c.CurrentSlot())
	}
	mustHold(t, ts)
	ts.Advance(InputSample{Lost: true})
	if c.CurrentSlot() != slot {
		t.Fatalf("expected snap-back to %d, got %d", slot, c.CurrentSlot())
	}
	mustHold(t, ts)
}

func TestDrag_PreemptionKeepsSingleDrag(t *testing.T) {
	ts := newPlaying(t, WithGrid(4, 4), WithSeed(6))
	e := ts.Engine
	ps := unplaced(e, 2)
	a, b := ps[0], ps[1]
	aSlot := a.CurrentSlot()

	if !e.BeginDrag(a.ID, a.Position()) {
		t.Fatal("could not drag a")
	}
	mustHold(t, ts)
	if !e.BeginDrag(b.ID, b.Position()) {
		t.Fatal("could not drag b")
	}
	mustHold(t, ts)
	if id, ok := e.Dragging(); !ok || id != b.ID {
		t.Fatalf("expected b dragging, got %d", id)
	}
	if a.State() != PieceIdle || a.CurrentSlot() != aSlot {
		t.Fatalf("expected a back in %d, got %s in %d", aSlot, a.State(), a.CurrentSlot())
	}
	pre, ok := ts.Log.LastOf(CatDrag, "preempt")
	if !ok || pre.Piece != pieceLabel(a.ID) || pre.Value != "preempted by "+pieceLabel(b.ID) {
		t.Fatalf("expected a preempted by b, got %+v", pre)
	}
	var starts, preempts int
	for _, le := range ts.Log.FilterPiece(a.ID) {
		switch {
		case le.Category == CatDrag && le.Key == "start":
			starts++
		case le.Category == CatDrag && le.Key == "preempt":
			preempts++
		}
	}
	if starts != 1 || preempts != 1 {
		t.Fatalf("expected one start and one preempt for a, got %d and %d", starts, preempts)
	}
	for _, le := range ts.Log.FilterPiece(b.ID) {
		if le.Key == "preempt" {
			t.Fatalf("b should not be preempted: %+v", le)
		}
	}
}

func TestDrag_NewPressWhileDraggingPreempts(t *testing.T) {
	ts := newPlaying(t, WithGrid(4, 4), WithSeed(6))
	e := ts.Engine
	ps := unplaced(e, 2)
	a, b := ps[0], ps[1]
	aSlot := a.CurrentSlot()

	ts.Press(a.Position())
	ts.MoveTo(Vec2{30, 30})
	ts.Press(b.Position())
	mustHold(t, ts)
	if id, ok := e.Dragging(); !ok || id != b.ID {
		t.Fatalf("expected b dragging, got %d ok=%v", id, ok)
	}
	if a.CurrentSlot() != aSlot {
		t.Fatalf("expected a back in %d, got %d", aSlot, a.CurrentSlot())
	}
}

func TestSwapInvariant_RandomPlay(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		ts := newPlaying(t, WithGrid(5, 5), WithSeed(seed))
		e := ts.Engine
		rng := rand.New(rand.NewSource(seed * 31)) // #nosec G404 -- test
		for i := 0; i < 60 && !e.IsComplete(); i++ {
			ps := unplaced(e, e.TotalPieces())
			p := ps[rng.Intn(len(ps))]
			var to Vec2
			switch rng.Intn(3) {
			case 0:
				to = e.Layout().SlotPosition(p.CorrectSlot)
			case 1:
				to = e.Layout().SlotPosition(rng.Intn(e.Layout().Slots()))
			default:
				to = Vec2{rng.Float64()*20 - 10, rng.Float64()*20 - 10}
			}
			ts.Drag(p.ID, to)
			mustHold(t, ts)
		}
		ts.Solve(nil, 0, 100)
		mustHold(t, ts)
		if ts.Completions != 1 {
			t.Fatalf("seed %d: expected one completion, got %d", seed, ts.Completions)
		}
	}
}

func TestAnimatedShuffle_PhasesAndInputGate(t *testing.T) {
	ts, err := NewTestSession(WithGrid(3, 3), WithAnimatedShuffle(true), WithSeed(77))
	if err != nil {
		t.Fatal(err)
	}
	e := ts.Engine
	p := e.Piece(0)
	ts.Press(p.Position())
	if _, ok := e.Dragging(); ok {
		t.Fatal("input must be ignored during the reveal")
	}
	ts.Release(p.Position())

	if !ts.RunUntil(PhaseSettle, 1000) {
		t.Fatalf("never reached settle, phase %s", e.Phase())
	}
	if !ts.RunUntil(PhaseShuffling, 1000) {
		t.Fatalf("never reached shuffling, phase %s", e.Phase())
	}
	moves := ts.Moves
	ts.Advance(NoInput())
	if ts.Moves == moves {
		t.Fatal("expected tweens to move pieces")
	}
	mustHold(t, ts)
	if !ts.RunUntil(PhasePlaying, 1000) {
		t.Fatalf("never reached playing, phase %s", e.Phase())
	}
	mustHold(t, ts)
	for _, p := range e.Pieces() {
		if p.Position() != e.Layout().SlotPosition(p.CurrentSlot()) {
			t.Fatalf("piece %d did not land on slot %d", p.ID, p.CurrentSlot())
		}
	}
	if ts.Log.Count(CatPuzzle, "shuffle_commit") != 1 {
		t.Fatal("expected one shuffle commit")
	}
}

func TestAnimatedShuffle_Timing(t *testing.T) {
	s := DefaultSettings()
	s.AnimateShuffle = true
	ts, err := NewTestSession(WithGrid(2, 2), WithSettings(s))
	if err != nil {
		t.Fatal(err)
	}
	ts.Step = 100 * time.Millisecond
	ticks := 0
	for ts.Engine.Phase() == PhaseReveal {
		ts.Advance(NoInput())
		ticks++
	}
	if ticks != 20 {
		t.Fatalf("expected 2s reveal at 100ms steps (20 ticks), got %d", ticks)
	}
}

func TestNextLevel_DependsOnChapterPosition(t *testing.T) {
	ts := newPlaying(t, WithChapter("c1", 0, 3), WithSeed(1))
	if !ts.Engine.HasNextLevel() {
		t.Fatal("level 0 of 3 should have a next level")
	}
	next, _ := ts.Engine.NextLevel()
	if next.LevelIndex != 1 || next.ChapterID != "c1" {
		t.Fatalf("unexpected next level %+v", next)
	}
	ts.Solve(nil, 0, 50)
	if !ts.LastHasNext {
		t.Fatal("completion should report a next level")
	}
	n, err := ts.Progress.NextPlayableLevel("c1", 3)
	if err != nil || n != 1 {
		t.Fatalf("expected next playable 1, got %d (%v)", n, err)
	}

	last := newPlaying(t, WithChapter("c1", 2, 3), WithSeed(1))
	last.Solve(nil, 0, 50)
	if last.Completions != 1 || last.LastHasNext {
		t.Fatalf("last level: completions=%d hasNext=%t", last.Completions, last.LastHasNext)
	}
}

func TestReset_DuringDragRebuilds(t *testing.T) {
	ts := newPlaying(t, WithGrid(3, 3), WithSeed(13))
	e := ts.Engine
	a := unplaced(e, 1)[0]
	e.BeginDrag(a.ID, a.Position())
	old := e.SessionID()

	if err := e.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Dragging(); ok {
		t.Fatal("reset must end the drag")
	}
	if e.SessionID() == old {
		t.Fatal("reset should start a new session")
	}
	if e.Phase() != PhaseReveal {
		t.Fatalf("expected reveal, got %s", e.Phase())
	}
	mustHold(t, ts)
}

type failingRecorder struct{}

func (failingRecorder) MarkLevelComplete(string, int, int) error {
	return errors.New("disk full")
}

func TestCompletion_ProgressErrorStillNotifies(t *testing.T) {
	ts := newPlaying(t, WithGrid(2, 2), WithSeed(2))
	ts.Engine.progress = failingRecorder{}
	ts.Solve(nil, 0, 10)
	if ts.Completions != 1 {
		t.Fatalf("expected completion despite progress failure, got %d", ts.Completions)
	}
}

func TestDebugReport_ListsSlotsAndPieces(t *testing.T) {
	ts := newPlaying(t, WithGrid(2, 2), WithSeed(2))
	r := ts.Engine.DebugReport()
	for _, want := range []string{ts.Engine.SessionID(), "== slots ==", "P03", "phase=playing"} {
		if !strings.Contains(r, want) {
			t.Fatalf("report missing %q:\n%s", want, r)
		}
	}
}

func TestDrawOrder_DraggedPieceLast(t *testing.T) {
	ts := newPlaying(t, WithGrid(3, 3), WithSeed(10))
	e := ts.Engine
	a := unplaced(e, 1)[0]
	e.BeginDrag(a.ID, a.Position())
	order := e.DrawOrder()
	if order[len(order)-1] != a.ID || len(order) != e.TotalPieces() {
		t.Fatalf("expected %d drawn last, got %v", a.ID, order)
	}
}

func TestNew_TargetHeightSetsGridHeight(t *testing.T) {
	ts, err := NewTestSession(WithGrid(4, 3), WithImageSize(400, 300), WithTargetHeight(6))
	if err != nil {
		t.Fatal(err)
	}
	l := ts.Engine.Layout()
	if got := l.Size().Y; math.Abs(got-6) > 1e-9 {
		t.Fatalf("expected grid height 6, got %v", got)
	}
	for _, p := range ts.Engine.Pieces() {
		if p.Size() != l.PieceSize {
			t.Fatalf("piece %d size %+v, slot size %+v", p.ID, p.Size(), l.PieceSize)
		}
	}
}

func TestNew_OddImagePiecesMatchSlots(t *testing.T) {
	ts, err := NewTestSession(WithGrid(4, 3), WithImageSize(301, 257))
	if err != nil {
		t.Fatal(err)
	}
	e := ts.Engine
	l := e.Layout()
	for _, p := range e.Pieces() {
		if math.Abs(p.Size().X-l.PieceSize.X) > 1e-9 || math.Abs(p.Size().Y-l.PieceSize.Y) > 1e-9 {
			t.Fatalf("piece %d size %+v exceeds slot %+v", p.ID, p.Size(), l.PieceSize)
		}
	}
	// neighbouring pieces must not claim the same point
	for _, a := range e.Pieces() {
		for _, b := range e.Pieces() {
			if a.ID != b.ID && b.Contains(a.Position()) {
				t.Fatalf("piece %d covers the centre of piece %d", b.ID, a.ID)
			}
		}
	}
}
