package game

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/jigsaw/internal/config"
	"github.com/Garsondee/jigsaw/internal/level"
	"github.com/Garsondee/jigsaw/internal/puzzle"
)

func TestView_RoundTripAndFlipsY(t *testing.T) {
	v := View{Zoom: 40, CenterX: 300, CenterY: 200}
	sx, sy := v.ToScreen(puzzle.Vec2{X: 1, Y: 2})
	if sx != 340 || sy != 120 {
		t.Fatalf("expected (340,120), got (%v,%v)", sx, sy)
	}
	p := v.ToWorld(sx, sy)
	if math.Abs(p.X-1) > 1e-9 || math.Abs(p.Y-2) > 1e-9 {
		t.Fatalf("round trip lost precision: %+v", p)
	}
}

func TestFitView_FitsLimitingAxis(t *testing.T) {
	v := FitView(puzzle.Vec2{X: 4, Y: 2}, 0, 0, 800, 800, 0)
	if v.Zoom != 200 {
		t.Fatalf("expected width-limited zoom 200, got %v", v.Zoom)
	}
	if v.CenterX != 400 || v.CenterY != 400 {
		t.Fatalf("expected centred origin, got (%v,%v)", v.CenterX, v.CenterY)
	}

	x, y, w, h := v.Rect(puzzle.Vec2{}, puzzle.Vec2{X: 4, Y: 2})
	if x != 0 || w != 800 || y != 200 || h != 400 {
		t.Fatalf("grid rect should span the width: %v %v %v %v", x, y, w, h)
	}

	withMargin := FitView(puzzle.Vec2{X: 4, Y: 2}, 0, 0, 800, 800, 0.1)
	if withMargin.Zoom >= v.Zoom {
		t.Fatalf("margin should shrink zoom: %v >= %v", withMargin.Zoom, v.Zoom)
	}
}

func TestFitView_DegenerateSizeKeepsUnitZoom(t *testing.T) {
	v := FitView(puzzle.Vec2{}, 10, 10, 100, 100, 0.1)
	if v.Zoom != 1 {
		t.Fatalf("expected zoom 1 for empty world, got %v", v.Zoom)
	}
}

func TestPointerSample_PressHoldRelease(t *testing.T) {
	var pt pointer
	v := View{Zoom: 1}

	in := pt.sample(pointerFrame{X: 5, Y: 5, Pressed: true, JustPressed: true, Focused: true}, v)
	if !in.Down || !in.Held {
		t.Fatalf("expected down+held on press, got %+v", in)
	}
	in = pt.sample(pointerFrame{X: 6, Y: 5, Pressed: true, Focused: true}, v)
	if in.Down || !in.Held {
		t.Fatalf("expected held only, got %+v", in)
	}
	in = pt.sample(pointerFrame{X: 7, Y: 5, JustReleased: true, Focused: true}, v)
	if !in.Up || in.Held {
		t.Fatalf("expected up on release, got %+v", in)
	}
	if in.Position.X != 7 || in.Position.Y != -5 {
		t.Fatalf("expected world (7,-5), got %+v", in.Position)
	}
	in = pt.sample(pointerFrame{X: 7, Y: 5, JustReleased: true, Focused: true}, v)
	if in.Up {
		t.Fatal("release without a press must not report up")
	}
}

func TestPointerSample_FocusLossIsLost(t *testing.T) {
	var pt pointer
	v := View{Zoom: 1}
	pt.sample(pointerFrame{Pressed: true, JustPressed: true, Focused: true}, v)
	in := pt.sample(pointerFrame{Pressed: true, Focused: false}, v)
	if !in.Lost {
		t.Fatalf("expected lost on focus loss, got %+v", in)
	}
	in = pt.sample(pointerFrame{Pressed: true, Focused: true}, v)
	if in.Held || in.Lost {
		t.Fatalf("pointer should stay released after loss, got %+v", in)
	}
}

func TestPointerSample_VanishedPressIsLost(t *testing.T) {
	var pt pointer
	v := View{Zoom: 1}
	pt.sample(pointerFrame{Pressed: true, JustPressed: true, Focused: true}, v)
	if in := pt.sample(pointerFrame{Focused: true}, v); !in.Lost {
		t.Fatalf("expected lost when the button vanishes without a release, got %+v", in)
	}
}

func TestEventPanel_RingBufferKeepsNewest(t *testing.T) {
	ep := NewEventPanel()
	for i := 0; i < panelMaxEntries+5; i++ {
		ep.Add(i, "P01", kindInfo, "msg")
	}
	if ep.Len() != panelMaxEntries {
		t.Fatalf("expected %d entries, got %d", panelMaxEntries, ep.Len())
	}
	rec := ep.Recent()
	if rec[0].Tick != 5 || rec[len(rec)-1].Tick != panelMaxEntries+4 {
		t.Fatalf("expected oldest=5 newest=%d, got %d..%d", panelMaxEntries+4, rec[0].Tick, rec[len(rec)-1].Tick)
	}
	ep.Clear()
	if ep.Len() != 0 || len(ep.Recent()) != 0 {
		t.Fatal("clear should empty the panel")
	}
}

func TestVisibleEntries_TailFitsPanel(t *testing.T) {
	entries := make([]PanelEntry, 20)
	for i := range entries {
		entries[i].Tick = i
	}
	vis := visibleEntries(entries, 24+5*panelLineHeight)
	if len(vis) != 5 || vis[0].Tick != 15 {
		t.Fatalf("expected last 5 entries, got %d starting at %d", len(vis), vis[0].Tick)
	}
	if visibleEntries(entries, 10) != nil {
		t.Fatal("too short a panel shows nothing")
	}
}

func TestGridLayout_RowsAndBounds(t *testing.T) {
	area := rect{x: 10, y: 20, w: 300, h: 200}
	cards := gridLayout(5, 3, area, 10)
	if len(cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(cards))
	}
	if cards[3].y <= cards[0].y || cards[3].x != cards[0].x {
		t.Fatalf("card 3 should start the second row: %+v vs %+v", cards[3], cards[0])
	}
	for i, c := range cards {
		if c.x < area.x || c.y < area.y || c.x+c.w > area.x+area.w || c.y+c.h > area.y+area.h {
			t.Fatalf("card %d outside area: %+v", i, c)
		}
	}
}

func TestRowLayout_CentredAndHit(t *testing.T) {
	rs := rowLayout(3, 200, 50, 40, 20, 10)
	left, right := rs[0].x, rs[2].x+rs[2].w
	if 200-left != right-200 {
		t.Fatalf("row not centred: %d..%d", left, right)
	}
	buttons := []button{{id: buttonRestart, r: rs[0]}, {id: buttonMenu, r: rs[2]}}
	if id, ok := hitButton(buttons, rs[2].x+1, rs[2].y+1); !ok || id != buttonMenu {
		t.Fatalf("expected menu hit, got %v %v", id, ok)
	}
	if _, ok := hitButton(buttons, rs[1].x+1, rs[1].y+1); ok {
		t.Fatal("a slot without a button must not hit")
	}
}

func TestCompletionButtons_NextOnlyWhenAvailable(t *testing.T) {
	labels := func(bs []button) string {
		parts := make([]string, len(bs))
		for i, b := range bs {
			parts[i] = b.label
		}
		return strings.Join(parts, ",")
	}
	if got := labels(completionButtons(true, 300, 300)); got != "Restart,Next Level,Menu" {
		t.Fatalf("unexpected buttons with next: %s", got)
	}
	if got := labels(completionButtons(false, 300, 300)); got != "Restart,Menu" {
		t.Fatalf("unexpected buttons without next: %s", got)
	}
}

func TestRevealGrid_Defaults(t *testing.T) {
	if r, c := revealGrid(level.Chapter{RevealRows: 2, RevealColumns: 3}, 6); r != 2 || c != 3 {
		t.Fatalf("expected configured 2x3, got %dx%d", r, c)
	}
	if r, c := revealGrid(level.Chapter{}, 6); r != 2 || c != 4 {
		t.Fatalf("expected default 2x4, got %dx%d", r, c)
	}
	if r, c := revealGrid(level.Chapter{RevealRows: 1, RevealColumns: 2}, 5); r != 3 || c != 2 {
		t.Fatalf("rows should grow to fit every card, got %dx%d", r, c)
	}
}

func TestCardStateFor(t *testing.T) {
	if cardStateFor(true, true) != cardDone || cardStateFor(false, true) != cardOpen || cardStateFor(false, false) != cardLocked {
		t.Fatal("unexpected card state mapping")
	}
	if cardLocked.String() != "LOCKED" {
		t.Fatalf("unexpected label %s", cardLocked)
	}
}

func TestResolveSelection_Fallbacks(t *testing.T) {
	ch := level.Chapter{ID: "c1", Levels: []level.Config{
		{ChapterID: "c1", LevelIndex: 1, GridWidth: 3},
		{ChapterID: "c1", LevelIndex: 0, GridWidth: 2},
	}}
	chapters := []level.Chapter{ch}

	explicit := level.Config{ChapterID: "c1", LevelIndex: 1, GridWidth: 9}
	cfg, levels, err := resolveSelection(level.Selection{ChapterID: "c1", LevelIndex: 1, Config: &explicit}, chapters)
	if err != nil || cfg.GridWidth != 9 {
		t.Fatalf("explicit config should win: %+v %v", cfg, err)
	}
	if len(levels) != 2 || levels[0].LevelIndex != 0 {
		t.Fatalf("expected ordered static chapter as fallback list, got %+v", levels)
	}

	cfg, _, err = resolveSelection(level.Selection{ChapterID: "c1", LevelIndex: 0}, chapters)
	if err != nil || cfg.GridWidth != 2 {
		t.Fatalf("expected lookup in static chapter: %+v %v", cfg, err)
	}

	_, _, err = resolveSelection(level.Selection{ChapterID: "c1", LevelIndex: 7}, chapters)
	if !errors.Is(err, level.ErrNoLevels) {
		t.Fatalf("expected ErrNoLevels, got %v", err)
	}
}

func TestPanelLine_FiltersTrace(t *testing.T) {
	if _, _, ok := panelLine(puzzle.LogEntry{Category: puzzle.CatDrag, Key: "start"}); ok {
		t.Fatal("drag starts should not reach the panel")
	}
	kind, msg, ok := panelLine(puzzle.LogEntry{Category: puzzle.CatPiece, Key: "placed", Value: "3/9"})
	if !ok || kind != kindPlace || msg != "placed 3/9" {
		t.Fatalf("unexpected placed line: %v %q %v", kind, msg, ok)
	}
	if kind, _, _ := panelLine(puzzle.LogEntry{Category: puzzle.CatPuzzle, Key: "complete"}); kind != kindComplete {
		t.Fatalf("expected complete kind, got %v", kind)
	}
}

func TestEngineSettings_MapsConfig(t *testing.T) {
	ec := config.Default().Engine
	s := engineSettings(ec)
	if s.PixelsPerUnit != ec.PixelsPerUnit || s.SnapMultiplier != ec.SnapMultiplier ||
		s.ShuffleDuration != ec.ShuffleDuration || s.AnimateShuffle != ec.AnimateShuffle {
		t.Fatalf("settings not copied: %+v from %+v", s, ec)
	}
}

func TestDefaultSelection_FirstChapterFirstLevel(t *testing.T) {
	chapters := []level.Chapter{
		{ID: "b", Levels: []level.Config{{ChapterID: "b", LevelIndex: 2}, {ChapterID: "b", LevelIndex: 1}}},
		{ID: "a", Levels: []level.Config{{ChapterID: "a", LevelIndex: 0}}},
	}
	sel := defaultSelection(chapters)
	if sel.ChapterID != "b" || sel.LevelIndex != 1 || sel.Config != nil {
		t.Fatalf("expected b/1 without config, got %+v", sel)
	}
	cfg, _, err := resolveSelection(sel, chapters)
	if err != nil || cfg.LevelIndex != 1 {
		t.Fatalf("default selection should resolve through the static chapter: %+v %v", cfg, err)
	}
}
