package game

import (
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/jigsaw/internal/level"
	"github.com/Garsondee/jigsaw/internal/puzzle"
)

const (
	placeholderAlpha = 0.15
	viewMargin       = 0.06
	completionW      = 460
	completionH      = 190
)

// puzzleScene renders one assembly and feeds it pointer input.
type puzzleScene struct {
	g       *Game
	engine  *puzzle.Engine
	trace   *puzzle.EventLog
	levels  []level.Config
	session string
	images  []*ebiten.Image
	view    View

	done    bool
	hasNext bool
	buttons []button
}

func newPuzzleScene(g *Game) *puzzleScene {
	return &puzzleScene{g: g}
}

// resolveSelection turns a menu selection into the level to build and the
// ordered chapter list used for next-level lookup.
func resolveSelection(sel level.Selection, chapters []level.Chapter) (level.Config, []level.Config, error) {
	var fallback []level.Config
	for _, ch := range chapters {
		if ch.ID == sel.ChapterID {
			fallback = ch.Ordered()
			break
		}
	}
	var cfg level.Config
	switch {
	case sel.Config != nil:
		cfg = *sel.Config
	default:
		var ok bool
		if cfg, ok = level.Find(sel.ChapterLevels, sel.ChapterID, sel.LevelIndex); !ok {
			if cfg, ok = level.Find(fallback, sel.ChapterID, sel.LevelIndex); !ok {
				return level.Config{}, nil, fmt.Errorf("level %s/%d: %w", sel.ChapterID, sel.LevelIndex, level.ErrNoLevels)
			}
		}
	}
	return cfg, level.ResolveChapterLevels(sel.ChapterLevels, fallback, cfg), nil
}

// enter builds a fresh engine for sel.
func (s *puzzleScene) enter(sel level.Selection) error {
	g := s.g
	cfg, levels, err := resolveSelection(sel, g.chapters)
	if err != nil {
		return err
	}
	trace := puzzle.NewEventLog(false)
	e, err := puzzle.New(cfg, puzzle.Options{
		Settings: engineSettings(g.cfg.Engine),
		Template: puzzle.DefaultTemplate(),
		Levels:   levels,
		Progress: g.tracker,
		Sink:     s,
		Logger:   g.log,
		Trace:    trace,
		Rand:     g.rng,
	})
	if err != nil {
		return err
	}
	s.releaseImages()
	s.engine, s.trace, s.levels = e, trace, levels
	s.done, s.hasNext, s.buttons = false, false, nil
	g.panel.Clear()
	s.syncImages()
	s.drainTrace()
	return nil
}

func (s *puzzleScene) update(frame pointerFrame) error {
	g := s.g
	e := s.engine
	if e == nil {
		g.openMenu(0)
		return nil
	}

	switch {
	case g.justPressed(ebiten.KeyR):
		return s.restart()
	case g.justPressed(ebiten.KeyN) && s.done && s.hasNext:
		s.next()
		return nil
	case g.justPressed(ebiten.KeyM), g.justPressed(ebiten.KeyEscape):
		s.toMenu()
		return nil
	case g.justPressed(ebiten.KeyC):
		s.copyReport()
	}

	s.layoutView()
	in := g.pointer.sample(frame, s.view)
	if s.done {
		if frame.JustPressed {
			if id, ok := hitButton(s.buttons, int(frame.X), int(frame.Y)); ok {
				return s.press(id)
			}
		}
		in = puzzle.NoInput()
	}
	e.Update(g.tickDuration(), in)
	s.syncImages()
	s.drainTrace()
	return nil
}

func (s *puzzleScene) layoutView() {
	g := s.g
	s.view = FitView(s.engine.Layout().Size(), borderWidth, borderWidth+40,
		g.playWidth()-2*borderWidth, g.height-2*borderWidth-40, viewMargin)
}

func (s *puzzleScene) press(id buttonID) error {
	switch id {
	case buttonRestart:
		return s.restart()
	case buttonNext:
		s.next()
	case buttonMenu:
		s.toMenu()
	}
	return nil
}

func (s *puzzleScene) restart() error {
	if err := s.engine.Reset(); err != nil {
		s.g.log.Error("restart level", "error", err)
		s.g.setStatus(fmt.Sprintf("restart failed: %v", err))
		return nil
	}
	s.syncImages()
	return nil
}

// next hands the following level to a new puzzle scene.
func (s *puzzleScene) next() {
	cfg, ok := s.engine.NextLevel()
	if !ok {
		return
	}
	s.g.handoff.Set(cfg.ChapterID, cfg.LevelIndex, &cfg, s.levels)
	s.g.startPuzzle()
}

func (s *puzzleScene) toMenu() {
	s.g.openMenu(s.g.chapterIndex(s.engine.Level().ChapterID))
}

func (s *puzzleScene) copyReport() {
	if err := clipboard.WriteAll(s.engine.DebugReport()); err != nil {
		s.g.log.Warn("copy debug report", "error", err)
		s.g.setStatus("clipboard unavailable")
		return
	}
	s.g.setStatus("debug report copied to clipboard")
}

// syncImages uploads fragment textures whenever a new assembly is built.
func (s *puzzleScene) syncImages() {
	e := s.engine
	if e.SessionID() == s.session && len(s.images) == e.TotalPieces() {
		return
	}
	s.releaseImages()
	s.images = make([]*ebiten.Image, e.TotalPieces())
	for _, p := range e.Pieces() {
		s.images[p.ID] = ebiten.NewImageFromImage(p.Fragment.Image)
	}
	s.session = e.SessionID()
}

func (s *puzzleScene) releaseImages() {
	for _, img := range s.images {
		if img != nil {
			img.Deallocate()
		}
	}
	s.images = nil
	s.session = ""
}

// drainTrace mirrors new engine trace entries into the event panel.
func (s *puzzleScene) drainTrace() {
	for _, le := range s.trace.Entries() {
		kind, msg, ok := panelLine(le)
		if ok {
			s.g.panel.Add(le.Tick, le.Piece, kind, msg)
		}
	}
	s.trace.Reset()
}

// panelLine picks the trace entries a player cares about.
func panelLine(le puzzle.LogEntry) (panelKind, string, bool) {
	switch {
	case le.Category == puzzle.CatPiece && le.Key == "placed":
		return kindPlace, "placed " + le.Value, true
	case le.Category == puzzle.CatSlot && le.Key == "swap":
		return kindSwap, "swap " + le.Value, true
	case le.Category == puzzle.CatSlot && le.Key == "snapback":
		return kindInfo, "back to " + le.Value, true
	case le.Category == puzzle.CatSlot && le.Key == "reject":
		return kindSwap, "rejected: " + le.Value, true
	case le.Category == puzzle.CatPuzzle && le.Key == "complete":
		return kindComplete, "puzzle complete", true
	case le.Category == puzzle.CatPuzzle && (le.Key == "built" || le.Key == "reset" ||
		le.Key == "shuffle_start" || le.Key == "shuffle_commit"):
		return kindInfo, le.Key + " " + le.Value, true
	}
	return kindInfo, "", false
}

// EventSink

func (s *puzzleScene) PieceMoved(int, puzzle.Vec2) {}

func (s *puzzleScene) PiecePlaced(int) {
	s.g.fx.PlaySnap()
}

func (s *puzzleScene) PuzzleCompleted(hasNext bool) {
	s.done = true
	s.hasNext = hasNext
	s.buttons = completionButtons(hasNext, s.g.playWidth()/2, s.g.height/2)
}

func (s *puzzleScene) PuzzleReset() {
	s.done, s.hasNext, s.buttons = false, false, nil
}

// completionButtons lays out the completion panel centred on (cx, cy).
// Next Level is offered only when a next level exists.
func completionButtons(hasNext bool, cx, cy int) []button {
	ids := []buttonID{buttonRestart}
	labels := []string{"Restart"}
	if hasNext {
		ids = append(ids, buttonNext)
		labels = append(labels, "Next Level")
	}
	ids = append(ids, buttonMenu)
	labels = append(labels, "Menu")

	rs := rowLayout(len(ids), cx, cy+20, 130, 36, 14)
	out := make([]button, len(ids))
	for i := range ids {
		out[i] = button{id: ids[i], label: labels[i], r: rs[i]}
	}
	return out
}

// fade scales a premultiplied colour by f.
func fade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: uint8(float64(c.A) * f),
	}
}

func (s *puzzleScene) draw(screen *ebiten.Image) {
	e := s.engine
	if e == nil {
		return
	}
	l := e.Layout()
	tmpl := e.Template()

	slotCol := fade(tmpl.SlotColor, placeholderAlpha)
	for i := 0; i < l.Slots(); i++ {
		if e.Occupant(i) >= 0 {
			continue
		}
		x, y, w, h := s.view.Rect(l.SlotPosition(i), l.PieceSize)
		vector.FillRect(screen, x, y, w, h, slotCol, false)
	}

	for _, id := range e.DrawOrder() {
		p := e.Piece(id)
		if p == nil || id >= len(s.images) {
			continue
		}
		img := s.images[id]
		x, y, w, h := s.view.Rect(p.Position(), p.Size())
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM.Scale(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
		op.GeoM.Translate(float64(x), float64(y))
		screen.DrawImage(img, op)
		if fc := tmpl.Frame(p.State()); fc.A > 0 {
			vector.StrokeRect(screen, x, y, w, h, tmpl.FrameWidth, fc, false)
		}
	}

	s.drawHUD(screen)
	if s.done {
		s.drawCompletion(screen)
	}
}

func (s *puzzleScene) drawHUD(screen *ebiten.Image) {
	e := s.engine
	cfg := e.Level()
	lines := []string{
		fmt.Sprintf("%s  [%s]  placed %d/%d", cfg.Label(), e.Phase(), e.PlacedCount(), e.TotalPieces()),
		fmt.Sprintf("[R] restart  [M] menu  [C] copy report  [S] sound %s", onOff(s.g.fx.Enabled())),
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, borderWidth, borderWidth/2+i*14)
	}
}

func (s *puzzleScene) drawCompletion(screen *ebiten.Image) {
	cx, cy := s.g.playWidth()/2, s.g.height/2
	x := float32(cx - completionW/2)
	y := float32(cy - completionH/2)
	vector.FillRect(screen, 0, 0, float32(s.g.playWidth()), float32(s.g.height), color.RGBA{A: 110}, false)
	vector.FillRect(screen, x, y, completionW, completionH, color.RGBA{R: 20, G: 22, B: 32, A: 240}, false)
	vector.StrokeRect(screen, x, y, completionW, completionH, 2, color.RGBA{R: 200, G: 180, B: 90, A: 255}, false)
	drawLabelCentered(screen, "Puzzle Completed!", float64(cx), float64(cy)-40, 2.5, color.RGBA{R: 250, G: 225, B: 120, A: 255})

	mx, my := ebiten.CursorPosition()
	for _, b := range s.buttons {
		drawButton(screen, b, b.r.contains(mx, my))
	}
}
