package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/jigsaw/internal/level"
	"github.com/Garsondee/jigsaw/internal/puzzle"
)

type cardState int

const (
	cardLocked cardState = iota
	cardOpen
	cardDone
)

func (c cardState) String() string {
	switch c {
	case cardOpen:
		return "OPEN"
	case cardDone:
		return "DONE"
	}
	return "LOCKED"
}

const (
	menuTop     = 90
	menuBottom  = 110
	cardGap     = 12
	playButtonW = 180
	playButtonH = 40
)

// menuScene shows one chapter as a grid of level cards.
type menuScene struct {
	g          *Game
	chapterIdx int
	levels     []level.Config
	states     []cardState
	next       int // next playable level index, -1 when the chapter is done
	reveal     []*ebiten.Image
	cards      []rect
	play       []button
}

func newMenuScene(g *Game) *menuScene {
	return &menuScene{g: g, next: -1}
}

// revealGrid returns the card grid shape for a chapter with n levels.
func revealGrid(ch level.Chapter, n int) (rows, cols int) {
	rows, cols = ch.RevealRows, ch.RevealColumns
	if cols <= 0 {
		cols = n
		if cols > 4 {
			cols = 4
		}
	}
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 || rows*cols < n {
		rows = (n + cols - 1) / cols
	}
	return rows, cols
}

func (m *menuScene) chapter() level.Chapter {
	return m.g.chapters[m.chapterIdx]
}

func (m *menuScene) enter(idx int) {
	m.chapterIdx = idx
	ch := m.chapter()
	m.levels = ch.Ordered()
	m.loadReveal(ch)
	m.refresh()
	m.g.handoff.Clear()
	m.g.log.Debug("menu opened", "chapter", ch.ID, "levels", len(m.levels), "next", m.next)
}

// loadReveal cuts the chapter reveal image into one fragment per card.
func (m *menuScene) loadReveal(ch level.Chapter) {
	for _, img := range m.reveal {
		img.Deallocate()
	}
	m.reveal = nil
	if ch.RevealImage == nil || len(m.levels) == 0 {
		return
	}
	rows, cols := revealGrid(ch, len(m.levels))
	frags, err := puzzle.Slice(ch.RevealImage, rows, cols, 1)
	if err != nil {
		m.g.log.Warn("slice chapter reveal", "chapter", ch.ID, "error", err)
		return
	}
	m.reveal = make([]*ebiten.Image, len(frags))
	for i := range frags {
		m.reveal[i] = ebiten.NewImageFromImage(frags[i].Image)
	}
}

// refresh reloads card states from the progress store.
func (m *menuScene) refresh() {
	ch := m.chapter()
	tr := m.g.tracker
	m.states = make([]cardState, len(m.levels))
	for i, l := range m.levels {
		done, err := tr.IsLevelCompleted(ch.ID, l.LevelIndex)
		if err != nil {
			m.g.log.Error("read progress", "chapter", ch.ID, "level", l.LevelIndex, "error", err)
		}
		open, err := tr.IsLevelUnlocked(ch.ID, l.LevelIndex)
		if err != nil {
			m.g.log.Error("read progress", "chapter", ch.ID, "level", l.LevelIndex, "error", err)
		}
		m.states[i] = cardStateFor(done, open)
	}
	next, err := tr.NextPlayableLevel(ch.ID, len(m.levels))
	if err != nil {
		m.g.log.Error("next playable level", "chapter", ch.ID, "error", err)
		next = -1
	}
	m.next = next
	m.layout()
}

func cardStateFor(completed, unlocked bool) cardState {
	switch {
	case completed:
		return cardDone
	case unlocked:
		return cardOpen
	}
	return cardLocked
}

func (m *menuScene) layout() {
	g := m.g
	_, cols := revealGrid(m.chapter(), len(m.levels))
	area := rect{
		x: borderWidth,
		y: menuTop,
		w: g.playWidth() - 2*borderWidth,
		h: g.height - menuTop - menuBottom,
	}
	m.cards = gridLayout(len(m.levels), cols, area, cardGap)
	m.play = nil
	if m.next >= 0 {
		r := rowLayout(1, g.playWidth()/2, g.height-menuBottom+30, playButtonW, playButtonH, 0)
		m.play = []button{{id: buttonPlay, label: "Play", r: r[0]}}
	}
}

func (m *menuScene) update(frame pointerFrame) error {
	g := m.g
	if n := len(g.chapters); n > 1 {
		switch {
		case g.justPressed(ebiten.KeyArrowRight):
			g.openMenu((m.chapterIdx + 1) % n)
			return nil
		case g.justPressed(ebiten.KeyArrowLeft):
			g.openMenu((m.chapterIdx + n - 1) % n)
			return nil
		}
	}
	if g.justPressed(ebiten.KeyR) {
		m.resetChapter()
	}
	if (g.justPressed(ebiten.KeyEnter) || g.justPressed(ebiten.KeySpace)) && m.next >= 0 {
		m.start(m.next)
		return nil
	}

	if !frame.JustPressed {
		return nil
	}
	px, py := int(frame.X), int(frame.Y)
	if _, ok := hitButton(m.play, px, py); ok {
		m.start(m.next)
		return nil
	}
	for i, r := range m.cards {
		if r.contains(px, py) && m.states[i] != cardLocked {
			m.start(m.levels[i].LevelIndex)
			return nil
		}
	}
	return nil
}

func (m *menuScene) resetChapter() {
	ch := m.chapter()
	if err := m.g.tracker.ResetChapterProgress(ch.ID); err != nil {
		m.g.log.Error("reset chapter", "chapter", ch.ID, "error", err)
		m.g.setStatus("reset failed")
		return
	}
	m.g.setStatus(fmt.Sprintf("%s progress reset", ch.Title))
	m.refresh()
}

// start hands level index to the puzzle scene.
func (m *menuScene) start(index int) {
	ch := m.chapter()
	cfg, ok := ch.Level(index)
	if !ok {
		return
	}
	m.g.handoff.Set(ch.ID, index, &cfg, m.levels)
	m.g.startPuzzle()
}

func (m *menuScene) draw(screen *ebiten.Image) {
	ch := m.chapter()
	drawLabel(screen, ch.Title, borderWidth, borderWidth, 3, color.White)
	hint := "[Enter] play next  [R] reset chapter  [S] sound " + onOff(m.g.fx.Enabled())
	if len(m.g.chapters) > 1 {
		hint += fmt.Sprintf("  [<-/->] chapter %d/%d", m.chapterIdx+1, len(m.g.chapters))
	}
	ebitenutil.DebugPrintAt(screen, hint, borderWidth, menuTop-20)

	mx, my := ebiten.CursorPosition()
	for i, r := range m.cards {
		m.drawCard(screen, i, r, r.contains(mx, my))
	}
	for _, b := range m.play {
		drawButton(screen, b, b.r.contains(mx, my))
	}
	if m.next < 0 && len(m.levels) > 0 {
		drawLabelCentered(screen, "Chapter complete", float64(m.g.playWidth())/2, float64(m.g.height-menuBottom+50), 2, color.RGBA{R: 250, G: 225, B: 120, A: 255})
	}
}

func (m *menuScene) drawCard(screen *ebiten.Image, i int, r rect, hover bool) {
	x, y, w, h := float32(r.x), float32(r.y), float32(r.w), float32(r.h)
	st := m.states[i]
	l := m.levels[i]

	switch st {
	case cardDone:
		if i < len(m.reveal) {
			img := m.reveal[i]
			b := img.Bounds()
			op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
			op.GeoM.Scale(float64(r.w)/float64(b.Dx()), float64(r.h)/float64(b.Dy()))
			op.GeoM.Translate(float64(r.x), float64(r.y))
			screen.DrawImage(img, op)
		} else {
			vector.FillRect(screen, x, y, w, h, color.RGBA{R: 40, G: 90, B: 60, A: 255}, false)
		}
	case cardOpen:
		bg := color.RGBA{R: 34, G: 38, B: 56, A: 255}
		if hover {
			bg = color.RGBA{R: 52, G: 60, B: 90, A: 255}
		}
		vector.FillRect(screen, x, y, w, h, bg, false)
	default:
		vector.FillRect(screen, x, y, w, h, color.RGBA{R: 22, G: 22, B: 26, A: 255}, false)
	}

	border := color.RGBA{R: 90, G: 100, B: 130, A: 255}
	if l.LevelIndex == m.next {
		border = color.RGBA{R: 220, G: 200, B: 100, A: 255}
	}
	vector.StrokeRect(screen, x, y, w, h, 2, border, false)

	cx, cy := float64(r.x)+float64(r.w)/2, float64(r.y)+float64(r.h)/2
	switch st {
	case cardLocked:
		drawLabelCentered(screen, "LOCKED", cx, cy, 2, color.RGBA{R: 110, G: 110, B: 120, A: 255})
	case cardOpen:
		drawLabelCentered(screen, l.Label(), cx, cy-10, 2, color.White)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%dx%d", l.GridWidth, l.GridHeight), int(cx)-12, int(cy)+12)
	}
}
