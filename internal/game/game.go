package game

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/Garsondee/jigsaw/internal/audio"
	"github.com/Garsondee/jigsaw/internal/config"
	"github.com/Garsondee/jigsaw/internal/level"
	"github.com/Garsondee/jigsaw/internal/logging"
	"github.com/Garsondee/jigsaw/internal/progress"
	"github.com/Garsondee/jigsaw/internal/puzzle"
)

// borderWidth is the pixel gap between the window edge and the play area.
const borderWidth = 24

// statusTicks is how long a status line stays on screen.
const statusTicks = 150

// watchedKeys are sampled every tick for edge detection.
var watchedKeys = []ebiten.Key{
	ebiten.KeyR, ebiten.KeyN, ebiten.KeyM, ebiten.KeyC, ebiten.KeyS,
	ebiten.KeyEscape, ebiten.KeyEnter, ebiten.KeySpace,
	ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
}

type sceneKind int

const (
	sceneMenu sceneKind = iota
	scenePuzzle
)

// Deps are the collaborators owned by the application root.
type Deps struct {
	Config   config.Config
	Logger   *logging.Logger
	Progress *progress.Tracker
	Chapters []level.Chapter
	Effects  *audio.Effects
	Handoff  *level.Handoff
	Seed     int64 // shuffle seed; 0 uses the clock
	PlayNow  bool  // skip the menu and open the default level
}

type Game struct {
	width  int
	height int

	cfg      config.Config
	log      *logging.Logger
	tracker  *progress.Tracker
	chapters []level.Chapter
	fx       *audio.Effects
	handoff  *level.Handoff
	rng      *rand.Rand

	scene sceneKind
	menu  *menuScene
	play  *puzzleScene
	panel *EventPanel

	pointer  pointer
	keys     map[ebiten.Key]bool
	prevKeys map[ebiten.Key]bool

	status      string
	statusTimer int
}

func New(d Deps) (*Game, error) {
	if len(d.Chapters) == 0 {
		return nil, level.ErrNoChapters
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Progress == nil {
		d.Progress = progress.NewMemoryTracker()
	}
	if d.Handoff == nil {
		d.Handoff = &level.Handoff{}
	}
	if d.Effects == nil {
		d.Effects = audio.NewEffects(nil, false, d.Logger)
	}
	seed := d.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, h := d.Config.Window.Width, d.Config.Window.Height
	if w <= panelWidth+2*borderWidth || h <= 2*borderWidth {
		def := config.Default().Window
		w, h = def.Width, def.Height
	}

	g := &Game{
		width:    w,
		height:   h,
		cfg:      d.Config,
		log:      d.Logger.With("component", "game"),
		tracker:  d.Progress,
		chapters: d.Chapters,
		fx:       d.Effects,
		handoff:  d.Handoff,
		rng:      rand.New(rand.NewSource(seed)), // #nosec G404 -- puzzle shuffle
		panel:    NewEventPanel(),
		keys:     make(map[ebiten.Key]bool),
		prevKeys: make(map[ebiten.Key]bool),
	}
	g.menu = newMenuScene(g)
	g.play = newPuzzleScene(g)
	g.openMenu(0)
	if d.PlayNow {
		g.startPuzzle()
	}
	g.log.Info("game ready", "chapters", len(d.Chapters), "window", fmt.Sprintf("%dx%d", w, h))
	return g, nil
}

// playWidth is the width left of the event panel.
func (g *Game) playWidth() int {
	return g.width - panelWidth
}

func (g *Game) Update() error {
	currentKeys := make(map[ebiten.Key]bool, len(watchedKeys))
	for _, k := range watchedKeys {
		currentKeys[k] = ebiten.IsKeyPressed(k)
	}
	g.keys = currentKeys
	frame := g.pointer.poll()

	if g.justPressed(ebiten.KeyS) {
		on := g.fx.Toggle()
		g.setStatus(fmt.Sprintf("sound %s", onOff(on)))
	}

	var err error
	switch g.scene {
	case sceneMenu:
		err = g.menu.update(frame)
	case scenePuzzle:
		err = g.play.update(frame)
	}

	if g.statusTimer > 0 {
		g.statusTimer--
	}
	g.prevKeys = g.keys
	return err
}

// justPressed is edge-triggered against the previous tick. Only
// watchedKeys are sampled.
func (g *Game) justPressed(k ebiten.Key) bool {
	return g.keys[k] && !g.prevKeys[k]
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTimer = statusTicks
}

func (g *Game) tickDuration() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}

// openMenu switches to the chapter menu for chapters[idx].
func (g *Game) openMenu(idx int) {
	if idx < 0 || idx >= len(g.chapters) {
		idx = 0
	}
	g.menu.enter(idx)
	g.scene = sceneMenu
}

// chapterIndex returns the position of chapter id, or -1.
func (g *Game) chapterIndex(id string) int {
	for i, ch := range g.chapters {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

// startPuzzle consumes the pending selection and enters the puzzle scene.
// Without one the default level is played. A selection that cannot be
// built leaves the menu up.
func (g *Game) startPuzzle() {
	sel, ok := g.handoff.Take()
	if !ok {
		sel = defaultSelection(g.chapters)
	}
	if err := g.play.enter(sel); err != nil {
		g.log.Error("start level", "chapter", sel.ChapterID, "level", sel.LevelIndex, "error", err)
		g.setStatus(fmt.Sprintf("cannot start level: %v", err))
		g.openMenu(g.chapterIndex(sel.ChapterID))
		return
	}
	g.scene = scenePuzzle
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 16, B: 22, A: 255})

	switch g.scene {
	case sceneMenu:
		g.menu.draw(screen)
	case scenePuzzle:
		g.play.draw(screen)
	}

	g.panel.Draw(screen, g.playWidth(), g.height)

	if g.statusTimer > 0 && g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, borderWidth, g.height-borderWidth)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// defaultSelection is the first level of the first chapter.
func defaultSelection(chapters []level.Chapter) level.Selection {
	if len(chapters) == 0 {
		return level.Selection{}
	}
	ch := chapters[0]
	sel := level.Selection{ChapterID: ch.ID}
	if ordered := ch.Ordered(); len(ordered) > 0 {
		sel.LevelIndex = ordered[0].LevelIndex
	}
	return sel
}

// engineSettings converts the YAML engine section into engine tunables.
func engineSettings(c config.EngineConfig) puzzle.Settings {
	return puzzle.Settings{
		Spacing:            c.Spacing,
		PixelsPerUnit:      c.PixelsPerUnit,
		SnapMultiplier:     c.SnapMultiplier,
		AnimateShuffle:     c.AnimateShuffle,
		InitialDelay:       c.InitialDelay,
		SettleDelay:        c.SettleDelay,
		ShuffleDuration:    c.ShuffleDuration,
		ShuffleJitter:      c.ShuffleJitter,
		MinShuffleDuration: c.MinShuffleDuration,
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
