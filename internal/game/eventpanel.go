package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	panelWidth      = 320
	panelMaxEntries = 60
	panelLineHeight = 11
	panelRecent     = 3 // latest entries drawn highlighted
)

type panelKind int

const (
	kindInfo panelKind = iota
	kindPlace
	kindSwap
	kindComplete
)

var panelKindColors = [...]color.RGBA{
	kindInfo:     {R: 140, G: 140, B: 150, A: 255},
	kindPlace:    {R: 80, G: 200, B: 110, A: 255},
	kindSwap:     {R: 230, G: 170, B: 60, A: 255},
	kindComplete: {R: 250, G: 220, B: 90, A: 255},
}

// PanelEntry is a single line in the event panel.
type PanelEntry struct {
	Tick    int
	Label   string // e.g. "P07", "--"
	Kind    panelKind
	Message string
}

// EventPanel is a ring buffer of assembly events rendered on-screen.
type EventPanel struct {
	entries []PanelEntry
	head    int
	count   int
}

func NewEventPanel() *EventPanel {
	return &EventPanel{entries: make([]PanelEntry, panelMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (ep *EventPanel) Add(tick int, label string, kind panelKind, msg string) {
	ep.entries[ep.head] = PanelEntry{Tick: tick, Label: label, Kind: kind, Message: msg}
	ep.head = (ep.head + 1) % panelMaxEntries
	if ep.count < panelMaxEntries {
		ep.count++
	}
}

func (ep *EventPanel) Len() int { return ep.count }

// Clear drops every entry.
func (ep *EventPanel) Clear() {
	ep.head, ep.count = 0, 0
}

// Recent returns entries in chronological order (oldest first).
func (ep *EventPanel) Recent() []PanelEntry {
	result := make([]PanelEntry, ep.count)
	for i := 0; i < ep.count; i++ {
		idx := (ep.head - ep.count + i + panelMaxEntries) % panelMaxEntries
		result[i] = ep.entries[idx]
	}
	return result
}

// visibleEntries is the tail of entries that fits in a panel of height panelH.
func visibleEntries(entries []PanelEntry, panelH int) []PanelEntry {
	maxVisible := (panelH - 24) / panelLineHeight
	if maxVisible <= 0 {
		return nil
	}
	if len(entries) > maxVisible {
		return entries[len(entries)-maxVisible:]
	}
	return entries
}

// Draw renders the panel along the right edge starting at panelX.
func (ep *EventPanel) Draw(screen *ebiten.Image, panelX int, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, panelWidth, float32(panelH), color.RGBA{R: 12, G: 12, B: 16, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1.0, color.RGBA{R: 60, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, px, 0, panelWidth, 16, color.RGBA{R: 24, G: 24, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, px, 16, px+panelWidth, 16, 1.0, color.RGBA{R: 60, G: 60, B: 90, A: 200}, false)

	visible := visibleEntries(ep.Recent(), panelH)
	y := 20
	for i, e := range visible {
		if i >= len(visible)-panelRecent {
			vector.FillRect(screen, px+2, float32(y), panelWidth-4, panelLineHeight, color.RGBA{R: 34, G: 34, B: 48, A: 160}, false)
		}
		vector.FillRect(screen, px+5, float32(y+3), 3, 5, panelKindColors[e.Kind], false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%4d [%s] %s", e.Tick, e.Label, e.Message), panelX+12, y)
		y += panelLineHeight
	}
}
