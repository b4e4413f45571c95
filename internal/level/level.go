// Package level holds level configuration, chapter ordering and the
// one-shot selection handoff between the chapter menu and the puzzle scene.
package level

import (
	"errors"
	"image"
	"strconv"
)

const (
	// MinGrid is the smallest grid dimension a level may use.
	MinGrid = 2
	// MaxGrid is the largest grid dimension a level may use.
	MaxGrid = 10
)

var ErrNoLevels = errors.New("level: chapter has no levels")

// Config is an immutable description of one puzzle level.
type Config struct {
	ChapterID   string
	LevelIndex  int // 0-based position within the chapter
	TotalLevels int // levels in the chapter
	DisplayName string
	ImagePath   string
	Image       image.Image

	GridWidth  int
	GridHeight int

	// TargetWorldHeight is the total grid height in world units.
	// <= 0 keeps the natural size derived from the image.
	TargetWorldHeight float64
}

// Normalized returns a copy with the grid clamped into [MinGrid, MaxGrid].
func (c Config) Normalized() Config {
	c.GridWidth = clampGrid(c.GridWidth)
	c.GridHeight = clampGrid(c.GridHeight)
	if c.LevelIndex < 0 {
		c.LevelIndex = 0
	}
	if c.TotalLevels < c.LevelIndex+1 {
		c.TotalLevels = c.LevelIndex + 1
	}
	return c
}

// Pieces is GridWidth*GridHeight after normalisation.
func (c Config) Pieces() int {
	n := c.Normalized()
	return n.GridWidth * n.GridHeight
}

// Label is the one-based level number shown on cards.
func (c Config) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return "Level " + strconv.Itoa(c.LevelIndex+1)
}

func clampGrid(v int) int {
	if v < MinGrid {
		return MinGrid
	}
	if v > MaxGrid {
		return MaxGrid
	}
	return v
}
