// Package progress persists per-level completion and per-chapter unlock state.
package progress

import (
	"fmt"

	"github.com/Garsondee/jigsaw/internal/logging"
)

// Backend stores the two raw facts the unlock rules are built on.
type Backend interface {
	Completed(chapterID string, levelIndex int) (bool, error)
	SetCompleted(chapterID string, levelIndex int) error
	HighestUnlocked(chapterID string) (int, error)
	SetHighestUnlocked(chapterID string, index int) error
	DeleteChapter(chapterID string) error
	DeleteAll() error
}

// Tracker applies the chapter unlock rules on top of a Backend.
type Tracker struct {
	backend Backend
	log     *logging.Logger
}

// NewTracker wraps a backend. A nil logger discards output.
func NewTracker(b Backend, log *logging.Logger) *Tracker {
	if log == nil {
		log = logging.Nop()
	}
	return &Tracker{backend: b, log: log.With("component", "progress")}
}

// NewMemoryTracker is a Tracker over process memory.
func NewMemoryTracker() *Tracker {
	return NewTracker(NewMemoryBackend(), nil)
}

func (t *Tracker) IsLevelCompleted(chapterID string, levelIndex int) (bool, error) {
	return t.backend.Completed(chapterID, levelIndex)
}

// IsLevelUnlocked reports whether levelIndex is playable. Index 0 always is.
func (t *Tracker) IsLevelUnlocked(chapterID string, levelIndex int) (bool, error) {
	if levelIndex <= 0 {
		return true, nil
	}
	highest, err := t.backend.HighestUnlocked(chapterID)
	if err != nil {
		return false, err
	}
	return levelIndex <= highest, nil
}

// MarkLevelComplete sets the completed flag and advances the chapter's
// highest unlocked index to levelIndex+1, clamped into the chapter.
func (t *Tracker) MarkLevelComplete(chapterID string, levelIndex, totalLevels int) error {
	if err := t.backend.SetCompleted(chapterID, levelIndex); err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}
	highest, err := t.backend.HighestUnlocked(chapterID)
	if err != nil {
		return fmt.Errorf("read highest unlocked: %w", err)
	}
	next := clamp(levelIndex+1, 0, totalLevels-1)
	if next > highest {
		if err := t.backend.SetHighestUnlocked(chapterID, next); err != nil {
			return fmt.Errorf("advance highest unlocked: %w", err)
		}
		t.log.Info("level unlocked", "chapter", chapterID, "level", next)
	}
	t.log.Info("level completed", "chapter", chapterID, "level", levelIndex)
	return nil
}

// NextPlayableLevel returns 0 if level 0 is incomplete, else the first
// unlocked incomplete level, else -1.
func (t *Tracker) NextPlayableLevel(chapterID string, totalLevels int) (int, error) {
	done, err := t.IsLevelCompleted(chapterID, 0)
	if err != nil {
		return -1, err
	}
	if !done {
		return 0, nil
	}
	for i := 1; i < totalLevels; i++ {
		unlocked, err := t.IsLevelUnlocked(chapterID, i)
		if err != nil {
			return -1, err
		}
		if !unlocked {
			continue
		}
		done, err := t.IsLevelCompleted(chapterID, i)
		if err != nil {
			return -1, err
		}
		if !done {
			return i, nil
		}
	}
	return -1, nil
}

// ResetChapterProgress clears every flag of one chapter.
func (t *Tracker) ResetChapterProgress(chapterID string) error {
	if err := t.backend.DeleteChapter(chapterID); err != nil {
		return fmt.Errorf("reset chapter %s: %w", chapterID, err)
	}
	t.log.Info("chapter progress reset", "chapter", chapterID)
	return nil
}

// ResetAllProgress clears every chapter.
func (t *Tracker) ResetAllProgress() error {
	if err := t.backend.DeleteAll(); err != nil {
		return fmt.Errorf("reset all progress: %w", err)
	}
	t.log.Info("all progress reset")
	return nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
