package level

// Selection is what the chapter menu hands to the puzzle scene.
type Selection struct {
	ChapterID     string
	LevelIndex    int
	Config        *Config
	ChapterLevels []Config
}

// Handoff carries at most one Selection from the menu to the next puzzle
// scene. It is owned by the application root and passed to both sides.
type Handoff struct {
	sel Selection
	has bool
}

// Set stores a selection, replacing any unread one.
func (h *Handoff) Set(chapterID string, levelIndex int, cfg *Config, chapterLevels []Config) {
	h.sel = Selection{
		ChapterID:     chapterID,
		LevelIndex:    levelIndex,
		Config:        cfg,
		ChapterLevels: chapterLevels,
	}
	h.has = true
}

// Pending reports whether an unread selection exists.
func (h *Handoff) Pending() bool {
	return h.has
}

// Take returns the pending selection and clears it.
func (h *Handoff) Take() (Selection, bool) {
	if !h.has {
		return Selection{}, false
	}
	sel := h.sel
	h.Clear()
	return sel, true
}

// Clear drops any pending selection.
func (h *Handoff) Clear() {
	h.sel = Selection{}
	h.has = false
}
