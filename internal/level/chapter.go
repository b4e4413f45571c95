package level

import (
	"image"
	"sort"
)

// Chapter is an ordered sequence of levels sharing unlock bookkeeping.
type Chapter struct {
	ID    string
	Title string

	// RevealImage is cut into RevealRows x RevealColumns card fragments on the
	// chapter menu; completed levels uncover their fragment.
	RevealPath    string
	RevealImage   image.Image
	RevealRows    int
	RevealColumns int

	Levels []Config
}

// Ordered returns the chapter's levels sorted by LevelIndex.
func (ch Chapter) Ordered() []Config {
	return OrderLevels(ch.Levels, ch.ID)
}

// Level returns the level with the given index.
func (ch Chapter) Level(index int) (Config, bool) {
	return Find(ch.Levels, ch.ID, index)
}

// OrderLevels keeps the levels belonging to chapterID and sorts them by index.
func OrderLevels(levels []Config, chapterID string) []Config {
	out := FilterChapter(levels, chapterID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LevelIndex < out[j].LevelIndex })
	return out
}

// FilterChapter returns the levels whose ChapterID matches exactly.
func FilterChapter(levels []Config, chapterID string) []Config {
	out := make([]Config, 0, len(levels))
	for _, l := range levels {
		if l.ChapterID != chapterID {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ResolveChapterLevels picks the level list used for next-level lookup:
// the handed-off list filtered to the active chapter, else the static
// fallback list filtered the same way, else the active level alone.
func ResolveChapterLevels(handoff, fallback []Config, active Config) []Config {
	levels := FilterChapter(handoff, active.ChapterID)
	if len(levels) == 0 {
		levels = FilterChapter(fallback, active.ChapterID)
	}
	if len(levels) == 0 {
		levels = []Config{active}
	}
	return levels
}

// Find returns the level of chapterID with the given index.
func Find(levels []Config, chapterID string, index int) (Config, bool) {
	for _, l := range levels {
		if l.ChapterID == chapterID && l.LevelIndex == index {
			return l, true
		}
	}
	return Config{}, false
}

// Next returns the level following cur in the same chapter.
func Next(levels []Config, cur Config) (Config, bool) {
	return Find(levels, cur.ChapterID, cur.LevelIndex+1)
}
