package level

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for level artwork
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"
)

var ErrNoChapters = errors.New("level: manifest has no chapters")

type manifestFile struct {
	Chapters []manifestChapter `yaml:"chapters"`
}

type manifestChapter struct {
	ID            string          `yaml:"id"`
	Title         string          `yaml:"title"`
	RevealImage   string          `yaml:"reveal_image"`
	RevealRows    int             `yaml:"reveal_rows"`
	RevealColumns int             `yaml:"reveal_columns"`
	Levels        []manifestLevel `yaml:"levels"`
}

type manifestLevel struct {
	Name              string  `yaml:"name"`
	Image             string  `yaml:"image"`
	GridWidth         int     `yaml:"grid_width"`
	GridHeight        int     `yaml:"grid_height"`
	TargetWorldHeight float64 `yaml:"target_world_height"`
}

// LoadManifest reads a chapter manifest and decodes every referenced image.
// Relative image paths resolve against the manifest's directory.
func LoadManifest(path string) ([]Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	chapters, err := ParseManifest(data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	for ci := range chapters {
		ch := &chapters[ci]
		if ch.RevealPath != "" {
			img, err := LoadImage(ch.RevealPath)
			if err != nil {
				return nil, fmt.Errorf("chapter %s reveal: %w", ch.ID, err)
			}
			ch.RevealImage = img
		}
		for li := range ch.Levels {
			l := &ch.Levels[li]
			if l.ImagePath == "" {
				continue
			}
			img, err := LoadImage(l.ImagePath)
			if err != nil {
				return nil, fmt.Errorf("chapter %s level %d: %w", ch.ID, l.LevelIndex, err)
			}
			l.Image = img
		}
	}
	return chapters, nil
}

// ParseManifest validates manifest YAML without touching image files; the
// returned chapters carry resolved paths but no decoded images.
func ParseManifest(data []byte, baseDir string) ([]Chapter, error) {
	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(mf.Chapters) == 0 {
		return nil, ErrNoChapters
	}

	seen := make(map[string]bool, len(mf.Chapters))
	out := make([]Chapter, 0, len(mf.Chapters))
	for i, mc := range mf.Chapters {
		id := strings.TrimSpace(mc.ID)
		if id == "" {
			return nil, fmt.Errorf("chapter %d: missing id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("chapter %s: duplicate id", id)
		}
		seen[id] = true
		if len(mc.Levels) == 0 {
			return nil, fmt.Errorf("chapter %s: %w", id, ErrNoLevels)
		}

		ch := Chapter{
			ID:            id,
			Title:         mc.Title,
			RevealPath:    resolvePath(baseDir, mc.RevealImage),
			RevealRows:    mc.RevealRows,
			RevealColumns: mc.RevealColumns,
		}
		if ch.Title == "" {
			ch.Title = id
		}
		if ch.RevealRows <= 0 || ch.RevealColumns <= 0 {
			ch.RevealRows, ch.RevealColumns = 1, len(mc.Levels)
		}
		total := len(mc.Levels)
		for li, ml := range mc.Levels {
			if ml.GridWidth < 0 || ml.GridHeight < 0 {
				return nil, fmt.Errorf("chapter %s level %d: negative grid", id, li)
			}
			ch.Levels = append(ch.Levels, Config{
				ChapterID:         id,
				LevelIndex:        li,
				TotalLevels:       total,
				DisplayName:       ml.Name,
				ImagePath:         resolvePath(baseDir, ml.Image),
				GridWidth:         ml.GridWidth,
				GridHeight:        ml.GridHeight,
				TargetWorldHeight: ml.TargetWorldHeight,
			}.Normalized())
		}
		out = append(out, ch)
	}
	return out, nil
}

// LoadImage decodes a PNG, JPEG or WebP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func resolvePath(baseDir, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
