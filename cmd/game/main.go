package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/urfave/cli/v3"

	"github.com/Garsondee/jigsaw/internal/audio"
	"github.com/Garsondee/jigsaw/internal/config"
	"github.com/Garsondee/jigsaw/internal/game"
	"github.com/Garsondee/jigsaw/internal/level"
	"github.com/Garsondee/jigsaw/internal/logging"
	"github.com/Garsondee/jigsaw/internal/progress"
)

func main() {
	cmd := &cli.Command{
		Name:  "jigsaw",
		Usage: "play jigsaw chapters",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "jigsaw.yaml", Usage: "settings file (missing file uses defaults)"},
			&cli.StringFlag{Name: "chapters", Usage: "chapter manifest, overrides the settings file"},
			&cli.IntFlag{Name: "seed", Usage: "shuffle seed (0 uses the clock)"},
			&cli.BoolFlag{Name: "mute", Usage: "start with sound off"},
			&cli.BoolFlag{Name: "play", Usage: "skip the menu and start the first level"},
			&cli.BoolFlag{Name: "reset-progress", Usage: "clear all saved progress before starting"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if p := cmd.String("chapters"); p != "" {
		cfg.Chapters = p
	}

	log, err := logging.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	tracker, closeStore, err := openProgress(cfg.Progress, log)
	if err != nil {
		return err
	}
	defer closeStore()
	if cmd.Bool("reset-progress") {
		if err := tracker.ResetAllProgress(); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		log.Info("progress cleared")
	}

	chapters, err := loadChapters(cfg.Chapters)
	if err != nil {
		return err
	}

	fx := audio.NewEffects(ebaudio.NewContext(audio.SampleRate), cfg.Sound && !cmd.Bool("mute"), log)
	g, err := game.New(game.Deps{
		Config:   cfg,
		Logger:   log,
		Progress: tracker,
		Chapters: chapters,
		Effects:  fx,
		Handoff:  &level.Handoff{},
		Seed:     int64(cmd.Int("seed")),
		PlayNow:  cmd.Bool("play"),
	})
	if err != nil {
		return err
	}

	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

func openProgress(pc config.ProgressConfig, log *logging.Logger) (*progress.Tracker, func(), error) {
	switch pc.Driver {
	case "sqlite":
		b, err := progress.OpenSQLite(pc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open progress store: %w", err)
		}
		log.Info("progress store opened", "driver", pc.Driver, "path", pc.Path)
		return progress.NewTracker(b, log), func() {
			if err := b.Close(); err != nil {
				log.Warn("close progress store", "error", err)
			}
		}, nil
	default:
		log.Info("progress kept in memory")
		return progress.NewTracker(progress.NewMemoryBackend(), log), func() {}, nil
	}
}

func loadChapters(manifest string) ([]level.Chapter, error) {
	if manifest == "" {
		return []level.Chapter{level.DefaultChapter()}, nil
	}
	chapters, err := level.LoadManifest(manifest)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	return chapters, nil
}
