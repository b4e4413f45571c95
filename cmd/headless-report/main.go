package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/jigsaw/internal/puzzle"
)

type runStats struct {
	runIndex int
	seed     int64
	gridW    int
	gridH    int
	animated bool

	drags       int
	misdrops    int
	swaps       int
	snapBacks   int
	rejects     int
	placements  int
	completions int
	ticks       int

	shuffleCommitTick int
	firstPlaceTick    int
	completeTick      int

	preShuffled int // pieces that landed home during the shuffle
	violations  string
}

func main() {
	cmd := &cli.Command{
		Name:  "headless-report",
		Usage: "solve seeded puzzles without a window and print a report",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "runs", Value: 5, Usage: "number of headless assemblies"},
			&cli.IntFlag{Name: "grid-width", Value: 4, Usage: "grid columns"},
			&cli.IntFlag{Name: "grid-height", Value: 4, Usage: "grid rows"},
			&cli.IntFlag{Name: "seed-base", Value: 42, Usage: "base RNG seed for run 1"},
			&cli.IntFlag{Name: "seed-step", Value: 1, Usage: "seed increment between runs"},
			&cli.BoolFlag{Name: "animated", Usage: "run the timed reveal and animated shuffle"},
			&cli.FloatFlag{Name: "mistake-rate", Value: 0.2, Usage: "chance a drag goes to empty space or a wrong slot"},
			&cli.IntFlag{Name: "workers", Value: 4, Usage: "runs solved in parallel"},
			&cli.BoolFlag{Name: "copy", Usage: "also copy the report to the clipboard"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	runs := cmd.Int("runs")
	w, h := cmd.Int("grid-width"), cmd.Int("grid-height")
	seedBase, seedStep := int64(cmd.Int("seed-base")), int64(cmd.Int("seed-step"))
	animated := cmd.Bool("animated")
	mistakeRate := cmd.Float("mistake-rate")

	if runs <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	if mistakeRate < 0 || mistakeRate >= 1 {
		return fmt.Errorf("--mistake-rate must be in [0,1)")
	}

	var b strings.Builder
	out := io.MultiWriter(os.Stdout, &b)
	fmt.Fprintf(out, "=== Headless Assembly Report ===\n")
	fmt.Fprintf(out, "grid=%dx%d runs=%d seed_base=%d seed_step=%d animated=%t mistake_rate=%.2f\n\n",
		w, h, runs, seedBase, seedStep, animated, mistakeRate)

	all, err := runAll(runs, seedBase, seedStep, w, h, animated, mistakeRate, cmd.Int("workers"))
	if err != nil {
		return err
	}
	for _, rs := range all {
		printRun(out, rs)
	}
	printAggregate(out, all)

	if cmd.Bool("copy") {
		if err := clipboard.WriteAll(b.String()); err != nil {
			return fmt.Errorf("copy report: %w", err)
		}
		fmt.Println("(report copied to clipboard)")
	}
	return nil
}

// runAll solves every run on up to workers goroutines. Each run owns its
// engine and RNG, so results do not depend on scheduling.
func runAll(runs int, seedBase, seedStep int64, w, h int, animated bool, mistakeRate float64, workers int) ([]runStats, error) {
	if workers < 1 {
		workers = 1
	}
	all := make([]runStats, runs)
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		eg.Go(func() error {
			rs, err := runAssembly(i+1, seed, w, h, animated, mistakeRate)
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			all[i] = rs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func runAssembly(runIndex int, seed int64, w, h int, animated bool, mistakeRate float64) (runStats, error) {
	ts, err := puzzle.NewTestSession(
		puzzle.WithGrid(w, h),
		puzzle.WithSeed(seed),
		puzzle.WithImageSize(800, 800),
		puzzle.WithAnimatedShuffle(animated),
	)
	if err != nil {
		return runStats{}, err
	}
	if err := ts.StartPlay(); err != nil {
		return runStats{}, err
	}
	preShuffled := ts.Engine.PlacedCount()

	rng := rand.New(rand.NewSource(seed ^ 0x5eed)) // #nosec G404 -- report bot
	maxDrags := ts.Engine.TotalPieces() * 20
	st := ts.Solve(rng, mistakeRate, maxDrags)
	if !ts.Engine.IsComplete() {
		// finish without mistakes so every run ends solved
		more := ts.Solve(nil, 0, maxDrags)
		st.Drags += more.Drags
		st.Swaps += more.Swaps
		st.SnapBacks += more.SnapBacks
		st.Ticks += more.Ticks
	}

	entries := ts.Log.Entries()
	commit := firstTick(entries, puzzle.CatPuzzle, "shuffle_commit", -1)
	rs := runStats{
		runIndex:          runIndex,
		seed:              seed,
		gridW:             ts.Engine.Layout().Width,
		gridH:             ts.Engine.Layout().Height,
		animated:          animated,
		drags:             st.Drags,
		misdrops:          st.Misdrops,
		swaps:             st.Swaps,
		snapBacks:         st.SnapBacks,
		rejects:           ts.Log.Count(puzzle.CatSlot, "reject"),
		placements:        ts.Placements,
		completions:       ts.Completions,
		ticks:             ts.Engine.Tick(),
		shuffleCommitTick: commit,
		firstPlaceTick:    firstTick(entries, puzzle.CatPiece, "placed", commit),
		completeTick:      firstTick(entries, puzzle.CatPuzzle, "complete", -1),
		preShuffled:       preShuffled,
	}
	if err := ts.Engine.CheckInvariants(); err != nil {
		rs.violations = err.Error()
	}
	return rs, nil
}

// firstTick returns the tick of the first matching entry strictly after
// tick after, or -1.
func firstTick(entries []puzzle.LogEntry, category, key string, after int) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key && e.Tick > after {
			return e.Tick
		}
	}
	return -1
}

// cleanRun reports whether a run ended with exactly one completion and
// consistent occupancy.
func cleanRun(rs runStats) (bool, string) {
	switch {
	case rs.violations != "":
		return false, "invariant_violation"
	case rs.completions != 1:
		return false, fmt.Sprintf("completions=%d", rs.completions)
	case rs.placements != rs.gridW*rs.gridH:
		return false, fmt.Sprintf("placements=%d", rs.placements)
	}
	return true, "ok"
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "phase_markers: shuffle_commit=%d first_place=%d complete=%d total_ticks=%d\n",
		rs.shuffleCommitTick, rs.firstPlaceTick, rs.completeTick, rs.ticks)
	fmt.Fprintf(w, "drag_totals: drags=%d misdrops=%d swaps=%d snap_backs=%d rejects=%d\n",
		rs.drags, rs.misdrops, rs.swaps, rs.snapBacks, rs.rejects)
	fmt.Fprintf(w, "placement: placed_events=%d landed_home_in_shuffle=%d completions=%d\n",
		rs.placements, rs.preShuffled, rs.completions)
	ok, reason := cleanRun(rs)
	fmt.Fprintf(w, "verdict: clean=%t reason=%s\n", ok, reason)
	if rs.violations != "" {
		fmt.Fprintf(w, "violations:\n%s\n", rs.violations)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalDrags, totalMis, totalSwaps, totalSnaps, totalPre := 0, 0, 0, 0, 0
	clean := 0
	completeTicks := make([]int, 0, len(all))
	for _, rs := range all {
		totalDrags += rs.drags
		totalMis += rs.misdrops
		totalSwaps += rs.swaps
		totalSnaps += rs.snapBacks
		totalPre += rs.preShuffled
		if rs.completeTick >= 0 {
			completeTicks = append(completeTicks, rs.completeTick)
		}
		if ok, _ := cleanRun(rs); ok {
			clean++
		}
	}
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d clean=%d\n", len(all), clean)
	fmt.Fprintf(w, "avg_per_run: drags=%.1f misdrops=%.1f swaps=%.1f snap_backs=%.1f landed_home_in_shuffle=%.1f\n",
		avg(totalDrags, len(all)), avg(totalMis, len(all)), avg(totalSwaps, len(all)),
		avg(totalSnaps, len(all)), avg(totalPre, len(all)))
	fmt.Fprintf(w, "avg_complete_tick=%s\n", avgTickString(completeTicks))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
