package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-ledger/internal/assets"
	"github.com/vovakirdan/flappy-ledger/internal/core"
	"github.com/vovakirdan/flappy-ledger/internal/flappy"
	"github.com/vovakirdan/flappy-ledger/internal/loop"
	"github.com/vovakirdan/flappy-ledger/internal/platform/tui"
	"github.com/vovakirdan/flappy-ledger/internal/storage"
	"github.com/vovakirdan/flappy-ledger/internal/widget"
)

// autopilotPlayer is recorded as the player of saved simulation runs.
const autopilotPlayer = "autopilot"

var (
	flagSimTicks    int
	flagSimRealtime bool
	flagSimShow     bool
	flagSimRecord   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let the autopilot play a headless game",
	Long: `Run one game without a terminal UI. A simple autopilot flaps toward
the centre of the next gap until it crashes or the tick limit is reached.

By default frames are stepped as fast as possible on a virtual clock, so
the same --seed always gives the same result. --realtime paces frames
with wall-clock timers instead.

Examples:
  flappy simulate --seed 42
  flappy simulate --seed 42 --show
  flappy simulate --difficulty hard --record
  flappy simulate --realtime --fps 30`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 36000, "Stop after this many frames")
	simulateCmd.Flags().BoolVar(&flagSimRealtime, "realtime", false, "Pace frames with wall-clock timers")
	simulateCmd.Flags().BoolVar(&flagSimShow, "show", false, "Print the final frame")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save the score to the local ledger as \"autopilot\"")
}

// autopilot decorates a renderer. After every frame it decides whether to
// flap before the next one, so its input runs on the frame's goroutine.
type autopilot struct {
	next   flappy.Renderer
	widget *widget.Widget
	now    func() time.Time

	flaps    int
	last     flappy.Snapshot
	finished chan struct{}
	once     sync.Once
}

func (a *autopilot) Draw(s flappy.Snapshot) {
	a.next.Draw(s)
	a.last = s

	if s.Phase == flappy.PhaseGameOver {
		a.once.Do(func() { close(a.finished) })
		return
	}
	if flappy.ShouldFlap(s, flappy.AutopilotSlack) && a.widget.Input(core.ActionJump, a.now()) {
		a.flaps++
	}
}

func runSimulate(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "simulate",
	})

	flappyCfg, err := loadFlappyConfig()
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sheet, err := assets.Default()
	if err != nil {
		return err
	}
	gate := assets.Ready(sheet)

	rc := core.DefaultConfig()
	game := flappy.New(flappyCfg,
		flappy.WithSeed(seed),
		flappy.WithGameOverHandler(func(score int) {
			logger.Info("game over", "score", score)
		}),
	)
	screen := tui.NewScreenRenderer(core.NewScreen(rc.ScreenW, rc.ScreenH), gate)
	pilot := &autopilot{next: screen, finished: make(chan struct{})}

	var w *widget.Widget
	if flagSimRealtime {
		w, err = simulateRealtime(game, pilot, gate, logger)
	} else {
		w, err = simulateStepped(game, pilot, gate)
	}
	if err != nil {
		return err
	}

	final := pilot.last
	logger.Info("simulation finished",
		"seed", seed,
		"score", final.Score,
		"ticks", final.Tick,
		"frames", w.Frames(),
		"flaps", pilot.flaps,
		"phase", final.Phase,
	)

	if flagSimShow {
		fmt.Println(screen.Screen().String())
	}
	fmt.Printf("seed=%d score=%d ticks=%d\n", seed, final.Score, final.Tick)

	if flagSimRecord && final.Score > 0 {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening scores database: %w", err)
		}
		defer store.Close()
		if _, err := store.SaveScore(context.Background(), autopilotPlayer, final.Score, time.Now()); err != nil {
			return err
		}
		logger.Info("score recorded", "player", autopilotPlayer, "db", flagDBPath)
	}
	return nil
}

// simulateStepped fires frames on a virtual clock until game over or the
// tick limit.
func simulateStepped(game *flappy.Game, pilot *autopilot, gate *assets.Gate) (*widget.Widget, error) {
	sched := loop.NewManualScheduler()
	w, err := widget.New(game, pilot, sched, gate)
	if err != nil {
		return nil, err
	}
	defer w.Close()

	interval := loop.Interval(flagFPS)
	clock := time.Unix(0, 0)
	pilot.widget = w
	pilot.now = func() time.Time { return clock }

	if err := w.Start(); err != nil {
		return nil, err
	}
	w.Input(core.ActionStart, clock)

	for range flagSimTicks {
		clock = clock.Add(interval)
		if sched.Fire(clock) == 0 {
			break
		}
		select {
		case <-pilot.finished:
			return w, nil
		default:
		}
	}
	return w, nil
}

// simulateRealtime paces frames with timers. Frames and the final Close
// share a mutex so they never overlap.
func simulateRealtime(game *flappy.Game, pilot *autopilot, gate *assets.Gate, logger *log.Logger) (*widget.Widget, error) {
	var mu sync.Mutex
	sched := loop.NewTimerScheduler(loop.Interval(flagFPS), loop.WithDispatcher(func(run func()) {
		mu.Lock()
		defer mu.Unlock()
		run()
	}))

	w, err := widget.New(game, pilot, sched, gate)
	if err != nil {
		return nil, err
	}
	pilot.widget = w
	pilot.now = time.Now

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mu.Lock()
	err = w.Start()
	if err == nil {
		w.Input(core.ActionStart, time.Now())
	}
	mu.Unlock()
	if err != nil {
		return nil, err
	}

	limit := time.Duration(flagSimTicks) * loop.Interval(flagFPS)
	select {
	case <-pilot.finished:
	case <-ctx.Done():
		logger.Warn("interrupted")
	case <-time.After(limit):
		logger.Warn("tick limit reached", "ticks", flagSimTicks)
	}

	mu.Lock()
	w.Close()
	mu.Unlock()
	return w, nil
}
