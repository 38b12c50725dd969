package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-ledger/internal/assets"
	"github.com/vovakirdan/flappy-ledger/internal/core"
	"github.com/vovakirdan/flappy-ledger/internal/ledger"
	"github.com/vovakirdan/flappy-ledger/internal/platform/tui"
	"github.com/vovakirdan/flappy-ledger/internal/storage"
)

var (
	flagSprites string
	flagRemote  string
	flagOffline bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play flappy in this terminal",
	Long: `Start a game in the current terminal.

Controls:
  Space/Up/W/Click - Flap (also starts and restarts)
  Enter            - Start
  P/Esc            - Pause
  R                - Restart (after game over)
  S                - Submit the last score
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

When a wallet exists (see 'flappy connect'), press S after a game over to
record the score on the local ledger, or on --remote when given.

Examples:
  flappy play
  flappy play --difficulty easy
  flappy play --remote http://localhost:8080
  flappy play --sprites ./my-sprites.yaml --offline`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSprites, "sprites", "", "Path to a custom sprite sheet YAML")
	playCmd.Flags().StringVar(&flagRemote, "remote", "", "Submit scores to a remote ledger at this URL")
	playCmd.Flags().BoolVar(&flagOffline, "offline", false, "Do not submit scores")
}

func runPlay(_ *cobra.Command, _ []string) error {
	flappyCfg, err := loadFlappyConfig()
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	logger, closeLog := playLogger()
	defer closeLog()

	opts := tui.Options{
		Flappy: flappyCfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Assets: assets.Preload(func() (*assets.Sheet, error) {
			return assets.LoadFile(flagSprites)
		}),
		Logger: logger,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
		if high, hsErr := store.HighScore(context.Background()); hsErr == nil {
			opts.HighScore = high
		}
	}

	if !flagOffline {
		id, ok := existingIdentity()
		if ok {
			opts.Identity = id
		}

		var svc ledger.ScoreService
		switch {
		case flagRemote != "":
			svc = ledger.NewClient(flagRemote)
		case store != nil:
			svc = store
		}
		if svc != nil {
			opts.Submitter = ledger.NewSubmitter(svc, logger)
			defer opts.Submitter.Wait()
		}
	}

	return tui.Run(opts)
}

// existingIdentity connects the local wallet only if its key already
// exists; play never creates one.
func existingIdentity() (ledger.Identity, bool) {
	path, err := ledger.DefaultWalletPath()
	if err != nil {
		return ledger.Identity{}, false
	}
	if _, err := os.Stat(path); err != nil {
		return ledger.Identity{}, false
	}
	id, err := ledger.NewLocalWallet(path).Connect(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open wallet: %v\n", err)
		return ledger.Identity{}, false
	}
	return id, true
}

// playLogger writes to ~/.flappy/flappy.log, since the game owns the
// terminal while it runs.
func playLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".flappy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "flappy.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "flappy",
	})
	return logger, func() { f.Close() }
}
