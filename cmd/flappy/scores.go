package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-ledger/internal/ledger"
	"github.com/vovakirdan/flappy-ledger/internal/platform/tui"
	"github.com/vovakirdan/flappy-ledger/internal/storage"
)

var (
	flagScoresRemote string
	flagScoresLimit  int
	flagScoresPlain  bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the score ledger",
	Long: `Display recorded scores, best first.

In a terminal this opens an interactive scoreboard; with --plain or when
output is piped it prints the top scores instead.

Examples:
  flappy scores
  flappy scores --plain --limit 20
  flappy scores --remote http://localhost:8080
  flappy scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresRemote, "remote", "", "Read scores from a remote ledger at this URL")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to print in plain mode")
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print instead of opening the scoreboard")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every score in the local database")
	scoresCmd.MarkFlagsMutuallyExclusive("clear", "remote")
}

func runScores(_ *cobra.Command, _ []string) error {
	var source tui.ScoreSource
	var store *storage.Store

	if flagScoresRemote != "" {
		source = ledger.NewClient(flagScoresRemote)
	} else {
		var err error
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening scores database: %w", err)
		}
		defer store.Close()
		source = store
	}

	if flagScoresClear {
		if store == nil {
			return fmt.Errorf("--clear only applies to the local database")
		}
		if err := store.ClearScores(context.Background()); err != nil {
			return err
		}
		fmt.Println("Local scores cleared.")
		return nil
	}

	self := ""
	if id, ok := existingIdentity(); ok {
		self = id.Address
	}

	if !flagScoresPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		_, err := tui.RunScoreboard(source, width, height, self)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := source.ListScores(ctx)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}
	ledger.SortEntries(entries)

	fmt.Println("High Scores - Flappy Ledger")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' to set the first high score!")
		return nil
	}

	if flagScoresLimit > 0 && len(entries) > flagScoresLimit {
		entries = entries[:flagScoresLimit]
	}

	fmt.Printf("  %-4s  %-14s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-14s  %-8s  %s\n", "----", "------", "-----", "----")
	for i, e := range entries {
		player := ledger.ShortAddress(e.Player)
		if self != "" && e.Player == self {
			player += " *"
		}
		fmt.Printf("  %-4d  %-14s  %-8d  %s\n", i+1, player, e.Score, e.Timestamp.Local().Format("2006-01-02 15:04"))
	}

	if store != nil {
		if stats, err := store.Stats(ctx); err == nil {
			fmt.Println()
			fmt.Printf("Best: %d  Runs: %d  Players: %d  Average: %.1f\n",
				stats.HighScore, stats.Runs, stats.Players, stats.AvgScore)
		}
	}
	return nil
}
