// flappy is a Flappy Bird-style game for the terminal with a score ledger.
//
// Usage:
//
//	flappy play              - Play in this terminal
//	flappy scores            - Show the score ledger
//	flappy serve             - Start SSH server for remote play
//	flappy simulate          - Run a headless autopilot game
//	flappy connect           - Create or show your wallet identity
//	flappy config            - Print the game tunables
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.flappy/scores.db)
//	--config <path>       - Load tunables from a YAML file
//	--difficulty <preset> - easy, normal or hard
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-ledger/internal/config"
	"github.com/vovakirdan/flappy-ledger/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy Ledger - flap through pipes in your terminal",
	Long: `Flappy Ledger is a terminal Flappy Bird clone. Final scores are
recorded on a score ledger under your wallet address.

Available commands:
  play      - Play in this terminal
  scores    - View the score ledger
  serve     - Start SSH server for remote play
  simulate  - Let the autopilot play a headless game
  connect   - Create or show your wallet
  config    - Print game tunables

Examples:
  flappy play
  flappy play --difficulty hard
  flappy scores --remote http://localhost:8080
  flappy serve --ssh :2222 --ledger-addr :8080
  flappy simulate --seed 42`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(configCmd)
}

// loadFlappyConfig resolves --config and --difficulty into validated
// tunables.
func loadFlappyConfig() (config.FlappyConfig, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.FlappyConfig{}, err
	}
	cfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyFlappyPreset(&cfg, preset); err != nil {
		return cfg, fmt.Errorf("difficulty %s: %w", preset, err)
	}
	return cfg, nil
}
