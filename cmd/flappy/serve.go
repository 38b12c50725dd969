package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-ledger/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagLedgerAddr  string
	flagVerbose     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the flappy SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection plays its own game. Players are identified by their
SSH public key, and all players share the server's score ledger.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.flappy/host_key

With --ledger-addr the same ledger is also served over HTTP, so
'flappy play --remote' and 'flappy scores --remote' can use it.

Examples:
  flappy serve                           # Listen on :23234 with auto-generated key
  flappy serve --ssh :2222               # Listen on port 2222
  flappy serve --host-key ./my_host_key  # Use specific host key
  flappy serve --ledger-addr :8080       # Also serve the score ledger

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagLedgerAddr, "ledger-addr", "", "Also serve the score ledger over HTTP on this address")
	serveCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug messages")
}

func runServe(_ *cobra.Command, _ []string) error {
	flappyCfg, err := loadFlappyConfig()
	if err != nil {
		return err
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.LedgerAddr = flagLedgerAddr
	cfg.Flappy = flappyCfg
	cfg.FPS = flagFPS
	cfg.Verbose = flagVerbose

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting flappy SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234")
	if addr := server.LedgerAddr(); addr != "" {
		fmt.Printf("Score ledger at %s\n", addr)
	}
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
