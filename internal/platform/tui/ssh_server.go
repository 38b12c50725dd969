package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	gossh "golang.org/x/crypto/ssh"

	"github.com/vovakirdan/flappy-ledger/internal/config"
	"github.com/vovakirdan/flappy-ledger/internal/core"
	"github.com/vovakirdan/flappy-ledger/internal/ledger"
	"github.com/vovakirdan/flappy-ledger/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.flappy/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// LedgerAddr, when set, also serves the score ledger over HTTP so
	// remote clients can submit to and read from the same database.
	LedgerAddr string

	Flappy  config.FlappyConfig
	FPS     int
	Verbose bool
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      storage.DefaultPath,
		IdleTimeout: 30 * time.Minute,
		Flappy:      config.DefaultFlappyConfig(),
		FPS:         core.DefaultConfig().TickRate,
	}
}

// SSHServer wraps a Wish SSH server. Every session plays its own game and
// records scores under the address derived from the player's public key.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	ledger *http.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if err := cfg.Flappy.Validate(); err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy-ssh",
	})
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".flappy", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		// Any key is welcome; it only names the player. Clients without a
		// key get in through keyboard-interactive and play offline.
		wish.WithPublicKeyAuth(func(ssh.Context, ssh.PublicKey) bool { return true }),
		wish.WithKeyboardInteractiveAuth(func(ssh.Context, gossh.KeyboardInteractiveChallenge) bool { return true }),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server

	if cfg.LedgerAddr != "" {
		if store == nil {
			return nil, errors.New("ledger endpoint needs a scores database")
		}
		srv.ledger = &http.Server{
			Addr:              cfg.LedgerAddr,
			Handler:           ledger.NewHandler(store, logger.WithPrefix("ledger")),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return srv, nil
}

// SessionIdentity derives the ledger identity of an SSH session. Sessions
// without a public key play offline.
func SessionIdentity(sess ssh.Session) ledger.Identity {
	key := sess.PublicKey()
	if key == nil {
		return ledger.Identity{}
	}
	return ledger.Identity{
		Address:  ledger.AddressFor(key.Marshal()),
		IssuedAt: time.Now(),
	}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	id := SessionIdentity(sshSession)
	ctx := sshSession.Context()
	opts := Options{
		Flappy: s.config.Flappy,
		Runtime: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height,
			TickRate: s.config.FPS,
			Seed:     time.Now().UnixNano(),
		},
		Identity: id,
		Logger:   s.logger.With("user", sshSession.User()),
	}

	if s.store != nil {
		if !id.Empty() {
			if err := s.store.RegisterWallet(ctx, id.Address); err != nil {
				s.logger.Warn("cannot register wallet", "address", id.Short(), "error", err)
			}
		}
		if high, err := s.store.HighScore(ctx); err == nil {
			opts.HighScore = high
		}
		opts.Submitter = ledger.NewSubmitter(s.store, opts.Logger)
	}

	model, err := NewModel(opts)
	if err != nil {
		s.logger.Error("cannot create game", "user", sshSession.User(), "error", err)
		return nil, nil
	}
	// A dropped connection never reaches the quit key.
	go func() {
		<-ctx.Done()
		model.Close()
	}()
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"player", SessionIdentity(sshSession).Short(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	if s.ledger != nil {
		s.logger.Info("serving score ledger", "address", s.config.LedgerAddr)
		go func() {
			if err := s.ledger.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("ledger error", "error", err)
			}
		}()
	}

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the servers and closes the database.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if s.ledger != nil {
		errs = append(errs, s.ledger.Shutdown(ctx))
	}
	errs = append(errs, s.server.Shutdown(ctx))
	s.closeStore()
	return errors.Join(errs...)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// LedgerAddr returns the ledger listen address, or "" when not serving one.
func (s *SSHServer) LedgerAddr() string {
	if s.ledger == nil {
		return ""
	}
	host, port, err := net.SplitHostPort(s.ledger.Addr)
	if err != nil {
		return s.ledger.Addr
	}
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
