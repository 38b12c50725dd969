// Package storage provides the local SQLite score ledger.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/flappy-ledger/internal/ledger"
)

// DefaultPath is where the local ledger lives unless --db says otherwise.
const DefaultPath = "~/.flappy/scores.db"

// Store is the local score ledger.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Ensure Store can stand in for the remote ledger
var _ ledger.ScoreService = (*Store)(nil)

// ScoreEntry is a stored score row.
type ScoreEntry struct {
	ID        int64
	Player    string
	Score     int
	CreatedAt time.Time
}

// Entry converts the row to a ledger entry.
func (e ScoreEntry) Entry() ledger.Entry {
	return ledger.Entry{Player: e.Player, Score: e.Score, Timestamp: e.CreatedAt}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// Timestamps are unix milliseconds so ties order deterministically.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC, created_at ASC);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);

		CREATE TABLE IF NOT EXISTS wallets (
			address TEXT PRIMARY KEY,
			first_seen INTEGER NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SubmitScore records a finished run for id.
func (s *Store) SubmitScore(ctx context.Context, id ledger.Identity, score int) error {
	if id.Empty() {
		return ledger.ErrNotConnected
	}
	_, err := s.SaveScore(ctx, id.Address, score, s.now())
	return err
}

// SaveScore records a score for player at the given time.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(ctx context.Context, player string, score int, at time.Time) (int64, error) {
	if player == "" {
		player = ledger.UnknownPlayer
	}
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO scores (player, score, created_at) VALUES (?, ?, ?)",
		player, score, at.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// ListScores returns every score, best first, oldest first on ties.
func (s *Store) ListScores(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := s.TopScores(ctx, -1)
	if err != nil {
		return nil, err
	}
	entries := make([]ledger.Entry, len(rows))
	for i, r := range rows {
		entries[i] = r.Entry()
	}
	return entries, nil
}

// TopScores retrieves the best scores. A negative limit returns all rows;
// zero defaults to 10.
func (s *Store) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if limit == 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, score, created_at
		 FROM scores
		 ORDER BY score DESC, created_at ASC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	entries := []ScoreEntry{}
	for rows.Next() {
		var e ScoreEntry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score overall, or 0 if none exist.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	return s.maxScore(ctx, "SELECT MAX(score) FROM scores")
}

// PlayerBest returns the best score of one player, or 0.
func (s *Store) PlayerBest(ctx context.Context, player string) (int, error) {
	return s.maxScore(ctx, "SELECT MAX(score) FROM scores WHERE player = ?", player)
}

func (s *Store) maxScore(ctx context.Context, query string, args ...any) (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes every score.
func (s *Store) ClearScores(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// RegisterWallet records the first time an address was seen. Registering
// again is a no-op.
func (s *Store) RegisterWallet(ctx context.Context, address string) error {
	if address == "" {
		return ledger.ErrNotConnected
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO wallets (address, first_seen) VALUES (?, ?)",
		address, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot register wallet: %w", err)
	}
	return nil
}

// WalletFirstSeen returns when an address was registered.
func (s *Store) WalletFirstSeen(ctx context.Context, address string) (time.Time, bool, error) {
	var ms int64
	err := s.db.QueryRowContext(ctx,
		"SELECT first_seen FROM wallets WHERE address = ?", address,
	).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("storage: cannot query wallet: %w", err)
	}
	return time.UnixMilli(ms), true, nil
}

// Stats contains aggregated statistics over the ledger.
type Stats struct {
	Runs       int
	Players    int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Stats aggregates every stored score.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var last sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT player), COALESCE(MAX(score), 0),
		        COALESCE(AVG(score), 0), MAX(created_at)
		 FROM scores`,
	).Scan(&stats.Runs, &stats.Players, &stats.HighScore, &stats.AvgScore, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	if last.Valid {
		stats.LastPlayed = time.UnixMilli(last.Int64)
	}

	return stats, nil
}
