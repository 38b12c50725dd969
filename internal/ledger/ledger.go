// Package ledger connects finished runs to a score ledger: a player
// identity from a wallet, and a score service that records and lists
// scores either locally or on a remote process.
package ledger

import (
	"context"
	"errors"
	"sort"
	"time"
)

var (
	// ErrNotConnected is returned when an operation needs an identity and
	// none is connected.
	ErrNotConnected = errors.New("ledger: not connected")
	// ErrNothingToSubmit is returned for scores that are not worth recording.
	ErrNothingToSubmit = errors.New("ledger: nothing to submit")
)

// UnknownPlayer names entries that arrive without a player.
const UnknownPlayer = "Unknown"

// Identity is a connected player.
type Identity struct {
	Address  string // 43-char base64url wallet address
	Token    string // Signed session token, sent as a bearer credential
	IssuedAt time.Time
}

// Empty reports whether the identity carries no address.
func (id Identity) Empty() bool {
	return id.Address == ""
}

// Short returns an abbreviated address for display.
func (id Identity) Short() string {
	return ShortAddress(id.Address)
}

// ShortAddress abbreviates long addresses as "abcdef...wxyz".
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// Provider yields the identity scores are recorded under.
type Provider interface {
	Connect(ctx context.Context) (Identity, error)
	Disconnect(ctx context.Context) error
}

// Entry is one recorded score.
type Entry struct {
	Player    string
	Score     int
	Timestamp time.Time
}

// ScoreService records and lists scores.
type ScoreService interface {
	SubmitScore(ctx context.Context, id Identity, score int) error
	ListScores(ctx context.Context) ([]Entry, error)
}

// SortEntries orders entries by score descending, oldest first on ties.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
}
