package ledger

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenIssuer is the iss claim of wallet session tokens.
	TokenIssuer = "flappy-ledger"
	// TokenTTL is how long a session token stays valid.
	TokenTTL = 24 * time.Hour
)

// ErrInvalidToken is returned when a session token fails verification.
var ErrInvalidToken = errors.New("ledger: invalid token")

// LocalWallet is a file-backed identity. The key file holds a random
// Ed25519 seed; the address is derived from the public half and session
// tokens are signed with the private half.
type LocalWallet struct {
	path string
	now  func() time.Time

	mu      sync.Mutex
	key     ed25519.PrivateKey
	session *Identity
}

// sessionClaims carries the signer's public key so that anyone can check a
// token against the address it names.
type sessionClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// DefaultWalletPath returns ~/.flappy/wallet.key.
func DefaultWalletPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("ledger: cannot find home directory: %w", err)
	}
	return filepath.Join(home, ".flappy", "wallet.key"), nil
}

// NewLocalWallet creates a wallet backed by the key file at path. The file
// is created on first Connect.
func NewLocalWallet(path string) *LocalWallet {
	return &LocalWallet{path: path, now: time.Now}
}

// Connect loads or creates the key and issues a fresh session token.
func (w *LocalWallet) Connect(ctx context.Context) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.key == nil {
		seed, err := loadOrCreateKey(w.path)
		if err != nil {
			return Identity{}, err
		}
		w.key = ed25519.NewKeyFromSeed(seed)
	}

	pub := w.key.Public().(ed25519.PublicKey)
	addr := AddressFor(pub)
	issued := w.now()
	claims := sessionClaims{
		Key: base64.RawURLEncoding.EncodeToString(pub),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   addr,
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(w.key)
	if err != nil {
		return Identity{}, fmt.Errorf("ledger: cannot sign session: %w", err)
	}

	id := Identity{Address: addr, Token: token, IssuedAt: issued}
	w.session = &id
	return id, nil
}

// Disconnect forgets the session. The key file is kept.
func (w *LocalWallet) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = nil
	return nil
}

// Current returns the connected identity, if any.
func (w *LocalWallet) Current() (Identity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session == nil {
		return Identity{}, false
	}
	return *w.session, true
}

// Verify checks a session token issued by this wallet and returns its
// subject address.
func (w *LocalWallet) Verify(token string) (string, error) {
	w.mu.Lock()
	key := w.key
	w.mu.Unlock()

	if key == nil {
		return "", ErrInvalidToken
	}
	own := AddressFor(key.Public().(ed25519.PublicKey))
	if err := VerifyToken(token, own, w.now()); err != nil {
		return "", err
	}
	return own, nil
}

// VerifyToken checks that token is a live session token signed by the key
// behind wallet. The token names its public key; it is accepted only if that
// key hashes to wallet and the EdDSA signature holds.
func VerifyToken(token, wallet string, now time.Time) error {
	if token == "" || wallet == "" {
		return ErrInvalidToken
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		c, ok := t.Claims.(*sessionClaims)
		if !ok {
			return nil, errors.New("unexpected claims")
		}
		pub, err := base64.RawURLEncoding.DecodeString(c.Key)
		if err != nil || len(pub) != ed25519.PublicKeySize {
			return nil, errors.New("malformed key claim")
		}
		if AddressFor(pub) != c.Subject {
			return nil, errors.New("key does not match subject")
		}
		return ed25519.PublicKey(pub), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithSubject(wallet),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		seed, decErr := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(data)))
		if decErr != nil || len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("ledger: corrupt wallet key %s", path)
		}
		return seed, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("ledger: cannot read wallet key: %w", err)
	}

	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("ledger: cannot generate wallet key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("ledger: cannot create wallet directory: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(seed)
	if err := os.WriteFile(path, []byte(encoded+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("ledger: cannot write wallet key: %w", err)
	}
	return seed, nil
}

// AddressFor derives a public address from key material: base64url of its
// SHA-256, which is always 43 characters.
func AddressFor(key []byte) string {
	sum := sha256.Sum256(key)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
