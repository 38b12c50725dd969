package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultProcess is the ledger process scores are sent to.
const DefaultProcess = "flappy-scores"

// Ledger actions.
const (
	ActionInitialize   = "Initialize"
	ActionSaveScore    = "SaveScore"
	ActionGetAllScores = "GetAllScores"
)

// ErrRejected is returned when the ledger answers a message with an error.
var ErrRejected = errors.New("ledger: message rejected")

// Tag is a name/value pair attached to a ledger message.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Message is the envelope posted to the ledger.
type Message struct {
	ID      string `json:"id"`
	Process string `json:"process"`
	Action  string `json:"action"`
	Tags    []Tag  `json:"tags"`
	Data    string `json:"data"`
}

// Tag returns the value of the named tag.
func (m Message) Tag(name string) (string, bool) {
	for _, t := range m.Tags {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}

// MessageResult is the ledger's reply. Output carries the process output,
// itself usually a JSON document.
type MessageResult struct {
	Output string `json:"Output"`
	Error  string `json:"Error,omitempty"`
}

// ScoreRecord is one score as the ledger process stores it. Timestamps are
// unix seconds.
type ScoreRecord struct {
	Player    string  `json:"player,omitempty"`
	Score     int     `json:"score,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
}

// ScoresOutput is the GetAllScores output document.
type ScoresOutput struct {
	Status string        `json:"status"`
	Data   []ScoreRecord `json:"data"`
}

// Client is a ScoreService backed by a remote ledger over HTTP.
type Client struct {
	baseURL string
	process string
	http    *http.Client
	now     func() time.Time

	mu          sync.Mutex
	initialized map[string]bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithProcess targets a different ledger process.
func WithProcess(process string) ClientOption {
	return func(c *Client) { c.process = process }
}

// NewClient creates a client for the ledger at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		process:     DefaultProcess,
		http:        &http.Client{Timeout: 15 * time.Second},
		now:         time.Now,
		initialized: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize registers the wallet with the ledger process. It is sent once
// per address until Reset.
func (c *Client) Initialize(ctx context.Context, id Identity) error {
	if id.Empty() {
		return ErrNotConnected
	}

	c.mu.Lock()
	done := c.initialized[id.Address]
	c.mu.Unlock()
	if done {
		return nil
	}

	_, err := c.send(ctx, id.Token, ActionInitialize, []Tag{
		{Name: "Wallet", Value: id.Address},
	}, "Initialization message")
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.initialized[id.Address] = true
	c.mu.Unlock()
	return nil
}

// SubmitScore records score for id, initializing the wallet first if needed.
func (c *Client) SubmitScore(ctx context.Context, id Identity, score int) error {
	if id.Empty() {
		return ErrNotConnected
	}
	if err := c.Initialize(ctx, id); err != nil {
		return err
	}

	value := strconv.Itoa(score)
	_, err := c.send(ctx, id.Token, ActionSaveScore, []Tag{
		{Name: "Score", Value: value},
		{Name: "Wallet", Value: id.Address},
	}, value)
	return err
}

// ListScores fetches every recorded score. Output the ledger does not mark
// as a successful score list yields no entries.
func (c *Client) ListScores(ctx context.Context) ([]Entry, error) {
	res, err := c.send(ctx, "", ActionGetAllScores, nil, "")
	if err != nil {
		return nil, err
	}

	var out ScoresOutput
	if err := json.Unmarshal([]byte(res.Output), &out); err != nil || out.Status != "success" {
		return []Entry{}, nil
	}

	entries := make([]Entry, 0, len(out.Data))
	for _, r := range out.Data {
		entries = append(entries, c.entryFrom(r))
	}
	SortEntries(entries)
	return entries, nil
}

// Reset forgets which wallets have been initialized.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialized = make(map[string]bool)
}

func (c *Client) entryFrom(r ScoreRecord) Entry {
	e := Entry{Player: r.Player, Score: r.Score}
	if e.Player == "" {
		e.Player = UnknownPlayer
	}
	if r.Timestamp > 0 {
		e.Timestamp = time.UnixMilli(int64(math.Round(r.Timestamp * 1000)))
	} else {
		e.Timestamp = c.now()
	}
	return e
}

func (c *Client) send(ctx context.Context, token, action string, tags []Tag, data string) (MessageResult, error) {
	msg := Message{
		ID:      uuid.NewString(),
		Process: c.process,
		Action:  action,
		Tags:    append([]Tag{{Name: "Action", Value: action}}, tags...),
		Data:    data,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return MessageResult{}, fmt.Errorf("ledger: encode %s: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/message", bytes.NewReader(body))
	if err != nil {
		return MessageResult{}, fmt.Errorf("ledger: build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return MessageResult{}, fmt.Errorf("ledger: send %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return MessageResult{}, fmt.Errorf("%w: %s: status %d: %s", ErrRejected, action, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var res MessageResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return MessageResult{}, fmt.Errorf("ledger: decode %s result: %w", action, err)
	}
	if res.Error != "" {
		return MessageResult{}, fmt.Errorf("%w: %s: %s", ErrRejected, action, res.Error)
	}
	return res, nil
}
