package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var errUnauthorized = errors.New("unauthorized")

// Registrar is implemented by services that keep track of wallets.
type Registrar interface {
	RegisterWallet(ctx context.Context, address string) error
}

// Handler serves the ledger message protocol on top of a ScoreService, so
// a local store can be shared with remote players.
type Handler struct {
	svc     ScoreService
	process string
	logger  *log.Logger
	now     func() time.Time
}

// NewHandler creates a handler for DefaultProcess. A nil logger uses the
// default logger.
func NewHandler(svc ScoreService, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		svc:     svc,
		process: DefaultProcess,
		logger:  logger,
		now:     time.Now,
	}
}

// ServeHTTP handles POST /message.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/message" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.reply(w, http.StatusBadRequest, MessageResult{Error: "invalid message"})
		return
	}
	if msg.Process != h.process {
		h.reply(w, http.StatusNotFound, MessageResult{Error: "unknown process " + msg.Process})
		return
	}

	output, err := h.dispatch(r, msg)
	switch {
	case errors.Is(err, errUnauthorized):
		h.logger.Warn("rejected message", "action", msg.Action, "id", msg.ID)
		h.reply(w, http.StatusUnauthorized, MessageResult{Error: "unauthorized"})
	case err != nil:
		h.logger.Error("message failed", "action", msg.Action, "id", msg.ID, "err", err)
		h.reply(w, http.StatusOK, MessageResult{Error: err.Error()})
	default:
		h.logger.Debug("message handled", "action", msg.Action, "id", msg.ID)
		h.reply(w, http.StatusOK, MessageResult{Output: output})
	}
}

func (h *Handler) dispatch(r *http.Request, msg Message) (string, error) {
	ctx := r.Context()

	switch msg.Action {
	case ActionInitialize:
		wallet, err := h.authorize(r, msg)
		if err != nil {
			return "", err
		}
		if reg, ok := h.svc.(Registrar); ok {
			if err := reg.RegisterWallet(ctx, wallet); err != nil {
				return "", err
			}
		}
		return `{"status":"success"}`, nil

	case ActionSaveScore:
		wallet, err := h.authorize(r, msg)
		if err != nil {
			return "", err
		}
		raw, _ := msg.Tag("Score")
		score, err := strconv.Atoi(raw)
		if err != nil {
			return "", errors.New("invalid score " + strconv.Quote(raw))
		}
		if score <= 0 {
			return "", ErrNothingToSubmit
		}
		if err := h.svc.SubmitScore(ctx, Identity{Address: wallet}, score); err != nil {
			return "", err
		}
		return `{"status":"success"}`, nil

	case ActionGetAllScores:
		entries, err := h.svc.ListScores(ctx)
		if err != nil {
			return "", err
		}
		out := ScoresOutput{Status: "success", Data: make([]ScoreRecord, len(entries))}
		for i, e := range entries {
			out.Data[i] = ScoreRecord{
				Player:    e.Player,
				Score:     e.Score,
				Timestamp: float64(e.Timestamp.UnixMilli()) / 1000,
			}
		}
		data, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(data), nil

	default:
		return "", errors.New("unknown action " + strconv.Quote(msg.Action))
	}
}

// authorize checks that the bearer token is signed by the key behind the
// wallet the message is about.
func (h *Handler) authorize(r *http.Request, msg Message) (string, error) {
	wallet, _ := msg.Tag("Wallet")
	auth := r.Header.Get("Authorization")
	if wallet == "" || !strings.HasPrefix(auth, "Bearer ") {
		return "", errUnauthorized
	}
	if err := VerifyToken(strings.TrimPrefix(auth, "Bearer "), wallet, h.now()); err != nil {
		return "", errUnauthorized
	}
	return wallet, nil
}

func (h *Handler) reply(w http.ResponseWriter, status int, res MessageResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.logger.Error("cannot write reply", "err", err)
	}
}
