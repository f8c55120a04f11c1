package google

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/entrada-app/auth-service/internal/auth"
)

const stateTTL = 10 * time.Minute

// Handler handles the Google OAuth endpoints. On success it redirects to the
// frontend with the login token as a query parameter; on any failure it
// redirects to the frontend login page with an error marker.
type Handler struct {
	logger      *slog.Logger
	google      *auth.GoogleService
	accounts    *auth.AccountService
	frontendURL string
	states      *stateStore
}

// NewHandler creates a new Google handler.
func NewHandler(logger *slog.Logger, google *auth.GoogleService, accounts *auth.AccountService, frontendURL string) *Handler {
	return &Handler{
		logger:      logger,
		google:      google,
		accounts:    accounts,
		frontendURL: frontendURL,
		states:      newStateStore(),
	}
}

// stateStore holds OAuth state for CSRF protection, single replica only.
type stateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func newStateStore() *stateStore {
	return &stateStore{states: make(map[string]time.Time)}
}

func (s *stateStore) Add(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(stateTTL)
}

// Consume removes the state and reports whether it was present and fresh.
func (s *stateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	delete(s.states, state)
	return ok && time.Now().Before(exp)
}

// Start begins the Google OAuth flow.
// GET /api/auth/google
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		h.logger.Error("failed to generate oauth state", "error", err)
		h.redirectFailure(w, r)
		return
	}
	state := base64.URLEncoding.EncodeToString(b)
	h.states.Add(state)

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback completes the Google OAuth flow.
// GET /api/auth/google/callback
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.states.Consume(r.URL.Query().Get("state")) {
		h.logger.Warn("oauth callback with unknown or expired state")
		h.redirectFailure(w, r)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectFailure(w, r)
		return
	}

	profile, err := h.google.FetchProfile(r.Context(), code)
	if err != nil {
		h.logger.Error("google profile fetch failed", "error", err)
		h.redirectFailure(w, r)
		return
	}

	token, user, err := h.accounts.AuthenticateWithProvider(r.Context(), profile.Subject, profile.Email, profile.Name)
	if err != nil {
		h.logger.Error("provider authentication failed", "error", err)
		h.redirectFailure(w, r)
		return
	}

	h.logger.Info("provider login", "account_id", user.ID)
	http.Redirect(w, r, h.frontendURL+"/dashboard?token="+url.QueryEscape(token), http.StatusFound)
}

func (h *Handler) redirectFailure(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.frontendURL+"/login?error=oauth_failed", http.StatusFound)
}
