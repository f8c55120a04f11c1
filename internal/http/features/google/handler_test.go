package google

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/entrada-app/auth-service/internal/auth"
	"github.com/entrada-app/auth-service/internal/repository"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	accounts := auth.NewAccountService(
		repository.NewMemoryStore(),
		auth.NewHasher(bcrypt.MinCost),
		auth.NewCodeGenerator(10*time.Minute),
		auth.NewTokenIssuer(auth.TokenConfig{Secret: []byte("test-secret-key-at-least-32-chars!"), Issuer: "test"}),
		nil,
	)
	googleService := auth.NewGoogleService(auth.GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:8080/api/auth/google/callback",
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, googleService, accounts, "http://localhost:3000")
}

func TestStart(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google", nil)
	rec := httptest.NewRecorder()
	h.Start(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(loc.Host, "google") {
		t.Errorf("redirect host = %q, want Google's consent screen", loc.Host)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("redirect carries no state parameter")
	}
	if !h.states.Consume(state) {
		t.Error("issued state was not recorded")
	}
}

func TestCallback_RejectsUnknownState(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=forged&code=abc", nil)
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=oauth_failed") {
		t.Errorf("redirect = %q, want failure marker", loc)
	}
}

func TestCallback_RejectsMissingCode(t *testing.T) {
	h := newTestHandler(t)
	h.states.Add("known")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=known", nil)
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=oauth_failed") {
		t.Errorf("redirect = %q, want failure marker", loc)
	}
}

func TestStateStore(t *testing.T) {
	s := newStateStore()

	s.Add("a")
	if !s.Consume("a") {
		t.Error("fresh state should be accepted")
	}
	if s.Consume("a") {
		t.Error("state must be single use")
	}
	if s.Consume("never-added") {
		t.Error("unknown state should be rejected")
	}

	// Expired entries are rejected and swept on the next Add.
	s.Add("old")
	s.states["old"] = time.Now().Add(-time.Minute)
	if s.Consume("old") {
		t.Error("expired state should be rejected")
	}
}
