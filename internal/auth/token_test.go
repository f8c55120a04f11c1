package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/entrada-app/auth-service/internal/domain"
)

var testSecret = []byte("test-secret-key-at-least-32-chars!")

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: testSecret, Issuer: "auth-service"})

	summary := domain.Summary{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}
	token, err := issuer.Issue(summary)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got != summary {
		t.Errorf("Verify = %+v, want %+v", got, summary)
	}
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: testSecret})
	if issuer.TTL() != 7*24*time.Hour {
		t.Errorf("TTL = %v, want 7 days", issuer.TTL())
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: testSecret, TTL: -time.Minute})

	token, err := issuer.Issue(domain.Summary{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify on expired token = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuer_Tampered(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: testSecret})

	token, err := issuer.Issue(domain.Summary{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := issuer.Verify(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify on tampered token = %v, want ErrInvalidToken", err)
	}

	if _, err := issuer.Verify("not.a.token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify on garbage = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuer_WrongKey(t *testing.T) {
	issuer := NewTokenIssuer(TokenConfig{Secret: testSecret})
	other := NewTokenIssuer(TokenConfig{Secret: []byte("a-different-signing-secret-key!!")})

	token, err := issuer.Issue(domain.Summary{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Verify with wrong key = %v, want ErrInvalidToken", err)
	}
}
