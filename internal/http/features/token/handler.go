package token

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/entrada-app/auth-service/internal/auth"
	"github.com/entrada-app/auth-service/internal/domain"
	"github.com/entrada-app/auth-service/internal/httputil"
)

// Handler handles login-token verification.
type Handler struct {
	logger   *slog.Logger
	accounts *auth.AccountService
}

// NewHandler creates a new token handler.
func NewHandler(logger *slog.Logger, accounts *auth.AccountService) *Handler {
	return &Handler{logger: logger, accounts: accounts}
}

// UserResponse wraps the public account summary.
type UserResponse struct {
	User domain.Summary `json:"user"`
}

// Verify validates the bearer token and returns the account it names.
// POST /api/auth/verify-token
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	tokenString := bearerToken(r)
	if tokenString == "" {
		httputil.Error(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	user, err := h.accounts.VerifyToken(r.Context(), tokenString)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidToken) {
			h.logger.Error("token verification failed", "error", err)
		}
		httputil.Error(w, http.StatusUnauthorized, "invalid token")
		return
	}

	httputil.JSON(w, http.StatusOK, UserResponse{User: user})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
