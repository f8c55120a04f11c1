package email

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/entrada-app/auth-service/internal/auth"
	"github.com/entrada-app/auth-service/internal/domain"
	"github.com/entrada-app/auth-service/internal/httputil"
)

// Handler handles email verification endpoints.
type Handler struct {
	logger   *slog.Logger
	accounts *auth.AccountService
}

// NewHandler creates a new email verification handler.
func NewHandler(logger *slog.Logger, accounts *auth.AccountService) *Handler {
	return &Handler{logger: logger, accounts: accounts}
}

// VerifyRequest represents an account verification request.
type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResendRequest represents a resend-verification request.
type ResendRequest struct {
	Email string `json:"email"`
}

// Verify handles account verification with an emailed code.
// POST /api/auth/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.accounts.Verify(r.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			httputil.Error(w, http.StatusBadRequest, "email and code are required")
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusBadRequest, "account not found")
		case errors.Is(err, domain.ErrInvalidCode):
			httputil.Error(w, http.StatusBadRequest, "incorrect code")
		case errors.Is(err, domain.ErrCodeExpired):
			httputil.Error(w, http.StatusBadRequest, "the code has expired")
		default:
			h.logger.Error("verification failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "account verified successfully")
}

// Resend reissues the verification code for an unverified account.
// POST /api/auth/resend-verification
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	var req ResendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.accounts.ResendVerification(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusNotFound, "account not found")
		case errors.Is(err, domain.ErrAlreadyVerified):
			httputil.Error(w, http.StatusBadRequest, "account is already verified")
		case errors.Is(err, domain.ErrDelivery):
			h.logger.Error("verification code delivery failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		default:
			h.logger.Error("resend verification failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "verification code resent to your email")
}
