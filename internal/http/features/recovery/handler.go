package recovery

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/entrada-app/auth-service/internal/auth"
	"github.com/entrada-app/auth-service/internal/domain"
	"github.com/entrada-app/auth-service/internal/httputil"
)

// Handler handles password recovery: the secret-question path and the
// email-code path.
type Handler struct {
	logger   *slog.Logger
	accounts *auth.AccountService
}

// NewHandler creates a new recovery handler.
func NewHandler(logger *slog.Logger, accounts *auth.AccountService) *Handler {
	return &Handler{logger: logger, accounts: accounts}
}

// EmailRequest carries just an email address.
type EmailRequest struct {
	Email string `json:"email"`
}

// AnswerRequest completes recovery with the secret answer.
type AnswerRequest struct {
	Email        string `json:"email"`
	SecretAnswer string `json:"secret_answer"`
	NewPassword  string `json:"new_password"`
}

// CodeRequest completes recovery with an emailed code.
type CodeRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// QuestionResponse returns the recovery challenge.
type QuestionResponse struct {
	SecretQuestion string `json:"secret_question"`
	Email          string `json:"email"`
}

// ForgotPassword returns the account's secret question. Read-only: no code
// is issued on this path.
// POST /api/auth/forgot-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question, email, err := h.accounts.SecretQuestion(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			httputil.Error(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("secret question lookup failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	httputil.JSON(w, http.StatusOK, QuestionResponse{SecretQuestion: question, Email: email})
}

// VerifyAnswer sets a new password if the secret answer is correct.
// POST /api/auth/verify-answer
func (h *Handler) VerifyAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.accounts.ResetWithAnswer(r.Context(), req.Email, req.SecretAnswer, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			httputil.Error(w, http.StatusBadRequest, "email, answer and new password are required")
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusNotFound, "account not found")
		case errors.Is(err, domain.ErrWrongAnswer):
			httputil.Error(w, http.StatusBadRequest, "incorrect secret answer")
		default:
			h.logger.Error("recovery by answer failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "password updated successfully")
}

// SendResetCode emails a recovery code, overwriting any open code.
// POST /api/auth/send-reset-code
func (h *Handler) SendResetCode(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.accounts.SendResetCode(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusNotFound, "account not found")
		case errors.Is(err, domain.ErrDelivery):
			h.logger.Error("reset code delivery failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		default:
			h.logger.Error("send reset code failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "recovery code sent to your email")
}

// ResetWithCode sets a new password if the emailed code is valid.
// POST /api/auth/reset-with-code
func (h *Handler) ResetWithCode(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.accounts.ResetWithCode(r.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			httputil.Error(w, http.StatusBadRequest, "email, code and new password are required")
		case errors.Is(err, domain.ErrAccountNotFound):
			httputil.Error(w, http.StatusNotFound, "account not found")
		case errors.Is(err, domain.ErrInvalidCode):
			httputil.Error(w, http.StatusBadRequest, "incorrect code")
		case errors.Is(err, domain.ErrCodeExpired):
			httputil.Error(w, http.StatusBadRequest, "the code has expired")
		default:
			h.logger.Error("recovery by code failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	httputil.Message(w, http.StatusOK, "password updated successfully")
}
