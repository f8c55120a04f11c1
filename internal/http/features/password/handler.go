package password

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/entrada-app/auth-service/internal/auth"
	"github.com/entrada-app/auth-service/internal/domain"
	"github.com/entrada-app/auth-service/internal/httputil"
)

// Handler handles registration and password login.
type Handler struct {
	logger   *slog.Logger
	accounts *auth.AccountService
}

// NewHandler creates a new password handler.
func NewHandler(logger *slog.Logger, accounts *auth.AccountService) *Handler {
	return &Handler{logger: logger, accounts: accounts}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Password       string `json:"password"`
	SecretQuestion string `json:"secret_question"`
	SecretAnswer   string `json:"secret_answer"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    domain.Summary `json:"user"`
}

// Register handles user registration.
// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Register(r.Context(), auth.RegisterParams{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		SecretQuestion: req.SecretQuestion,
		SecretAnswer:   req.SecretAnswer,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			httputil.Error(w, http.StatusBadRequest, "please fill in all fields")
		case errors.Is(err, domain.ErrDuplicateEmail):
			httputil.Error(w, http.StatusBadRequest, "email is already registered")
		case errors.Is(err, domain.ErrDelivery):
			// The account is already persisted; the caller can use
			// resend-verification once delivery recovers.
			h.logger.Error("verification code delivery failed", "error", err, "account_id", account.ID)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		default:
			h.logger.Error("registration failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	h.logger.Info("account registered", "account_id", account.ID)
	httputil.Message(w, http.StatusCreated, "account registered. We sent a verification code to your email")
}

// Login handles password login.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			httputil.Error(w, http.StatusBadRequest, "please enter email and password")
		case errors.Is(err, domain.ErrInvalidCredentials):
			// Identical message whether the account is missing or the
			// password is wrong.
			httputil.Error(w, http.StatusBadRequest, "invalid credentials")
		case errors.Is(err, domain.ErrNotVerified):
			httputil.Error(w, http.StatusUnauthorized, "your account has not been verified. Please check your email")
		default:
			h.logger.Error("login failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	httputil.JSON(w, http.StatusOK, LoginResponse{
		Message: "login successful",
		Token:   token,
		User:    user,
	})
}
