package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/entrada-app/auth-service/internal/auth"
	"github.com/entrada-app/auth-service/internal/http/features/email"
	"github.com/entrada-app/auth-service/internal/http/features/google"
	"github.com/entrada-app/auth-service/internal/http/features/password"
	"github.com/entrada-app/auth-service/internal/http/features/recovery"
	"github.com/entrada-app/auth-service/internal/http/features/token"
	"github.com/entrada-app/auth-service/internal/http/middleware"
	"github.com/entrada-app/auth-service/internal/httputil"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger         *slog.Logger
	AccountService *auth.AccountService
	GoogleService  *auth.GoogleService // optional
	FrontendURL    string
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	passwordHandler := password.NewHandler(cfg.Logger, cfg.AccountService)
	emailHandler := email.NewHandler(cfg.Logger, cfg.AccountService)
	recoveryHandler := recovery.NewHandler(cfg.Logger, cfg.AccountService)
	tokenHandler := token.NewHandler(cfg.Logger, cfg.AccountService)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", passwordHandler.Register)
		r.Post("/login", passwordHandler.Login)

		r.Post("/verify", emailHandler.Verify)
		r.Post("/resend-verification", emailHandler.Resend)

		r.Post("/forgot-password", recoveryHandler.ForgotPassword)
		r.Post("/verify-answer", recoveryHandler.VerifyAnswer)
		r.Post("/send-reset-code", recoveryHandler.SendResetCode)
		r.Post("/reset-with-code", recoveryHandler.ResetWithCode)

		r.Post("/verify-token", tokenHandler.Verify)

		if cfg.GoogleService != nil {
			googleHandler := google.NewHandler(cfg.Logger, cfg.GoogleService, cfg.AccountService, cfg.FrontendURL)
			r.Get("/google", googleHandler.Start)
			r.Get("/google/callback", googleHandler.Callback)
		}
	})

	return r
}
