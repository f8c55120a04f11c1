package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/entrada-app/auth-service/internal/auth"
	"github.com/entrada-app/auth-service/internal/config"
	httpserver "github.com/entrada-app/auth-service/internal/http"
	"github.com/entrada-app/auth-service/internal/notification"
	"github.com/entrada-app/auth-service/internal/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	accountsRepo := repository.NewAccountsRepository(db)

	var notifier auth.Notifier
	if cfg.HasSMTP() {
		notifier = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
		logger.Info("email delivery enabled")
	} else {
		notifier = notification.NewLogService(logger)
		logger.Warn("SMTP not configured, verification codes will be logged")
	}

	accountService := auth.NewAccountService(
		accountsRepo,
		auth.NewHasher(cfg.BcryptCost),
		auth.NewCodeGenerator(cfg.CodeTTL),
		auth.NewTokenIssuer(auth.TokenConfig{
			Secret: []byte(cfg.JWTSecret),
			Issuer: cfg.JWTIssuer,
			TTL:    cfg.TokenTTL,
		}),
		notifier,
	)

	var googleService *auth.GoogleService
	if cfg.HasGoogleOAuth() {
		googleService = auth.NewGoogleService(auth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURI:  cfg.GoogleRedirectURI,
		})
		logger.Info("Google OAuth enabled")
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:         logger,
		AccountService: accountService,
		GoogleService:  googleService,
		FrontendURL:    cfg.FrontendURL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
