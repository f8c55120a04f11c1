package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleConfig holds Google OAuth configuration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// GoogleProfile is the subset of the Google userinfo response the account
// state machine needs.
type GoogleProfile struct {
	Subject string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// GoogleService runs the Google OAuth authorization-code flow.
type GoogleService struct {
	oauth oauth2.Config
}

// NewGoogleService creates a new Google service.
func NewGoogleService(cfg GoogleConfig) *GoogleService {
	return &GoogleService{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the Google authorization URL carrying the given CSRF state.
func (s *GoogleService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// FetchProfile exchanges an authorization code and fetches the user profile.
func (s *GoogleService) FetchProfile(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	resp, err := s.oauth.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo request failed: %s", string(body))
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Subject == "" || profile.Email == "" {
		return nil, fmt.Errorf("incomplete profile from provider")
	}
	return &profile, nil
}
