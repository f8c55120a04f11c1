package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/entrada-app/auth-service/internal/domain"
)

// DefaultTokenTTL is the validity window of issued login tokens.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenConfig holds token issuer configuration. The signing secret is
// process-wide state, passed in explicitly at construction.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// TokenClaims are the claims carried by a login token.
type TokenClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TokenIssuer signs and verifies time-bounded identity assertions.
type TokenIssuer struct {
	config TokenConfig
}

// NewTokenIssuer creates a token issuer. A zero TTL uses DefaultTokenTTL.
func NewTokenIssuer(config TokenConfig) *TokenIssuer {
	if config.TTL == 0 {
		config.TTL = DefaultTokenTTL
	}
	return &TokenIssuer{config: config}
}

// TTL returns the configured validity window.
func (t *TokenIssuer) TTL() time.Duration {
	return t.config.TTL
}

// Issue signs a token for the given account summary.
func (t *TokenIssuer) Issue(s domain.Summary) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ID.String(),
			Issuer:    t.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.TTL)),
		},
		Name:  s.Name,
		Email: s.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.config.Secret)
}

// Verify parses and validates a token, returning the embedded summary.
// Expired, tampered, or malformed tokens yield domain.ErrInvalidToken,
// never a partial result.
func (t *TokenIssuer) Verify(tokenString string) (domain.Summary, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return t.config.Secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Summary{}, domain.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Summary{}, domain.ErrInvalidToken
	}
	return domain.Summary{ID: id, Name: claims.Name, Email: claims.Email}, nil
}
