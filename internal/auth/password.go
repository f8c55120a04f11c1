package auth

import "golang.org/x/crypto/bcrypt"

// Hasher hashes credentials with bcrypt. Passwords and secret-question
// answers go through the same path: both are credentials and are never
// stored in clear text.
type Hasher struct {
	cost int
}

// NewHasher creates a hasher with the given bcrypt cost. A cost of 0 uses
// bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the salted bcrypt hash of a secret.
func (h *Hasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether the secret matches the stored hash.
func (h *Hasher) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
