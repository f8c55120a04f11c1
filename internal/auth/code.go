package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// DefaultCodeTTL is how long an issued verification code stays valid.
const DefaultCodeTTL = 10 * time.Minute

// CodeGenerator produces short-lived numeric verification codes.
type CodeGenerator struct {
	ttl time.Duration
	now func() time.Time
}

// NewCodeGenerator creates a generator with the given TTL. A zero TTL uses
// DefaultCodeTTL.
func NewCodeGenerator(ttl time.Duration) *CodeGenerator {
	if ttl == 0 {
		ttl = DefaultCodeTTL
	}
	return &CodeGenerator{ttl: ttl, now: time.Now}
}

// Generate returns a uniformly random 6-digit code in [100000, 999999] and
// its expiry. The range excludes leading zeros so the code survives any
// string/number round trip on the client side.
func (g *CodeGenerator) Generate() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", time.Time{}, err
	}
	code := strconv.FormatInt(100000+n.Int64(), 10)
	return code, g.now().Add(g.ttl), nil
}
