package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account is the durable identity record. One row per registered identity,
// created either by self-service registration or by first federated login.
type Account struct {
	ID                 uuid.UUID
	Name               string
	Email              string
	Phone              string
	PasswordHash       string
	ProviderID         *string
	Verified           bool
	VerificationCode   *string
	VerificationExpiry *time.Time
	SecretQuestion     string
	SecretAnswerHash   string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Summary is the public view of an account, safe to return to clients and to
// embed in token claims. Hashes never leave the domain layer.
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// NormalizeEmail lowercases and trims an email address. All lookups and
// writes go through this so the unique index sees one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewAccount creates an unverified self-registered account. All credential
// material must already be hashed.
func NewAccount(name, email, phone, passwordHash, secretQuestion, secretAnswerHash string) (*Account, error) {
	now := time.Now()
	a := &Account{
		ID:               uuid.New(),
		Name:             name,
		Email:            NormalizeEmail(email),
		Phone:            phone,
		PasswordHash:     passwordHash,
		Verified:         false,
		SecretQuestion:   secretQuestion,
		SecretAnswerHash: secretAnswerHash,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// NewProviderAccount creates a verified account from a federated identity.
// The password hash is a never-used placeholder and the secret question and
// answer are sentinels, since the federated flow carries no recovery challenge.
func NewProviderAccount(providerID, name, email, phone, placeholderHash, secretQuestion, secretAnswerHash string) (*Account, error) {
	now := time.Now()
	pid := providerID
	a := &Account{
		ID:               uuid.New(),
		Name:             name,
		Email:            NormalizeEmail(email),
		Phone:            phone,
		PasswordHash:     placeholderHash,
		ProviderID:       &pid,
		Verified:         true,
		SecretQuestion:   secretQuestion,
		SecretAnswerHash: secretAnswerHash,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the record-level invariants. The store calls this before
// every write so a malformed account can never be persisted.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if a.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if a.Email != NormalizeEmail(a.Email) {
		return fmt.Errorf("%w: email is not normalized", ErrValidation)
	}
	if a.Phone == "" && a.ProviderID == nil {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if a.PasswordHash == "" && a.ProviderID == nil {
		return fmt.Errorf("%w: password hash is required without a provider id", ErrValidation)
	}
	if a.SecretQuestion == "" || a.SecretAnswerHash == "" {
		return fmt.Errorf("%w: secret question and answer are required", ErrValidation)
	}
	if (a.VerificationCode == nil) != (a.VerificationExpiry == nil) {
		return fmt.Errorf("%w: verification code and expiry must be set together", ErrValidation)
	}
	return nil
}

// SetVerificationCode opens a verification/recovery window. Any previously
// issued code is overwritten: there is exactly one code/expiry slot per
// account, shared by email verification and email-based recovery.
func (a *Account) SetVerificationCode(code string, expiry time.Time) {
	a.VerificationCode = &code
	a.VerificationExpiry = &expiry
}

// ClearVerificationCode closes the window, clearing code and expiry together.
func (a *Account) ClearVerificationCode() {
	a.VerificationCode = nil
	a.VerificationExpiry = nil
}

// CodeMatches reports whether the given code equals the open code. A closed
// window never matches.
func (a *Account) CodeMatches(code string) bool {
	return a.VerificationCode != nil && *a.VerificationCode == code
}

// CodeExpired reports whether the open window has lapsed at the given instant.
func (a *Account) CodeExpired(now time.Time) bool {
	return a.VerificationExpiry != nil && !now.Before(*a.VerificationExpiry)
}

// Summary returns the public account summary.
func (a *Account) Summary() Summary {
	return Summary{ID: a.ID, Name: a.Name, Email: a.Email}
}
