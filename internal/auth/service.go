package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/entrada-app/auth-service/internal/domain"
)

// AccountStore is the durable store of account records, addressed by email
// and by internal id. Implementations must enforce email uniqueness
// atomically at Insert time and provide read-your-writes per account.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	// FindByProviderOrEmail resolves a federated identity with a single
	// disjunctive lookup. A provider-id match takes priority over an
	// email match.
	FindByProviderOrEmail(ctx context.Context, providerID, email string) (*domain.Account, error)
	Insert(ctx context.Context, a *domain.Account) error
	Update(ctx context.Context, a *domain.Account) error
}

// Notifier delivers a verification code to an email address.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// Sentinel values for accounts created from a federated identity, which
// carries no user-supplied phone or recovery challenge.
const (
	providerPhone          = "not provided"
	providerSecretQuestion = "external provider sign-up"
	providerSecretAnswer   = "oauth-provider-default"
)

// AccountService orchestrates registration, verification, login, recovery
// and provider-linked login against the account store. Each operation is
// atomic with respect to the single account record it touches; concurrent
// mutations of the same account resolve last-write-wins at the store.
type AccountService struct {
	store    AccountStore
	hasher   *Hasher
	codes    *CodeGenerator
	tokens   *TokenIssuer
	notifier Notifier
}

// NewAccountService creates the account service.
func NewAccountService(store AccountStore, hasher *Hasher, codes *CodeGenerator, tokens *TokenIssuer, notifier Notifier) *AccountService {
	return &AccountService{
		store:    store,
		hasher:   hasher,
		codes:    codes,
		tokens:   tokens,
		notifier: notifier,
	}
}

// RegisterParams holds the registration input.
type RegisterParams struct {
	Name           string
	Email          string
	Phone          string
	Password       string
	SecretQuestion string
	SecretAnswer   string
}

// Register creates an unverified account and emails it a verification code.
// The account persists even if delivery fails; in that case the error is
// domain.ErrDelivery and the caller may resend later.
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (*domain.Account, error) {
	if p.Name == "" || p.Email == "" || p.Phone == "" || p.Password == "" ||
		p.SecretQuestion == "" || p.SecretAnswer == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}

	passwordHash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, err
	}
	answerHash, err := s.hasher.Hash(p.SecretAnswer)
	if err != nil {
		return nil, err
	}

	account, err := domain.NewAccount(p.Name, p.Email, p.Phone, passwordHash, p.SecretQuestion, answerHash)
	if err != nil {
		return nil, err
	}

	code, expiry, err := s.codes.Generate()
	if err != nil {
		return nil, err
	}
	account.SetVerificationCode(code, expiry)

	if err := s.store.Insert(ctx, account); err != nil {
		return nil, err
	}

	if err := s.notifier.SendVerificationCode(ctx, account.Email, code); err != nil {
		return account, fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}
	return account, nil
}

// Verify marks an account verified if the submitted code matches the open
// window and has not expired. On success the code/expiry slot is cleared,
// so a replayed code fails with ErrInvalidCode.
func (s *AccountService) Verify(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", domain.ErrValidation)
	}

	account, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if !account.CodeMatches(code) {
		return domain.ErrInvalidCode
	}
	if account.CodeExpired(time.Now()) {
		return domain.ErrCodeExpired
	}

	account.Verified = true
	account.ClearVerificationCode()
	return s.store.Update(ctx, account)
}

// Login authenticates an email/password pair and issues a login token.
// A missing account and a wrong password return the identical
// ErrInvalidCredentials so responses never leak account existence.
// Verification status is not considered sensitive and is reported
// separately as ErrNotVerified.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, domain.Summary, error) {
	if email == "" || password == "" {
		return "", domain.Summary{}, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	account, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.Summary{}, domain.ErrInvalidCredentials
		}
		return "", domain.Summary{}, err
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return "", domain.Summary{}, domain.ErrInvalidCredentials
	}
	if !account.Verified {
		return "", domain.Summary{}, domain.ErrNotVerified
	}

	token, err := s.tokens.Issue(account.Summary())
	if err != nil {
		return "", domain.Summary{}, err
	}
	return token, account.Summary(), nil
}

// SecretQuestion returns the stored recovery question for an account. This
// is a read-only challenge fetch: no code is issued on this path.
func (s *AccountService) SecretQuestion(ctx context.Context, email string) (string, string, error) {
	account, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return "", "", err
	}
	return account.SecretQuestion, account.Email, nil
}

// ResetWithAnswer sets a new password if the secret answer matches. It does
// not require the account to be verified, and it closes any open
// verification/recovery window.
func (s *AccountService) ResetWithAnswer(ctx context.Context, email, answer, newPassword string) error {
	if email == "" || answer == "" || newPassword == "" {
		return fmt.Errorf("%w: email, answer and new password are required", domain.ErrValidation)
	}

	account, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if !s.hasher.Verify(answer, account.SecretAnswerHash) {
		return domain.ErrWrongAnswer
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	account.ClearVerificationCode()
	return s.store.Update(ctx, account)
}

// SendResetCode opens a recovery window and emails the code. Reissuing
// overwrites the single code/expiry slot, implicitly invalidating any
// previously issued code.
func (s *AccountService) SendResetCode(ctx context.Context, email string) error {
	account, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}

	code, expiry, err := s.codes.Generate()
	if err != nil {
		return err
	}
	account.SetVerificationCode(code, expiry)
	if err := s.store.Update(ctx, account); err != nil {
		return err
	}

	if err := s.notifier.SendVerificationCode(ctx, account.Email, code); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}
	return nil
}

// ResetWithCode sets a new password if the submitted code matches the open
// window and has not expired, then closes the window.
func (s *AccountService) ResetWithCode(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return fmt.Errorf("%w: email, code and new password are required", domain.ErrValidation)
	}

	account, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if !account.CodeMatches(code) {
		return domain.ErrInvalidCode
	}
	if account.CodeExpired(time.Now()) {
		return domain.ErrCodeExpired
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	account.ClearVerificationCode()
	return s.store.Update(ctx, account)
}

// ResendVerification reissues the verification code for an unverified
// account, with the same overwrite semantics as SendResetCode.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	account, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if account.Verified {
		return domain.ErrAlreadyVerified
	}

	code, expiry, err := s.codes.Generate()
	if err != nil {
		return err
	}
	account.SetVerificationCode(code, expiry)
	if err := s.store.Update(ctx, account); err != nil {
		return err
	}

	if err := s.notifier.SendVerificationCode(ctx, account.Email, code); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}
	return nil
}

// AuthenticateWithProvider resolves a federated identity to an account and
// issues a login token. An email match without a provider id gets the
// provider id back-filled, linking the self-registered account on first
// federated login; the account is force-verified in all cases because the
// provider attests to the email.
//
// Linking by email alone auto-verifies a pre-existing unverified account
// without re-proving its original password. Deliberately kept; the risk is
// recorded in DESIGN.md.
func (s *AccountService) AuthenticateWithProvider(ctx context.Context, providerID, email, displayName string) (string, domain.Summary, error) {
	if providerID == "" || email == "" {
		return "", domain.Summary{}, fmt.Errorf("%w: provider id and email are required", domain.ErrValidation)
	}
	email = domain.NormalizeEmail(email)

	account, err := s.store.FindByProviderOrEmail(ctx, providerID, email)
	switch {
	case err == nil:
		if account.ProviderID == nil {
			pid := providerID
			account.ProviderID = &pid
		}
		account.Verified = true
		if err := s.store.Update(ctx, account); err != nil {
			return "", domain.Summary{}, err
		}
	case errors.Is(err, domain.ErrAccountNotFound):
		account, err = s.createProviderAccount(ctx, providerID, email, displayName)
		if err != nil {
			return "", domain.Summary{}, err
		}
	default:
		return "", domain.Summary{}, err
	}

	token, err := s.tokens.Issue(account.Summary())
	if err != nil {
		return "", domain.Summary{}, err
	}
	return token, account.Summary(), nil
}

func (s *AccountService) createProviderAccount(ctx context.Context, providerID, email, displayName string) (*domain.Account, error) {
	// Random, never-used placeholder so the record still carries a
	// password hash. Nobody knows this value, so password login stays
	// impossible until a recovery flow sets a real one.
	placeholder, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	answerHash, err := s.hasher.Hash(providerSecretAnswer)
	if err != nil {
		return nil, err
	}
	if displayName == "" {
		displayName = email
	}

	account, err := domain.NewProviderAccount(providerID, displayName, email, providerPhone, placeholder, providerSecretQuestion, answerHash)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// VerifyToken validates a login token and returns the current public
// summary of the account it names. A valid token whose account has since
// disappeared is treated as invalid.
func (s *AccountService) VerifyToken(ctx context.Context, token string) (domain.Summary, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Summary{}, err
	}
	account, err := s.store.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Summary{}, domain.ErrInvalidToken
		}
		return domain.Summary{}, err
	}
	return account.Summary(), nil
}
