package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/entrada-app/auth-service/internal/domain"
)

const accountColumns = `
	id, name, email, phone, password_hash, provider_id, verified,
	verification_code, verification_expiry, secret_question, secret_answer_hash,
	created_at, updated_at
`

// AccountsRepository persists account records in Postgres.
type AccountsRepository struct {
	db *sql.DB
}

// NewAccountsRepository creates a new accounts repository.
func NewAccountsRepository(db *sql.DB) *AccountsRepository {
	return &AccountsRepository{db: db}
}

// Insert creates a new account. Email uniqueness is enforced by the unique
// index: of two concurrent inserts with the same email, exactly one succeeds
// and the other gets domain.ErrDuplicateEmail.
func (r *AccountsRepository) Insert(ctx context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.Phone, a.PasswordHash, a.ProviderID, a.Verified,
		a.VerificationCode, a.VerificationExpiry, a.SecretQuestion, a.SecretAnswerHash,
		a.CreatedAt, a.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return domain.ErrDuplicateEmail
	}
	return err
}

// Update rewrites all mutable fields of an account and bumps updated_at.
// Concurrent updates of the same row resolve last-write-wins.
func (r *AccountsRepository) Update(ctx context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE accounts
		SET name = $2, email = $3, phone = $4, password_hash = $5, provider_id = $6,
		    verified = $7, verification_code = $8, verification_expiry = $9,
		    secret_question = $10, secret_answer_hash = $11, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.Phone, a.PasswordHash, a.ProviderID,
		a.Verified, a.VerificationCode, a.VerificationExpiry,
		a.SecretQuestion, a.SecretAnswerHash,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// FindByEmail retrieves an account by normalized email.
func (r *AccountsRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// FindByID retrieves an account by id.
func (r *AccountsRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByProviderOrEmail retrieves an account matching either the provider id
// or the email, preferring the provider match when both exist.
func (r *AccountsRepository) FindByProviderOrEmail(ctx context.Context, providerID, email string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE provider_id = $1 OR email = $2
		ORDER BY (provider_id = $1) DESC NULLS LAST
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, providerID, email))
}

func (r *AccountsRepository) scanOne(row *sql.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.ProviderID, &a.Verified,
		&a.VerificationCode, &a.VerificationExpiry, &a.SecretQuestion, &a.SecretAnswerHash,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
