package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/entrada-app/auth-service/internal/domain"
)

// MemoryStore is a mutex-guarded in-memory account store with the same
// contract as AccountsRepository, including atomic email uniqueness at
// Insert. It backs the service and handler tests.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
	byEmail  map[string]uuid.UUID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[uuid.UUID]*domain.Account),
		byEmail:  make(map[string]uuid.UUID),
	}
}

// Insert creates a new account, enforcing email uniqueness under the lock.
func (s *MemoryStore) Insert(_ context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[a.Email]; exists {
		return domain.ErrDuplicateEmail
	}
	stored := clone(a)
	s.accounts[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	return nil
}

// Update rewrites an existing account, last write wins.
func (s *MemoryStore) Update(_ context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.accounts[a.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if prev.Email != a.Email {
		if _, exists := s.byEmail[a.Email]; exists {
			return domain.ErrDuplicateEmail
		}
		delete(s.byEmail, prev.Email)
		s.byEmail[a.Email] = a.ID
	}
	stored := clone(a)
	stored.UpdatedAt = time.Now()
	s.accounts[a.ID] = stored
	return nil
}

// FindByEmail retrieves an account by normalized email.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return clone(s.accounts[id]), nil
}

// FindByID retrieves an account by id.
func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return clone(a), nil
}

// FindByProviderOrEmail retrieves an account by provider id or email, with
// the provider match taking priority.
func (s *MemoryStore) FindByProviderOrEmail(_ context.Context, providerID, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.ProviderID != nil && *a.ProviderID == providerID {
			return clone(a), nil
		}
	}
	if id, ok := s.byEmail[email]; ok {
		return clone(s.accounts[id]), nil
	}
	return nil, domain.ErrAccountNotFound
}

// clone deep-copies an account so callers never share pointers with the
// store's internal state.
func clone(a *domain.Account) *domain.Account {
	c := *a
	if a.ProviderID != nil {
		v := *a.ProviderID
		c.ProviderID = &v
	}
	if a.VerificationCode != nil {
		v := *a.VerificationCode
		c.VerificationCode = &v
	}
	if a.VerificationExpiry != nil {
		v := *a.VerificationExpiry
		c.VerificationExpiry = &v
	}
	return &c
}
