package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/entrada-app/auth-service/internal/domain"
)

func newAccount(t *testing.T, email string) *domain.Account {
	t.Helper()
	a, err := domain.NewAccount("Ana", email, "555-0100", "hash", "q", "ah")
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestMemoryStore_InsertAndFind(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := newAccount(t, "ana@example.com")
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	byEmail, err := store.FindByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if byEmail.ID != a.ID {
		t.Error("FindByEmail returned the wrong account")
	}

	byID, err := store.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID.Email != "ana@example.com" {
		t.Error("FindByID returned the wrong account")
	}

	if _, err := store.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("FindByEmail unknown = %v, want ErrAccountNotFound", err)
	}
	if _, err := store.FindByID(ctx, uuid.New()); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("FindByID unknown = %v, want ErrAccountNotFound", err)
	}
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Insert(ctx, newAccount(t, "ana@example.com")); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, newAccount(t, "ana@example.com")); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Errorf("second Insert = %v, want ErrDuplicateEmail", err)
	}
}

func TestMemoryStore_ConcurrentInsert(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const n = 16
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Insert(ctx, newAccount(t, "ana@example.com"))
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d inserts succeeded, want exactly 1", ok)
	}
}

func TestMemoryStore_UpdateUnknown(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Update(context.Background(), newAccount(t, "ana@example.com")); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Update unknown = %v, want ErrAccountNotFound", err)
	}
}

func TestMemoryStore_RejectsInvalidRecord(t *testing.T) {
	store := NewMemoryStore()
	a := newAccount(t, "ana@example.com")
	code := "123456"
	a.VerificationCode = &code // expiry missing: invariant violation

	if err := store.Insert(context.Background(), a); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Insert invalid = %v, want ErrValidation", err)
	}
}

func TestMemoryStore_FindByProviderOrEmail(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	linked, err := domain.NewProviderAccount("goog-1", "Ana", "ana@example.com", "not provided", "ph", "q", "ah")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, linked); err != nil {
		t.Fatal(err)
	}
	plain := newAccount(t, "bea@example.com")
	if err := store.Insert(ctx, plain); err != nil {
		t.Fatal(err)
	}

	// Provider match wins even when the email names another account.
	got, err := store.FindByProviderOrEmail(ctx, "goog-1", "bea@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != linked.ID {
		t.Error("provider-id match should take priority over the email match")
	}

	// Email fallback when the provider id is unknown.
	got, err = store.FindByProviderOrEmail(ctx, "goog-unknown", "bea@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != plain.ID {
		t.Error("email match should be used when no provider id matches")
	}

	if _, err := store.FindByProviderOrEmail(ctx, "goog-unknown", "nobody@example.com"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("no match = %v, want ErrAccountNotFound", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := newAccount(t, "ana@example.com")
	if err := store.Insert(ctx, a); err != nil {
		t.Fatal(err)
	}

	got, _ := store.FindByEmail(ctx, "ana@example.com")
	got.Name = "Mutated"

	again, _ := store.FindByEmail(ctx, "ana@example.com")
	if again.Name != "Ana" {
		t.Error("mutating a returned account must not affect stored state")
	}
}
