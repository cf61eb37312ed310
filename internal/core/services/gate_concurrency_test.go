package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	"github.com/mvtechguy/islandvault/internal/core/services"
)

// fakeLedgerBackend stands in for the database during the concurrency test.
// A single mutex plays the role of the account row lock: the balance check and
// the debit happen atomically inside CreateSubjectWithDebit, the same contract
// the real repository provides.
type fakeLedgerBackend struct {
	mu      sync.Mutex
	balance int64
	debits  int
	owner   domain.User
}

var (
	_ portsrepo.LedgerRepositoryFacade  = (*fakeLedgerBackend)(nil)
	_ portsrepo.SubjectRepositoryFacade = (*fakeLedgerBackend)(nil)
	_ portsrepo.UserRepositoryFacade    = (*fakeLedgerBackend)(nil)
)

func (f *fakeLedgerBackend) BalanceOf(ctx context.Context, accountID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balance, nil
}

func (f *fakeLedgerBackend) CreateSubjectWithDebit(ctx context.Context, subject domain.ModeratedSubject, debit *domain.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if debit == nil {
		return nil
	}
	if f.balance+debit.Delta < 0 {
		return apperrors.ErrInsufficientBalance
	}
	f.balance += debit.Delta
	f.debits++
	return nil
}

func (f *fakeLedgerBackend) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	owner := f.owner
	return &owner, nil
}

func (f *fakeLedgerBackend) SumDeltas(ctx context.Context, accountID string) (int64, error) {
	return 0, errors.New("not used")
}

func (f *fakeLedgerBackend) ListEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	return nil, nil, errors.New("not used")
}

func (f *fakeLedgerBackend) ListAccounts(ctx context.Context) ([]domain.CoinAccount, error) {
	return nil, errors.New("not used")
}

func (f *fakeLedgerBackend) CountDuplicateRefunds(ctx context.Context) (int, error) {
	return 0, errors.New("not used")
}

func (f *fakeLedgerBackend) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	return nil, errors.New("not used")
}

func (f *fakeLedgerBackend) FindSubject(ctx context.Context, kind domain.SubjectKind, subjectID string) (domain.ModeratedSubject, error) {
	return nil, errors.New("not used")
}

func (f *fakeLedgerBackend) ListPending(ctx context.Context, kind domain.SubjectKind, limit int, nextToken *string) ([]domain.ModeratedSubject, *string, error) {
	return nil, nil, errors.New("not used")
}

func (f *fakeLedgerBackend) DecideSubject(ctx context.Context, kind domain.SubjectKind, subjectID string, decision portsrepo.SubjectDecision) error {
	return errors.New("not used")
}

func (f *fakeLedgerBackend) CancelConnection(ctx context.Context, requestID, requesterID string, decision portsrepo.SubjectDecision) error {
	return errors.New("not used")
}

func (f *fakeLedgerBackend) SaveProfile(ctx context.Context, user domain.User) error {
	return errors.New("not used")
}

// TestGateService_ConcurrentAttemptsNeverOverspend fires many paid attempts
// against one account at once. Exactly balance/cost of them may succeed and
// the balance must never go negative, no matter how the goroutines interleave.
func TestGateService_ConcurrentAttemptsNeverOverspend(t *testing.T) {
	const (
		startBalance = 10
		cost         = 2
		attempts     = 50
	)

	ownerID := uuid.NewString()
	backend := &fakeLedgerBackend{
		balance: startBalance,
		owner: domain.User{
			UserID: ownerID,
			Moderation: domain.Moderation{
				Status: domain.StatusApproved,
			},
		},
	}
	gate := services.NewGateService(backend, backend, backend)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			post := domain.Post{
				PostID:  uuid.NewString(),
				OwnerID: ownerID,
				Title:   "Concurrent post",
				Moderation: domain.Moderation{
					Status:   domain.StatusPending,
					CoinCost: cost,
				},
			}
			results <- gate.Attempt(context.Background(), post, cost)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
		}
	}

	assert.Equal(t, startBalance/cost, succeeded)
	assert.Equal(t, startBalance/cost, backend.debits)
	assert.GreaterOrEqual(t, backend.balance, int64(0))
	assert.Equal(t, int64(startBalance-succeeded*cost), backend.balance)
}
