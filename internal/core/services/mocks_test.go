package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) BalanceOf(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) SumDeltas(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) ListAccounts(ctx context.Context) ([]domain.CoinAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoinAccount), args.Error(1)
}

func (m *MockLedgerRepository) CountDuplicateRefunds(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

// --- Mock SubjectRepository ---
type MockSubjectRepository struct {
	mock.Mock
}

var _ portsrepo.SubjectRepositoryFacade = (*MockSubjectRepository)(nil)

func (m *MockSubjectRepository) FindSubject(ctx context.Context, kind domain.SubjectKind, subjectID string) (domain.ModeratedSubject, error) {
	args := m.Called(ctx, kind, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.ModeratedSubject), args.Error(1)
}

func (m *MockSubjectRepository) ListPending(ctx context.Context, kind domain.SubjectKind, limit int, nextToken *string) ([]domain.ModeratedSubject, *string, error) {
	args := m.Called(ctx, kind, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.ModeratedSubject), returnedNextToken, args.Error(2)
}

func (m *MockSubjectRepository) CreateSubjectWithDebit(ctx context.Context, subject domain.ModeratedSubject, debit *domain.LedgerEntry) error {
	args := m.Called(ctx, subject, debit)
	return args.Error(0)
}

func (m *MockSubjectRepository) DecideSubject(ctx context.Context, kind domain.SubjectKind, subjectID string, decision portsrepo.SubjectDecision) error {
	args := m.Called(ctx, kind, subjectID, decision)
	return args.Error(0)
}

func (m *MockSubjectRepository) CancelConnection(ctx context.Context, requestID, requesterID string, decision portsrepo.SubjectDecision) error {
	args := m.Called(ctx, requestID, requesterID, decision)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveProfile(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock PostRepository ---
type MockPostRepository struct {
	mock.Mock
}

var _ portsrepo.PostRepositoryFacade = (*MockPostRepository)(nil)

func (m *MockPostRepository) FindPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockPostRepository) ListPostsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Post, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Post), nil, args.Error(2)
}

func (m *MockPostRepository) ListApprovedPosts(ctx context.Context, limit int, nextToken *string) ([]domain.Post, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Post), nil, args.Error(2)
}

// --- Mock ConnectionRepository ---
type MockConnectionRepository struct {
	mock.Mock
}

var _ portsrepo.ConnectionRepositoryFacade = (*MockConnectionRepository)(nil)

func (m *MockConnectionRepository) FindConnectionByID(ctx context.Context, requestID string) (*domain.ConnectionRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConnectionRequest), args.Error(1)
}

func (m *MockConnectionRepository) ListConnectionsByRequester(ctx context.Context, requesterID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error) {
	args := m.Called(ctx, requesterID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.ConnectionRequest), nil, args.Error(2)
}

func (m *MockConnectionRepository) ListApprovedConnectionsByTarget(ctx context.Context, targetID string, limit int, nextToken *string) ([]domain.ConnectionRequest, *string, error) {
	args := m.Called(ctx, targetID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.ConnectionRequest), nil, args.Error(2)
}

// --- Mock TopupRepository ---
type MockTopupRepository struct {
	mock.Mock
}

var _ portsrepo.TopupRepositoryFacade = (*MockTopupRepository)(nil)

func (m *MockTopupRepository) FindTopupByID(ctx context.Context, topupID string) (*domain.TopupRequest, error) {
	args := m.Called(ctx, topupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopupRequest), args.Error(1)
}

func (m *MockTopupRepository) ListTopupsByOwner(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.TopupRequest, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.TopupRequest), nil, args.Error(2)
}

// --- Mock NotificationService ---
type MockNotificationService struct {
	mock.Mock
}

var _ portssvc.NotificationSvcFacade = (*MockNotificationService)(nil)

func (m *MockNotificationService) Emit(ctx context.Context, accountID, kind string, payload map[string]any) {
	m.Called(ctx, accountID, kind, payload)
}

func (m *MockNotificationService) List(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Notification, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), nil, args.Error(2)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, accountID, notificationID string) error {
	args := m.Called(ctx, accountID, notificationID)
	return args.Error(0)
}

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)

func (m *MockAuditService) Record(ctx context.Context, adminID, action, entity, entityID string, meta map[string]any) {
	m.Called(ctx, adminID, action, entity, entityID, meta)
}

func (m *MockAuditService) List(ctx context.Context, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.AuditRecord), nil, args.Error(2)
}

// --- Mock GateService ---
type MockGateService struct {
	mock.Mock
}

var _ portssvc.GateSvc = (*MockGateService)(nil)

func (m *MockGateService) Attempt(ctx context.Context, subject domain.ModeratedSubject, cost int64) error {
	args := m.Called(ctx, subject, cost)
	return args.Error(0)
}
