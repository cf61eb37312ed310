package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/core/services"
)

type CoinServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockNotifier   *MockNotificationService
	mockAudit      *MockAuditService
	service        portssvc.CoinSvcFacade
	adminID        string
	accountID      string
}

func (suite *CoinServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockNotifier = new(MockNotificationService)
	suite.mockAudit = new(MockAuditService)
	suite.service = services.NewCoinService(suite.mockLedgerRepo, suite.mockNotifier, suite.mockAudit)
	suite.adminID = uuid.NewString()
	suite.accountID = uuid.NewString()
}

func (suite *CoinServiceTestSuite) TestAdjust_Success() {
	ctx := context.Background()
	stored := &domain.LedgerEntry{
		EntryID:   42,
		AccountID: suite.accountID,
		Delta:     -3,
		Reason:    domain.ReasonAdjust,
	}

	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			entry := args.Get(1).(domain.LedgerEntry)
			suite.Equal(suite.accountID, entry.AccountID)
			suite.Equal(int64(-3), entry.Delta)
			suite.Equal(domain.ReasonAdjust, entry.Reason)
			suite.Equal("promo rollback", entry.Description)
			suite.Equal(suite.adminID, entry.CreatedBy)
		}).
		Return(stored, nil).Once()
	suite.mockAudit.On("Record", ctx, suite.adminID, "ADJUST", "COIN_ACCOUNT", suite.accountID, mock.Anything).Once()
	suite.mockNotifier.On("Emit", ctx, suite.accountID, "coins_adjusted", mock.Anything).Once()

	entry, err := suite.service.Adjust(ctx, suite.adminID, suite.accountID, -3, "promo rollback")

	suite.Require().NoError(err)
	suite.Equal(int64(42), entry.EntryID)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *CoinServiceTestSuite) TestAdjust_DefaultsDescription() {
	ctx := context.Background()
	stored := &domain.LedgerEntry{EntryID: 7, AccountID: suite.accountID, Delta: 5}

	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			entry := args.Get(1).(domain.LedgerEntry)
			suite.Equal("manual adjustment", entry.Description)
		}).
		Return(stored, nil).Once()
	suite.mockAudit.On("Record", ctx, suite.adminID, "ADJUST", "COIN_ACCOUNT", suite.accountID, mock.Anything).Once()
	suite.mockNotifier.On("Emit", ctx, suite.accountID, "coins_adjusted", mock.Anything).Once()

	_, err := suite.service.Adjust(ctx, suite.adminID, suite.accountID, 5, "")

	suite.Require().NoError(err)
}

func (suite *CoinServiceTestSuite) TestAdjust_ZeroDelta() {
	ctx := context.Background()

	_, err := suite.service.Adjust(ctx, suite.adminID, suite.accountID, 0, "noop")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidDelta)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendEntry", mock.Anything, mock.Anything)
}

func (suite *CoinServiceTestSuite) TestAdjust_RepoErrorSkipsEffects() {
	ctx := context.Background()

	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.AnythingOfType("domain.LedgerEntry")).
		Return(nil, apperrors.ErrInsufficientBalance).Once()

	_, err := suite.service.Adjust(ctx, suite.adminID, suite.accountID, -100, "clawback")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockAudit.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCoinServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CoinServiceTestSuite))
}
