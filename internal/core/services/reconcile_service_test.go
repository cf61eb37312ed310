package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mvtechguy/islandvault/internal/core/domain"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/core/services"
)

type ReconcileServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.ReconcileSvcFacade
}

func (suite *ReconcileServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewReconcileService(suite.mockLedgerRepo)
}

func (suite *ReconcileServiceTestSuite) TestRun_CleanLedger() {
	ctx := context.Background()
	accounts := []domain.CoinAccount{
		{AccountID: uuid.NewString(), Balance: 10},
		{AccountID: uuid.NewString(), Balance: 0},
	}

	suite.mockLedgerRepo.On("ListAccounts", ctx).Return(accounts, nil).Once()
	suite.mockLedgerRepo.On("SumDeltas", ctx, accounts[0].AccountID).Return(int64(10), nil).Once()
	suite.mockLedgerRepo.On("SumDeltas", ctx, accounts[1].AccountID).Return(int64(0), nil).Once()
	suite.mockLedgerRepo.On("CountDuplicateRefunds", ctx).Return(0, nil).Once()

	report, err := suite.service.Run(ctx)

	suite.Require().NoError(err)
	suite.Equal(2, report.AccountsChecked)
	suite.Equal(0, report.BalanceMismatches)
	suite.Equal(0, report.NegativeBalances)
	suite.Equal(0, report.DuplicateRefunds)
	suite.Empty(report.Faults)
}

func (suite *ReconcileServiceTestSuite) TestRun_BalanceMismatch() {
	ctx := context.Background()
	account := domain.CoinAccount{AccountID: uuid.NewString(), Balance: 10}

	suite.mockLedgerRepo.On("ListAccounts", ctx).Return([]domain.CoinAccount{account}, nil).Once()
	suite.mockLedgerRepo.On("SumDeltas", ctx, account.AccountID).Return(int64(8), nil).Once()
	suite.mockLedgerRepo.On("CountDuplicateRefunds", ctx).Return(0, nil).Once()

	report, err := suite.service.Run(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, report.BalanceMismatches)
	suite.Len(report.Faults, 1)
	suite.Contains(report.Faults[0], account.AccountID)
}

func (suite *ReconcileServiceTestSuite) TestRun_NegativeBalance() {
	ctx := context.Background()
	account := domain.CoinAccount{AccountID: uuid.NewString(), Balance: -5}

	suite.mockLedgerRepo.On("ListAccounts", ctx).Return([]domain.CoinAccount{account}, nil).Once()
	suite.mockLedgerRepo.On("SumDeltas", ctx, account.AccountID).Return(int64(-5), nil).Once()
	suite.mockLedgerRepo.On("CountDuplicateRefunds", ctx).Return(0, nil).Once()

	report, err := suite.service.Run(ctx)

	suite.Require().NoError(err)
	suite.Equal(0, report.BalanceMismatches)
	suite.Equal(1, report.NegativeBalances)
	suite.Len(report.Faults, 1)
}

func (suite *ReconcileServiceTestSuite) TestRun_DuplicateRefunds() {
	ctx := context.Background()

	suite.mockLedgerRepo.On("ListAccounts", ctx).Return([]domain.CoinAccount{}, nil).Once()
	suite.mockLedgerRepo.On("CountDuplicateRefunds", ctx).Return(3, nil).Once()

	report, err := suite.service.Run(ctx)

	suite.Require().NoError(err)
	suite.Equal(3, report.DuplicateRefunds)
	suite.Len(report.Faults, 1)
}

func TestReconcileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcileServiceTestSuite))
}
