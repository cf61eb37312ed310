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

type GateServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockSubjectRepo *MockSubjectRepository
	mockUserRepo    *MockUserRepository
	service         portssvc.GateSvc
	owner           domain.User
}

func (suite *GateServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockSubjectRepo = new(MockSubjectRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewGateService(suite.mockLedgerRepo, suite.mockSubjectRepo, suite.mockUserRepo)

	suite.owner = domain.User{
		UserID: uuid.NewString(),
		Moderation: domain.Moderation{
			Status: domain.StatusApproved,
		},
	}
}

func (suite *GateServiceTestSuite) newPost(cost int64) domain.Post {
	return domain.Post{
		PostID:  uuid.NewString(),
		OwnerID: suite.owner.UserID,
		Title:   "Test post",
		Body:    "Body",
		Moderation: domain.Moderation{
			Status:   domain.StatusPending,
			CoinCost: cost,
		},
	}
}

func (suite *GateServiceTestSuite) TestAttempt_Success() {
	ctx := context.Background()
	post := suite.newPost(2)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockLedgerRepo.On("BalanceOf", ctx, suite.owner.UserID).Return(int64(10), nil).Once()
	suite.mockSubjectRepo.On("CreateSubjectWithDebit", ctx, post, mock.AnythingOfType("*domain.LedgerEntry")).
		Run(func(args mock.Arguments) {
			debit := args.Get(2).(*domain.LedgerEntry)
			suite.Equal(suite.owner.UserID, debit.AccountID)
			suite.Equal(int64(-2), debit.Delta)
			suite.Equal(domain.ReasonPost, debit.Reason)
			suite.Require().NotNil(debit.ReferenceID)
			suite.Equal(post.PostID, *debit.ReferenceID)
		}).
		Return(nil).Once()

	err := suite.service.Attempt(ctx, post, 2)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockSubjectRepo.AssertExpectations(suite.T())
}

func (suite *GateServiceTestSuite) TestAttempt_FreeActionSkipsLedger() {
	ctx := context.Background()
	post := suite.newPost(0)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockSubjectRepo.On("CreateSubjectWithDebit", ctx, post, (*domain.LedgerEntry)(nil)).Return(nil).Once()

	err := suite.service.Attempt(ctx, post, 0)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "BalanceOf", mock.Anything, mock.Anything)
	suite.mockSubjectRepo.AssertExpectations(suite.T())
}

func (suite *GateServiceTestSuite) TestAttempt_ProfileNotApproved() {
	ctx := context.Background()
	post := suite.newPost(2)
	suite.owner.Status = domain.StatusPending

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()

	err := suite.service.Attempt(ctx, post, 2)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotEligible)
	suite.mockSubjectRepo.AssertNotCalled(suite.T(), "CreateSubjectWithDebit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GateServiceTestSuite) TestAttempt_ProfileMissing() {
	ctx := context.Background()
	post := suite.newPost(2)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.Attempt(ctx, post, 2)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotEligible)
}

func (suite *GateServiceTestSuite) TestAttempt_InsufficientBalance() {
	ctx := context.Background()
	post := suite.newPost(5)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockLedgerRepo.On("BalanceOf", ctx, suite.owner.UserID).Return(int64(3), nil).Once()

	err := suite.service.Attempt(ctx, post, 5)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockSubjectRepo.AssertNotCalled(suite.T(), "CreateSubjectWithDebit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GateServiceTestSuite) TestAttempt_RaceLostUnderLock() {
	// The precheck passed but the repository lost the balance race under the
	// account row lock; the error surfaces unchanged.
	ctx := context.Background()
	post := suite.newPost(2)

	suite.mockUserRepo.On("FindUserByID", ctx, suite.owner.UserID).Return(&suite.owner, nil).Once()
	suite.mockLedgerRepo.On("BalanceOf", ctx, suite.owner.UserID).Return(int64(2), nil).Once()
	suite.mockSubjectRepo.On("CreateSubjectWithDebit", ctx, post, mock.AnythingOfType("*domain.LedgerEntry")).
		Return(apperrors.ErrInsufficientBalance).Once()

	err := suite.service.Attempt(ctx, post, 2)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
}

func (suite *GateServiceTestSuite) TestAttempt_NegativeCost() {
	ctx := context.Background()
	post := suite.newPost(2)

	err := suite.service.Attempt(ctx, post, -1)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func TestGateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GateServiceTestSuite))
}
