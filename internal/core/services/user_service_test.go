package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/core/services"
	"github.com/mvtechguy/islandvault/internal/dto"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo   *MockUserRepository
	mockLedgerRepo *MockLedgerRepository
	mockNotifier   *MockNotificationService
	service        portssvc.UserSvcFacade
	userID         string
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockNotifier = new(MockNotificationService)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockLedgerRepo, suite.mockNotifier)
	suite.userID = uuid.NewString()
}

func profileRequest() dto.SubmitProfileRequest {
	return dto.SubmitProfileRequest{
		FullName: "Aishath Naseem",
		Mobile:   "+9607771234",
		Island:   "Hulhumale",
		Gender:   "FEMALE",
		Bio:      "Hello",
	}
}

func (suite *UserServiceTestSuite) TestSubmitProfile_FirstSubmission() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveProfile", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(domain.User)
			suite.Equal(suite.userID, user.UserID)
			suite.Equal(domain.RoleUser, user.Role)
			suite.Equal(domain.StatusPending, user.Status)
			suite.Equal(suite.userID, user.CreatedBy)
		}).
		Return(nil).Once()
	suite.mockNotifier.On("Emit", ctx, suite.userID, "profile_submitted", mock.Anything).Once()

	user, err := suite.service.SubmitProfile(ctx, suite.userID, profileRequest())

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, user.Status)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestSubmitProfile_ResubmissionKeepsIdentity() {
	// A rejected member resubmits; the profile re-enters PENDING but the role
	// and original creation metadata survive.
	ctx := context.Background()
	createdAt := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	existing := &domain.User{
		UserID: suite.userID,
		Role:   domain.RoleAdmin,
		Moderation: domain.Moderation{
			Status: domain.StatusRejected,
		},
		AuditFields: domain.AuditFields{
			CreatedAt: createdAt,
			CreatedBy: suite.userID,
		},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(existing, nil).Once()
	suite.mockUserRepo.On("SaveProfile", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(domain.User)
			suite.Equal(domain.StatusPending, user.Status)
			suite.Equal(domain.RoleAdmin, user.Role)
			suite.Equal(createdAt, user.CreatedAt)
		}).
		Return(nil).Once()
	suite.mockNotifier.On("Emit", ctx, suite.userID, "profile_submitted", mock.MatchedBy(func(payload map[string]any) bool {
		return payload["resubmission"] == true
	})).Once()

	_, err := suite.service.SubmitProfile(ctx, suite.userID, profileRequest())

	suite.Require().NoError(err)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetProfile_IncludesBalance() {
	ctx := context.Background()
	user := &domain.User{
		UserID:   suite.userID,
		FullName: "Aishath Naseem",
		Moderation: domain.Moderation{
			Status: domain.StatusApproved,
		},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(user, nil).Once()
	suite.mockLedgerRepo.On("BalanceOf", ctx, suite.userID).Return(int64(12), nil).Once()

	profile, err := suite.service.GetProfile(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int64(12), profile.Balance)
	suite.Equal("APPROVED", profile.Status)
}

func (suite *UserServiceTestSuite) TestGetProfile_NotFound() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetProfile(ctx, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "BalanceOf", mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
