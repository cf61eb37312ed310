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
	"github.com/mvtechguy/islandvault/internal/dto"
)

type PostServiceTestSuite struct {
	suite.Suite
	mockGate     *MockGateService
	mockPostRepo *MockPostRepository
	mockNotifier *MockNotificationService
	service      portssvc.PostSvcFacade
	ownerID      string
}

func (suite *PostServiceTestSuite) SetupTest() {
	suite.mockGate = new(MockGateService)
	suite.mockPostRepo = new(MockPostRepository)
	suite.mockNotifier = new(MockNotificationService)
	suite.service = services.NewPostService(suite.mockGate, suite.mockPostRepo, suite.mockNotifier, 2)
	suite.ownerID = uuid.NewString()
}

func (suite *PostServiceTestSuite) TestCreatePost_ChargesConfiguredCost() {
	ctx := context.Background()
	req := dto.CreatePostRequest{Title: "Looking for a partner", Body: "Hello"}

	suite.mockGate.On("Attempt", ctx, mock.AnythingOfType("domain.Post"), int64(2)).
		Run(func(args mock.Arguments) {
			post := args.Get(1).(domain.Post)
			suite.Equal(suite.ownerID, post.OwnerID)
			suite.Equal(domain.StatusPending, post.Status)
			suite.Equal(int64(2), post.CoinCost)
		}).
		Return(nil).Once()
	suite.mockNotifier.On("Emit", ctx, suite.ownerID, "post_pending", mock.Anything).Once()

	post, err := suite.service.CreatePost(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Equal("Looking for a partner", post.Title)
	suite.mockGate.AssertExpectations(suite.T())
}

func (suite *PostServiceTestSuite) TestCreatePost_GateRejectionSurfaces() {
	ctx := context.Background()
	req := dto.CreatePostRequest{Title: "Looking for a partner", Body: "Hello"}

	suite.mockGate.On("Attempt", ctx, mock.AnythingOfType("domain.Post"), int64(2)).
		Return(apperrors.ErrInsufficientBalance).Once()

	_, err := suite.service.CreatePost(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostServiceTestSuite))
}
