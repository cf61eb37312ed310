package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mvtechguy/islandvault/internal/apperrors"
	"github.com/mvtechguy/islandvault/internal/core/domain"
	portsrepo "github.com/mvtechguy/islandvault/internal/core/ports/repositories"
	portssvc "github.com/mvtechguy/islandvault/internal/core/ports/services"
	"github.com/mvtechguy/islandvault/internal/core/services"
)

type WorkflowServiceTestSuite struct {
	suite.Suite
	mockSubjectRepo *MockSubjectRepository
	mockNotifier    *MockNotificationService
	mockAudit       *MockAuditService
	service         portssvc.WorkflowSvcFacade
	adminID         string
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.mockSubjectRepo = new(MockSubjectRepository)
	suite.mockNotifier = new(MockNotificationService)
	suite.mockAudit = new(MockAuditService)
	suite.service = services.NewWorkflowService(
		suite.mockSubjectRepo,
		services.RefundPolicy{AllowRefunds: true},
		suite.mockNotifier,
		suite.mockAudit,
		false,
	)
	suite.adminID = uuid.NewString()
}

func (suite *WorkflowServiceTestSuite) expectPostCommitEffects() {
	suite.mockAudit.On("Record", mock.Anything, suite.adminID, "DECIDE", mock.Anything, mock.Anything, mock.Anything).Once()
	suite.mockNotifier.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
}

func (suite *WorkflowServiceTestSuite) TestDecide_ApprovePost() {
	ctx := context.Background()
	post := pendingPost(2)

	suite.mockSubjectRepo.On("FindSubject", ctx, domain.KindPost, post.PostID).Return(post, nil).Once()
	suite.mockSubjectRepo.On("DecideSubject", ctx, domain.KindPost, post.PostID, mock.AnythingOfType("repositories.SubjectDecision")).
		Run(func(args mock.Arguments) {
			decision := args.Get(3).(portsrepo.SubjectDecision)
			suite.Equal(domain.StatusApproved, decision.Outcome)
			suite.Equal(suite.adminID, decision.DecidedBy)
			suite.Nil(decision.Entry)
			suite.False(decision.MarkRefund)
		}).
		Return(nil).Once()
	suite.expectPostCommitEffects()

	err := suite.service.Decide(ctx, domain.KindPost, post.PostID, domain.StatusApproved, suite.adminID, nil)

	suite.Require().NoError(err)
	suite.mockSubjectRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestDecide_RejectPostRefunds() {
	ctx := context.Background()
	post := pendingPost(2)
	note := "duplicate content"

	suite.mockSubjectRepo.On("FindSubject", ctx, domain.KindPost, post.PostID).Return(post, nil).Once()
	suite.mockSubjectRepo.On("DecideSubject", ctx, domain.KindPost, post.PostID, mock.AnythingOfType("repositories.SubjectDecision")).
		Run(func(args mock.Arguments) {
			decision := args.Get(3).(portsrepo.SubjectDecision)
			suite.Equal(domain.StatusRejected, decision.Outcome)
			suite.True(decision.MarkRefund)
			suite.Require().NotNil(decision.Entry)
			suite.Equal(post.OwnerID, decision.Entry.AccountID)
			suite.Equal(int64(2), decision.Entry.Delta)
			suite.Equal(domain.ReasonRefund, decision.Entry.Reason)
		}).
		Return(nil).Once()
	suite.expectPostCommitEffects()

	err := suite.service.Decide(ctx, domain.KindPost, post.PostID, domain.StatusRejected, suite.adminID, &note)

	suite.Require().NoError(err)
	suite.mockSubjectRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestDecide_RejectWithRefundsDisabled() {
	ctx := context.Background()
	post := pendingPost(2)
	svc := services.NewWorkflowService(
		suite.mockSubjectRepo,
		services.RefundPolicy{AllowRefunds: false},
		suite.mockNotifier,
		suite.mockAudit,
		false,
	)

	suite.mockSubjectRepo.On("FindSubject", ctx, domain.KindPost, post.PostID).Return(post, nil).Once()
	suite.mockSubjectRepo.On("DecideSubject", ctx, domain.KindPost, post.PostID, mock.AnythingOfType("repositories.SubjectDecision")).
		Run(func(args mock.Arguments) {
			decision := args.Get(3).(portsrepo.SubjectDecision)
			suite.Equal(domain.StatusRejected, decision.Outcome)
			suite.Nil(decision.Entry)
			suite.False(decision.MarkRefund)
		}).
		Return(nil).Once()
	suite.expectPostCommitEffects()

	err := svc.Decide(ctx, domain.KindPost, post.PostID, domain.StatusRejected, suite.adminID, nil)

	suite.Require().NoError(err)
	suite.mockSubjectRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestDecide_ApproveTopupCredits() {
	ctx := context.Background()
	topup := domain.TopupRequest{
		TopupID: uuid.NewString(),
		OwnerID: uuid.NewString(),
		Coins:   50,
		Moderation: domain.Moderation{
			Status: domain.StatusPending,
		},
	}

	suite.mockSubjectRepo.On("FindSubject", ctx, domain.KindTopup, topup.TopupID).Return(topup, nil).Once()
	suite.mockSubjectRepo.On("DecideSubject", ctx, domain.KindTopup, topup.TopupID, mock.AnythingOfType("repositories.SubjectDecision")).
		Run(func(args mock.Arguments) {
			decision := args.Get(3).(portsrepo.SubjectDecision)
			suite.Equal(domain.StatusApproved, decision.Outcome)
			suite.False(decision.MarkRefund)
			suite.Require().NotNil(decision.Entry)
			suite.Equal(topup.OwnerID, decision.Entry.AccountID)
			suite.Equal(int64(50), decision.Entry.Delta)
			suite.Equal(domain.ReasonTopup, decision.Entry.Reason)
		}).
		Return(nil).Once()
	suite.expectPostCommitEffects()

	err := suite.service.Decide(ctx, domain.KindTopup, topup.TopupID, domain.StatusApproved, suite.adminID, nil)

	suite.Require().NoError(err)
	suite.mockSubjectRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestDecide_RejectTopupMovesNoCoins() {
	ctx := context.Background()
	topup := domain.TopupRequest{
		TopupID: uuid.NewString(),
		OwnerID: uuid.NewString(),
		Coins:   50,
		Moderation: domain.Moderation{
			Status: domain.StatusPending,
		},
	}

	suite.mockSubjectRepo.On("FindSubject", ctx, domain.KindTopup, topup.TopupID).Return(topup, nil).Once()
	suite.mockSubjectRepo.On("DecideSubject", ctx, domain.KindTopup, topup.TopupID, mock.AnythingOfType("repositories.SubjectDecision")).
		Run(func(args mock.Arguments) {
			decision := args.Get(3).(portsrepo.SubjectDecision)
			// Top-up creation is free, so rejection refunds nothing.
			suite.Nil(decision.Entry)
			suite.False(decision.MarkRefund)
		}).
		Return(nil).Once()
	suite.expectPostCommitEffects()

	err := suite.service.Decide(ctx, domain.KindTopup, topup.TopupID, domain.StatusRejected, suite.adminID, nil)

	suite.Require().NoError(err)
}

func (suite *WorkflowServiceTestSuite) TestDecide_AlreadyDecided() {
	ctx := context.Background()
	post := pendingPost(2)
	post.Status = domain.StatusApproved

	suite.mockSubjectRepo.On("FindSubject", ctx, domain.KindPost, post.PostID).Return(post, nil).Once()

	err := suite.service.Decide(ctx, domain.KindPost, post.PostID, domain.StatusRejected, suite.adminID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyDecided)
	suite.mockSubjectRepo.AssertNotCalled(suite.T(), "DecideSubject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestDecide_ApprovedProfileMayBeRejected() {
	// The profile variant is the one subject allowed to leave a terminal
	// state: an approved profile can later be rejected.
	ctx := context.Background()
	user := domain.User{
		UserID: uuid.NewString(),
		Moderation: domain.Moderation{
			Status: domain.StatusApproved,
		},
	}

	suite.mockSubjectRepo.On("FindSubject", ctx, domain.KindUserProfile, user.UserID).Return(user, nil).Once()
	suite.mockSubjectRepo.On("DecideSubject", ctx, domain.KindUserProfile, user.UserID, mock.AnythingOfType("repositories.SubjectDecision")).
		Return(nil).Once()
	suite.expectPostCommitEffects()

	err := suite.service.Decide(ctx, domain.KindUserProfile, user.UserID, domain.StatusRejected, suite.adminID, nil)

	suite.Require().NoError(err)
	suite.mockSubjectRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestDecide_InvalidOutcome() {
	ctx := context.Background()

	err := suite.service.Decide(ctx, domain.KindPost, uuid.NewString(), domain.StatusCancelled, suite.adminID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSubjectRepo.AssertNotCalled(suite.T(), "FindSubject", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestDecide_RefundIntegrityFaultSurfaces() {
	ctx := context.Background()
	post := pendingPost(2)

	suite.mockSubjectRepo.On("FindSubject", ctx, domain.KindPost, post.PostID).Return(post, nil).Once()
	suite.mockSubjectRepo.On("DecideSubject", ctx, domain.KindPost, post.PostID, mock.AnythingOfType("repositories.SubjectDecision")).
		Return(apperrors.ErrRefundIntegrity).Once()

	err := suite.service.Decide(ctx, domain.KindPost, post.PostID, domain.StatusRejected, suite.adminID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRefundIntegrity)
	suite.mockAudit.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestDecide_ApprovedConnectionNotifiesTarget() {
	ctx := context.Background()
	conn := domain.ConnectionRequest{
		RequestID:   uuid.NewString(),
		RequesterID: uuid.NewString(),
		TargetID:    uuid.NewString(),
		Moderation: domain.Moderation{
			Status:   domain.StatusPending,
			CoinCost: 2,
		},
	}

	suite.mockSubjectRepo.On("FindSubject", ctx, domain.KindConnection, conn.RequestID).Return(conn, nil).Once()
	suite.mockSubjectRepo.On("DecideSubject", ctx, domain.KindConnection, conn.RequestID, mock.AnythingOfType("repositories.SubjectDecision")).
		Return(nil).Once()
	suite.mockAudit.On("Record", mock.Anything, suite.adminID, "DECIDE", mock.Anything, mock.Anything, mock.Anything).Once()
	suite.mockNotifier.On("Emit", mock.Anything, conn.RequesterID, "connection_approved", mock.Anything).Once()
	suite.mockNotifier.On("Emit", mock.Anything, conn.TargetID, "connection_approved", mock.Anything).Once()

	err := suite.service.Decide(ctx, domain.KindConnection, conn.RequestID, domain.StatusApproved, suite.adminID, nil)

	suite.Require().NoError(err)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
