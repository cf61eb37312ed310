package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvtechguy/islandvault/internal/core/domain"
	"github.com/mvtechguy/islandvault/internal/core/services"
)

func pendingPost(cost int64) domain.Post {
	return domain.Post{
		PostID:  uuid.NewString(),
		OwnerID: uuid.NewString(),
		Title:   "Looking for a partner",
		Body:    "Hello",
		Moderation: domain.Moderation{
			Status:   domain.StatusPending,
			CoinCost: cost,
		},
	}
}

func TestRefundPolicy_Entry(t *testing.T) {
	now := time.Now().UTC()
	adminID := uuid.NewString()

	t.Run("credits the full cost back to the owner", func(t *testing.T) {
		post := pendingPost(2)
		entry := services.RefundPolicy{AllowRefunds: true}.Entry(post, adminID, now)

		require.NotNil(t, entry)
		assert.Equal(t, post.OwnerID, entry.AccountID)
		assert.Equal(t, int64(2), entry.Delta)
		assert.Equal(t, domain.ReasonRefund, entry.Reason)
		require.NotNil(t, entry.ReferenceKind)
		assert.Equal(t, domain.KindPost, *entry.ReferenceKind)
		require.NotNil(t, entry.ReferenceID)
		assert.Equal(t, post.PostID, *entry.ReferenceID)
		assert.Equal(t, adminID, entry.CreatedBy)
	})

	t.Run("nil when refunds are disabled", func(t *testing.T) {
		post := pendingPost(2)
		assert.Nil(t, services.RefundPolicy{AllowRefunds: false}.Entry(post, adminID, now))
	})

	t.Run("nil for a free subject", func(t *testing.T) {
		post := pendingPost(0)
		assert.Nil(t, services.RefundPolicy{AllowRefunds: true}.Entry(post, adminID, now))
	})

	t.Run("nil when the refund guard is already set", func(t *testing.T) {
		post := pendingPost(2)
		post.RefundApplied = true
		assert.Nil(t, services.RefundPolicy{AllowRefunds: true}.Entry(post, adminID, now))
	})
}
