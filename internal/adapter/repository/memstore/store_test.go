package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

func TestNow_StrictlyIncreasing(t *testing.T) {
	s := New()
	frozen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return frozen }

	ctx := context.Background()
	first := &entity.Message{ConversationID: "c1", SenderID: "a", Text: "one"}
	second := &entity.Message{ConversationID: "c1", SenderID: "b", Text: "two"}
	require.NoError(t, s.Conversations().AddMessage(ctx, first))
	require.NoError(t, s.Conversations().AddMessage(ctx, second))

	assert.True(t, second.CreatedAt.After(first.CreatedAt))

	messages, err := s.Conversations().ListMessages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].Text)
	assert.Equal(t, "two", messages[1].Text)
}

func TestNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Deals().GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	assert.True(t, errors.Is(s.Deals().UpdateStatus(ctx, "nope", entity.DealAccepted), errors.CodeNotFound))
	assert.True(t, errors.Is(s.Listings().UpdateStatus(ctx, "nope", entity.ListingSold), errors.CodeNotFound))
	_, err = s.Users().GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	deal := &entity.Deal{ListingID: "L1", BuyerID: "B", SellerID: "S", Status: entity.DealPending}
	require.NoError(t, s.Deals().Create(ctx, deal))
	deal.Status = entity.DealCompleted

	got, err := s.Deals().GetByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DealPending, got.Status)

	got.Status = entity.DealCancelled
	again, err := s.Deals().GetByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DealPending, again.Status)
}

func TestSubscribeByUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	var snapshots [][]*entity.Deal
	sub, err := s.Deals().SubscribeByUser(ctx, "S", true, func(deals []*entity.Deal) {
		snapshots = append(snapshots, deals)
	})
	require.NoError(t, err)

	// The current result set is delivered before Subscribe returns.
	require.Len(t, snapshots, 1)
	assert.Empty(t, snapshots[0])

	require.NoError(t, s.Deals().Create(ctx, &entity.Deal{ListingID: "L1", BuyerID: "B", SellerID: "S", Status: entity.DealPending}))
	require.NoError(t, s.Deals().Create(ctx, &entity.Deal{ListingID: "L2", BuyerID: "S", SellerID: "X", Status: entity.DealPending}))

	require.Len(t, snapshots, 3)
	assert.Len(t, snapshots[2], 1, "deals where S is the buyer are not part of the seller view")
	assert.Equal(t, 1, s.WatcherCount(kindDeal))

	sub.Close()
	sub.Close()
	assert.Zero(t, s.WatcherCount(kindDeal))

	require.NoError(t, s.Deals().Create(ctx, &entity.Deal{ListingID: "L3", BuyerID: "B", SellerID: "S"}))
	assert.Len(t, snapshots, 3)
}

func TestDeleteConversationKeepsMessages(t *testing.T) {
	s := New()
	ctx := context.Background()

	conv := &entity.Conversation{ListingID: "L1", Participants: []string{"A", "B"}}
	require.NoError(t, s.Conversations().Create(ctx, conv))
	require.NoError(t, s.Conversations().AddMessage(ctx, &entity.Message{ConversationID: conv.ID, SenderID: "A", Text: "hi"}))

	require.NoError(t, s.Conversations().Delete(ctx, conv.ID))
	_, err := s.Conversations().GetByID(ctx, conv.ID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	// Like Firestore subcollections, messages outlive their parent document.
	assert.Equal(t, 1, s.Conversations().MessageCount(conv.ID))
}
