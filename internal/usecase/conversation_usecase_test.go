package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/ratelimit"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

func TestResolveConversation_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "S", "seller@thapar.edu")
	buyer := env.user(t, "B", "buyer@thapar.edu")
	env.listing(t, "L1", seller.ID, "Drafter", 350)

	first, err := env.conversations.ResolveConversation(ctx, buyer.ID, "L1", buyer.ID, seller.ID)
	require.NoError(t, err)

	again, err := env.conversations.ResolveConversation(ctx, buyer.ID, "L1", buyer.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	swapped, err := env.conversations.ResolveConversation(ctx, seller.ID, "L1", seller.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, swapped.ID)

	all, err := env.store.Conversations().ListByParticipant(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.ElementsMatch(t, []string{buyer.ID, seller.ID}, all[0].Participants)
}

func TestResolveConversation_KeyedByListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "S", "seller@thapar.edu")
	buyer := env.user(t, "B", "buyer@thapar.edu")
	env.listing(t, "L1", seller.ID, "Drafter", 350)
	env.listing(t, "L2", seller.ID, "Lab manual", 150)

	c1, err := env.conversations.ResolveConversation(ctx, buyer.ID, "L1", buyer.ID, seller.ID)
	require.NoError(t, err)
	c2, err := env.conversations.ResolveConversation(ctx, buyer.ID, "L2", buyer.ID, seller.ID)
	require.NoError(t, err)
	direct, err := env.conversations.ResolveConversation(ctx, buyer.ID, "", buyer.ID, seller.ID)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
	assert.NotEqual(t, c1.ID, direct.ID)
	assert.Empty(t, direct.ListingID)
}

func TestResolveConversation_PicksEarliestDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "S", "seller@thapar.edu")
	buyer := env.user(t, "B", "buyer@thapar.edu")

	// Two racing resolvers can both create a thread for the same pair.
	older := &entity.Conversation{ListingID: "L1", Participants: []string{buyer.ID, seller.ID}}
	require.NoError(t, env.store.Conversations().Create(ctx, older))
	newer := &entity.Conversation{ListingID: "L1", Participants: []string{seller.ID, buyer.ID}}
	require.NoError(t, env.store.Conversations().Create(ctx, newer))

	for i := 0; i < 3; i++ {
		got, err := env.conversations.ResolveConversation(ctx, seller.ID, "L1", buyer.ID, seller.ID)
		require.NoError(t, err)
		assert.Equal(t, older.ID, got.ID)
	}
}

func TestResolveConversation_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "A", "a@thapar.edu")
	b := env.user(t, "B", "b@thapar.edu")
	c := env.user(t, "C", "c@thapar.edu")

	_, err := env.conversations.ResolveConversation(ctx, c.ID, "L1", a.ID, b.ID)
	assert.True(t, errors.Is(err, errors.CodePermissionDenied))

	_, err = env.conversations.ResolveConversation(ctx, a.ID, "L1", a.ID, a.ID)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = env.conversations.ResolveConversation(ctx, a.ID, "L1", a.ID, "")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	all, err := env.store.Conversations().ListByParticipant(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMessageSeller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "S", "seller@thapar.edu")
	buyer := env.user(t, "B", "buyer@thapar.edu")
	env.listing(t, "L1", seller.ID, "Mini fridge", 4000)

	conversation, err := env.conversations.MessageSeller(ctx, buyer, "L1")
	require.NoError(t, err)
	assert.Equal(t, "L1", conversation.ListingID)

	_, err = env.conversations.MessageSeller(ctx, seller, "L1")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	listed, err := env.conversations.ListConversations(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, seller.ID, listed[0].OtherUserID)
	assert.Equal(t, "Seller", listed[0].OtherUserName)
	assert.Equal(t, "Mini fridge", listed[0].ListingTitle)
}

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "S", "seller@thapar.edu")
	buyer := env.user(t, "B", "buyer@thapar.edu")
	outsider := env.user(t, "X", "x@thapar.edu")
	env.listing(t, "L1", seller.ID, "Mini fridge", 4000)

	conversation, err := env.conversations.MessageSeller(ctx, buyer, "L1")
	require.NoError(t, err)

	msg, err := env.conversations.SendMessage(ctx, buyer, conversation.ID, "  still available?  ")
	require.NoError(t, err)
	assert.Equal(t, "still available?", msg.Text)
	assert.Equal(t, entity.MessageUser, msg.Type)

	_, err = env.conversations.SendMessage(ctx, buyer, conversation.ID, "   ")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = env.conversations.SendMessage(ctx, outsider, conversation.ID, "hi")
	assert.True(t, errors.Is(err, errors.CodePermissionDenied))

	_, err = env.conversations.ListMessages(ctx, outsider.ID, conversation.ID)
	assert.True(t, errors.Is(err, errors.CodePermissionDenied))

	messages, err := env.conversations.ListMessages(ctx, seller.ID, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, buyer.ID, messages[0].SenderID)
}

func TestSendMessage_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "S", "seller@thapar.edu")
	buyer := env.user(t, "B", "buyer@thapar.edu")
	env.listing(t, "L1", seller.ID, "Mini fridge", 4000)

	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Limit{
		ratelimit.ActionSendMessage: ratelimit.PerMinute(2),
	})
	conversations := NewConversationUseCase(env.store.Conversations(), env.store.Listings(), env.store.Users(), limiter, nil)

	conversation, err := conversations.MessageSeller(ctx, buyer, "L1")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := conversations.SendMessage(ctx, buyer, conversation.ID, "ping")
		require.NoError(t, err)
	}

	_, err = conversations.SendMessage(ctx, buyer, conversation.ID, "ping")
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
	assert.Equal(t, 2, env.store.Conversations().MessageCount(conversation.ID))
}
