package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

func TestGetSellerProfile_HidesRemovedListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "S", "seller@thapar.edu")
	buyer := env.user(t, "B", "buyer@thapar.edu")
	env.listing(t, "L1", seller.ID, "Guitar", 4500)
	env.listing(t, "L2", seller.ID, "Capo", 150)
	require.NoError(t, env.store.Listings().UpdateStatus(ctx, "L2", entity.ListingRemoved))

	_, err := env.reviews.CreateReview(ctx, buyer, CreateReviewInput{SellerID: seller.ID, Rating: 4})
	require.NoError(t, err)

	profile, err := env.users.GetSellerProfile(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seller", profile.User.DisplayName)
	require.Len(t, profile.Listings, 1)
	assert.Equal(t, "L1", profile.Listings[0].ID)
	assert.Equal(t, 1, profile.Reviews.Summary.Count)

	_, err = env.users.GetSellerProfile(ctx, "ghost")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestGetMyProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seller := env.user(t, "S", "seller@thapar.edu")
	buyer := env.user(t, "B", "buyer@thapar.edu")
	env.listing(t, "L1", buyer.ID, "Calculator", 900)
	require.NoError(t, env.store.Listings().UpdateStatus(ctx, "L1", entity.ListingRemoved))

	_, err := env.reviews.CreateReview(ctx, buyer, CreateReviewInput{SellerID: seller.ID, Rating: 5})
	require.NoError(t, err)

	profile, err := env.users.GetMyProfile(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, buyer.Email, profile.User.Email)
	// Owners still see what moderation removed.
	assert.Len(t, profile.Listings, 1)
	assert.Zero(t, profile.ReviewsAboutMe.Summary.Count)
	require.Len(t, profile.ReviewsGiven, 1)
	assert.Equal(t, seller.ID, profile.ReviewsGiven[0].SellerID)
}

func TestUpdateDisplayName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.user(t, "U", "u@thapar.edu")

	user, err := env.users.UpdateDisplayName(ctx, actor, "  Hostel K Rohit ")
	require.NoError(t, err)
	assert.Equal(t, "Hostel K Rohit", user.DisplayName)

	_, err = env.users.UpdateDisplayName(ctx, actor, "   ")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = env.users.UpdateDisplayName(ctx, actor, strings.Repeat("x", 61))
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}
