package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rohit30san/thapar-olx/internal/adapter/repository/memstore"
	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/storage"
)

const (
	testAdminEmail = "admin@thapar.edu"
	testPlatform   = "Thapar OLX"
)

type testEnv struct {
	store  *memstore.Store
	policy *service.Policy
	assets *storage.MemoryAssetStore

	conversations *ConversationUseCase
	deals         *DealUseCase
	listings      *ListingUseCase
	moderation    *ModerationUseCase
	reports       *ReportUseCase
	reviews       *ReviewUseCase
	users         *UserUseCase
	feed          *FeedUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	policy := service.NewPolicy(testAdminEmail, "thapar.edu")
	assets := storage.NewMemoryAssetStore("http://localhost:8080/dev/uploads")

	conversations := NewConversationUseCase(store.Conversations(), store.Listings(), store.Users(), nil, nil)
	reviews := NewReviewUseCase(store.Reviews(), store.Users(), nil, policy)

	return &testEnv{
		store:         store,
		policy:        policy,
		assets:        assets,
		conversations: conversations,
		deals:         NewDealUseCase(store.Deals(), store.Listings(), conversations, nil, nil, nil, ""),
		listings:      NewListingUseCase(store.Listings(), store.Users(), assets, policy),
		moderation: NewModerationUseCase(
			store.Users(),
			store.Listings(),
			store.Deals(),
			store.Reports(),
			store.Conversations(),
			conversations,
			policy,
			nil,
			nil,
			testPlatform,
		),
		reports: NewReportUseCase(store.Reports(), store.Users(), policy, nil),
		reviews: reviews,
		users:   NewUserUseCase(store.Users(), store.Listings(), reviews),
		feed:    NewFeedUseCase(store.Listings(), store.Deals(), store.Conversations(), store.Reports(), policy, nil),
	}
}

// user stores a verified account and returns it as an actor.
func (env *testEnv) user(t *testing.T, id, email string) *entity.Actor {
	t.Helper()

	role := env.policy.RoleForEmail(email)
	require.NoError(t, env.store.Users().Create(context.Background(), &entity.User{
		ID:          id,
		Email:       email,
		DisplayName: entity.FallbackDisplayName(email),
		Role:        role,
	}))
	return &entity.Actor{ID: id, Email: email, EmailVerified: true, Role: role}
}

func (env *testEnv) admin(t *testing.T) *entity.Actor {
	return env.user(t, "admin", testAdminEmail)
}

func (env *testEnv) listing(t *testing.T, id, sellerID, title string, price float64) *entity.Listing {
	t.Helper()

	listing := &entity.Listing{
		ID:       id,
		SellerID: sellerID,
		Title:    title,
		Price:    price,
		Category: "Electronics",
		Location: "Hostel J",
		Images:   []string{},
		Status:   entity.ListingAvailable,
	}
	require.NoError(t, env.store.Listings().Create(context.Background(), listing))
	return listing
}

func (env *testEnv) listingStatus(t *testing.T, id string) string {
	t.Helper()

	listing, err := env.store.Listings().GetByID(context.Background(), id)
	require.NoError(t, err)
	return listing.Status
}

func (env *testEnv) messages(t *testing.T, conversationID string) []*entity.Message {
	t.Helper()

	messages, err := env.store.Conversations().ListMessages(context.Background(), conversationID)
	require.NoError(t, err)
	return messages
}

// mockListingRepo fails UpdateStatus on demand and delegates everything else.
type mockListingRepo struct {
	repository.ListingRepository
	mock.Mock
}

func (m *mockListingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	if err := args.Error(0); err != nil {
		return err
	}
	return m.ListingRepository.UpdateStatus(ctx, id, status)
}

// mockConversationRepo fails selected calls on demand and delegates the rest.
type mockConversationRepo struct {
	repository.ConversationRepository
	mock.Mock
}

func (m *mockConversationRepo) AddMessage(ctx context.Context, message *entity.Message) error {
	args := m.Called(ctx, message)
	if err := args.Error(0); err != nil {
		return err
	}
	return m.ConversationRepository.AddMessage(ctx, message)
}

func (m *mockConversationRepo) ListByListing(ctx context.Context, listingID string) ([]*entity.Conversation, error) {
	args := m.Called(ctx, listingID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return m.ConversationRepository.ListByListing(ctx, listingID)
}
