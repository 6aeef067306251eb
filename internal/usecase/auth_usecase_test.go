package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rohit30san/thapar-olx/internal/adapter/repository/memstore"
	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/firebase"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendVerificationEmail(ctx context.Context, toEmail, displayName, link string) error {
	args := m.Called(ctx, toEmail, displayName, link)
	return args.Error(0)
}

func newAuthUseCase(mailer service.VerificationMailer) (*AuthUseCase, *memstore.Store, *firebase.DevIdentityProvider) {
	store := memstore.New()
	identity := firebase.NewDevIdentityProvider("http://localhost:8080")
	policy := service.NewPolicy(testAdminEmail, "thapar.edu")
	return NewAuthUseCase(store.Users(), identity, mailer, policy), store, identity
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	mailer := &mockMailer{}
	mailer.On("SendVerificationEmail", mock.Anything, "rohit_be23@thapar.edu", "Rohit_be23",
		mock.MatchedBy(func(link string) bool {
			return strings.Contains(link, "/dev/verify?email=")
		})).Return(nil).Once()

	auth, store, _ := newAuthUseCase(mailer)

	user, err := auth.Signup(ctx, SignupInput{Email: "  Rohit_BE23@thapar.edu ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "rohit_be23@thapar.edu", user.Email)
	assert.Equal(t, "Rohit_be23", user.DisplayName)
	assert.Equal(t, entity.RoleUser, user.Role)
	mailer.AssertExpectations(t)

	stored, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)

	_, err = auth.Signup(ctx, SignupInput{Email: "rohit_be23@thapar.edu", Password: "secret1"})
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestSignup_Rules(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newAuthUseCase(nil)

	_, err := auth.Signup(ctx, SignupInput{Email: "someone@gmail.com", Password: "secret1"})
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	admin, err := auth.Signup(ctx, SignupInput{Email: testAdminEmail, Password: "secret1", DisplayName: "Moderator"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.Equal(t, "Moderator", admin.DisplayName)
}

func TestSignup_MailerFailureDoesNotFailSignup(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	auth, _, _ := newAuthUseCase(mailer)

	_, err := auth.Signup(context.Background(), SignupInput{Email: "new@thapar.edu", Password: "secret1"})
	require.NoError(t, err)
	mailer.AssertNumberOfCalls(t, "SendVerificationEmail", 1)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	auth, store, identity := newAuthUseCase(nil)

	_, err := auth.Authenticate(ctx, "garbage")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	actor, err := auth.Authenticate(ctx, firebase.DevToken("u1", "first@thapar.edu", false))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, actor.Role)
	assert.False(t, actor.EmailVerified)
	assert.Equal(t, "First", actor.DisplayName)

	// First sight creates the record.
	user, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "first@thapar.edu", user.Email)

	verified, err := auth.CheckVerification(ctx, actor)
	require.NoError(t, err)
	assert.False(t, verified)

	identity.MarkVerified("u1")
	verified, err = auth.CheckVerification(ctx, actor)
	require.NoError(t, err)
	assert.True(t, verified)

	actor, err = auth.Authenticate(ctx, firebase.DevToken("u1", "first@thapar.edu", false))
	require.NoError(t, err)
	assert.True(t, actor.EmailVerified)
	assert.Error(t, auth.ResendVerification(ctx, actor))
}

func TestAuthenticate_PromotesDesignatedAdmin(t *testing.T) {
	ctx := context.Background()
	auth, store, _ := newAuthUseCase(nil)

	// The record predates the admin setting.
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "a1", Email: testAdminEmail, Role: entity.RoleUser}))

	actor, err := auth.Authenticate(ctx, firebase.DevToken("a1", testAdminEmail, true))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, actor.Role)

	user, err := store.Users().GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
}

func TestAuthenticate_UnverifiedAdminEmailStaysUser(t *testing.T) {
	ctx := context.Background()
	auth, store, identity := newAuthUseCase(nil)

	actor, err := auth.Authenticate(ctx, firebase.DevToken("a1", testAdminEmail, false))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, actor.Role)

	user, err := store.Users().GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, user.Role)

	identity.MarkVerified("a1")
	actor, err = auth.Authenticate(ctx, firebase.DevToken("a1", testAdminEmail, false))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, actor.Role)
}

func TestAuthenticate_RejectsOutsideDomain(t *testing.T) {
	ctx := context.Background()
	auth, store, _ := newAuthUseCase(nil)

	_, err := auth.Authenticate(ctx, firebase.DevToken("g1", "someone@gmail.com", true))
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	_, err = store.Users().GetByID(ctx, "g1")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
