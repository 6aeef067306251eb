package usecase

import (
	"context"
	"strings"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	identity service.IdentityProvider
	mailer   service.VerificationMailer
	policy   *service.Policy
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	identity service.IdentityProvider,
	mailer service.VerificationMailer,
	policy *service.Policy,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		identity: identity,
		mailer:   mailer,
		policy:   policy,
	}
}

type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
}

func (uc *AuthUseCase) Signup(ctx context.Context, input SignupInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !uc.policy.IsAllowedEmail(email) {
		return nil, errors.BadRequest("Please sign up with your @"+uc.policy.AllowedDomain()+" email", nil)
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use")
	} else if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = entity.FallbackDisplayName(email)
	}

	uid, err := uc.identity.CreateUser(ctx, email, input.Password, displayName)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	user := &entity.User{
		ID:          uid,
		Email:       email,
		DisplayName: displayName,
		Role:        uc.policy.RoleForEmail(email),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create user record", err)
	}

	if err := uc.sendVerification(ctx, email, displayName); err != nil {
		logger.Warn("Verification email for %s not sent: %v", email, err)
	}

	logger.Info("User %s signed up with role %s", uid, user.Role)
	return user, nil
}

// Authenticate verifies an ID token and attaches the stored role. An account
// seen for the first time gets its User record here.
func (uc *AuthUseCase) Authenticate(ctx context.Context, idToken string) (*entity.Actor, error) {
	actor, err := uc.identity.VerifyToken(ctx, idToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	// Accounts made straight through the client SDK skip Signup's check.
	if !uc.policy.IsAllowedEmail(actor.Email) {
		return nil, errors.Forbidden("Only @"+uc.policy.AllowedDomain()+" accounts can use this platform", nil)
	}

	// The admin email is trusted only once its owner proved they hold it.
	wanted := entity.RoleUser
	if actor.EmailVerified {
		wanted = uc.policy.RoleForEmail(actor.Email)
	}

	user, err := uc.userRepo.GetByID(ctx, actor.ID)
	switch {
	case errors.Is(err, errors.CodeNotFound):
		user = &entity.User{
			ID:          actor.ID,
			Email:       strings.ToLower(actor.Email),
			DisplayName: actor.Name(),
			Role:        wanted,
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	// The designated admin keeps the role even if the record predates the setting.
	if wanted == entity.RoleAdmin && user.Role != entity.RoleAdmin {
		if err := uc.userRepo.SetRole(ctx, user.ID, entity.RoleAdmin); err != nil {
			return nil, err
		}
		user.Role = entity.RoleAdmin
	}

	actor.Role = user.Role
	if actor.DisplayName == "" {
		actor.DisplayName = user.DisplayName
	}
	return actor, nil
}

func (uc *AuthUseCase) ResendVerification(ctx context.Context, actor *entity.Actor) error {
	if actor.EmailVerified {
		return errors.BadRequest("Your email is already verified", nil)
	}
	if err := uc.sendVerification(ctx, actor.Email, actor.Name()); err != nil {
		return errors.Internal("Could not send the verification email", err)
	}
	return nil
}

// CheckVerification asks the identity provider for the current state rather
// than trusting the token, which only refreshes on re-login.
func (uc *AuthUseCase) CheckVerification(ctx context.Context, actor *entity.Actor) (bool, error) {
	if actor.EmailVerified {
		return true, nil
	}
	verified, err := uc.identity.IsEmailVerified(ctx, actor.ID)
	if err != nil {
		return false, errors.Internal("Could not check verification status", err)
	}
	return verified, nil
}

func (uc *AuthUseCase) Me(ctx context.Context, actor *entity.Actor) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, actor.ID)
}

func (uc *AuthUseCase) sendVerification(ctx context.Context, email, displayName string) error {
	link, err := uc.identity.EmailVerificationLink(ctx, email)
	if err != nil {
		return err
	}
	if uc.mailer == nil {
		logger.Info("No mailer configured; verification link for %s: %s", email, link)
		return nil
	}
	return uc.mailer.SendVerificationEmail(ctx, email, displayName, link)
}
