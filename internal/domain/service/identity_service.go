package service

import (
	"context"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

// IdentityProvider is the hosted authentication collaborator.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	// VerifyToken checks an ID token and returns the caller without a role.
	VerifyToken(ctx context.Context, idToken string) (*entity.Actor, error)
	EmailVerificationLink(ctx context.Context, email string) (string, error)
	IsEmailVerified(ctx context.Context, uid string) (bool, error)
}

// VerificationMailer delivers email verification links.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, toEmail, displayName, link string) error
}
