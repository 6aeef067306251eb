package firebase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
)

// DevIdentityProvider stands in for Firebase Auth when the server runs
// against the in-memory store. Tokens have the form
//
//	dev:<uid>:<email>[:verified]
//
// and are accepted without a signature.
type DevIdentityProvider struct {
	mu       sync.Mutex
	verified map[string]bool
	baseURL  string
}

func NewDevIdentityProvider(baseURL string) *DevIdentityProvider {
	return &DevIdentityProvider{
		verified: make(map[string]bool),
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

var _ service.IdentityProvider = (*DevIdentityProvider)(nil)

// DevToken builds a token DevIdentityProvider accepts.
func DevToken(uid, email string, verified bool) string {
	token := "dev:" + uid + ":" + email
	if verified {
		token += ":verified"
	}
	return token
}

func (d *DevIdentityProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	if len(password) < 6 {
		return "", fmt.Errorf("password must be at least 6 characters")
	}
	return uuid.New().String(), nil
}

func (d *DevIdentityProvider) VerifyToken(ctx context.Context, token string) (*entity.Actor, error) {
	parts := strings.Split(token, ":")
	if len(parts) < 3 || parts[0] != "dev" || parts[1] == "" {
		return nil, fmt.Errorf("malformed dev token")
	}

	actor := &entity.Actor{
		ID:    parts[1],
		Email: parts[2],
	}

	d.mu.Lock()
	actor.EmailVerified = d.verified[actor.ID] || (len(parts) > 3 && parts[3] == "verified")
	d.mu.Unlock()

	return actor, nil
}

func (d *DevIdentityProvider) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	return d.baseURL + "/dev/verify?email=" + url.QueryEscape(email), nil
}

func (d *DevIdentityProvider) IsEmailVerified(ctx context.Context, uid string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.verified[uid], nil
}

// MarkVerified simulates the user following the verification link.
func (d *DevIdentityProvider) MarkVerified(uid string) {
	d.mu.Lock()
	d.verified[uid] = true
	d.mu.Unlock()
}
