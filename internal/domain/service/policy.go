package service

import (
	"strings"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

// Policy centralises authorization decisions. The designated administrator
// email only seeds the admin role; every check afterwards reads the role.
type Policy struct {
	adminEmail    string
	allowedDomain string
}

func NewPolicy(adminEmail, allowedDomain string) *Policy {
	return &Policy{
		adminEmail:    strings.ToLower(strings.TrimSpace(adminEmail)),
		allowedDomain: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(allowedDomain), "@")),
	}
}

// IsAdmin holds only for a verified account carrying the admin role.
func (p *Policy) IsAdmin(actor *entity.Actor) bool {
	return actor != nil && actor.Role == entity.RoleAdmin && actor.EmailVerified
}

// RoleForEmail is the role a freshly seen account receives.
func (p *Policy) RoleForEmail(email string) string {
	if p.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), p.adminEmail) {
		return entity.RoleAdmin
	}
	return entity.RoleUser
}

// IsAllowedEmail restricts signup to the campus domain. An empty domain allows everyone.
func (p *Policy) IsAllowedEmail(email string) bool {
	if p.allowedDomain == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), "@"+p.allowedDomain)
}

func (p *Policy) AllowedDomain() string {
	return p.allowedDomain
}
