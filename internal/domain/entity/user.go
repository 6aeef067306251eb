package entity

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"display_name" firestore:"displayName"`
	Role        string `json:"role" firestore:"role"`
	// Disabled is advisory: UI and admin tooling flag the account, writes are not blocked.
	Disabled bool `json:"disabled" firestore:"disabled"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt,serverTimestamp"`
}

// Actor is the authenticated caller as reported by the identity provider,
// enriched with the role stored on the User record.
type Actor struct {
	ID            string
	Email         string
	DisplayName   string
	EmailVerified bool
	Role          string
}

// FallbackDisplayName derives a name from the local part of an email address,
// e.g. "rohit_be23@thapar.edu" -> "Rohit_be23".
func FallbackDisplayName(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	if local == "" {
		return ""
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

func (a Actor) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return FallbackDisplayName(a.Email)
}
