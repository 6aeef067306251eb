package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

func TestPolicy(t *testing.T) {
	p := NewPolicy(" Admin@Thapar.edu ", "@thapar.edu")

	assert.Equal(t, entity.RoleAdmin, p.RoleForEmail("admin@thapar.edu"))
	assert.Equal(t, entity.RoleUser, p.RoleForEmail("someone@thapar.edu"))

	assert.True(t, p.IsAllowedEmail("Student@THAPAR.edu"))
	assert.False(t, p.IsAllowedEmail("student@gmail.com"))
	assert.False(t, p.IsAllowedEmail("student@notthapar.edu"))
	assert.Equal(t, "thapar.edu", p.AllowedDomain())

	// Only the stored role counts, not the email.
	assert.False(t, p.IsAdmin(&entity.Actor{Email: "admin@thapar.edu", Role: entity.RoleUser}))
	assert.True(t, p.IsAdmin(&entity.Actor{Role: entity.RoleAdmin, EmailVerified: true}))
	assert.False(t, p.IsAdmin(&entity.Actor{Role: entity.RoleAdmin}))
	assert.False(t, p.IsAdmin(nil))
}

func TestPolicy_EmptyDomainAllowsAll(t *testing.T) {
	p := NewPolicy("", "")
	assert.True(t, p.IsAllowedEmail("anyone@example.com"))
	assert.Equal(t, entity.RoleUser, p.RoleForEmail(""))
}
