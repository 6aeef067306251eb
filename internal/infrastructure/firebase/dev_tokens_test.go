package firebase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevIdentityProvider(t *testing.T) {
	ctx := context.Background()
	d := NewDevIdentityProvider("http://localhost:8080/")

	actor, err := d.VerifyToken(ctx, DevToken("u1", "u1@thapar.edu", false))
	require.NoError(t, err)
	assert.Equal(t, "u1", actor.ID)
	assert.Equal(t, "u1@thapar.edu", actor.Email)
	assert.False(t, actor.EmailVerified)

	actor, err = d.VerifyToken(ctx, DevToken("u2", "u2@thapar.edu", true))
	require.NoError(t, err)
	assert.True(t, actor.EmailVerified)

	for _, bad := range []string{"", "Bearer xyz", "dev::a@b.c", "firebase:u1:a@b.c"} {
		_, err := d.VerifyToken(ctx, bad)
		assert.Error(t, err, bad)
	}

	d.MarkVerified("u1")
	verified, err := d.IsEmailVerified(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, verified)

	link, err := d.EmailVerificationLink(ctx, "u1@thapar.edu")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/dev/verify?email=u1%40thapar.edu", link)

	_, err = d.CreateUser(ctx, "u3@thapar.edu", "123", "")
	assert.Error(t, err)
	uid, err := d.CreateUser(ctx, "u3@thapar.edu", "secret1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, uid)
}
