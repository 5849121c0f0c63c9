package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/domain/user"
)

func TestNewUserNormalizesEmail(t *testing.T) {
	u, err := user.New("  Amy.Lee@Example.COM ", "  Amy Lee ")
	require.NoError(t, err)

	assert.Equal(t, "amy.lee@example.com", u.Email)
	assert.Equal(t, "Amy Lee", u.FullName)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestNewUserValidation(t *testing.T) {
	_, err := user.New("not-an-email", "Amy")
	assert.True(t, shared.IsValidation(err))

	_, err = user.New("amy@example.com", "   ")
	assert.True(t, shared.IsValidation(err))
}
