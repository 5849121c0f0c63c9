package shared_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusconnect/campusconnect/internal/domain/shared"
)

func TestDomainErrorMatchesKind(t *testing.T) {
	err := shared.NewDomainError("user", "GetUser", shared.ErrNotFound, "user not found")

	assert.True(t, shared.IsNotFound(err))
	assert.False(t, shared.IsConflict(err))
	assert.Equal(t, "user.GetUser: user not found", err.Error())
}

func TestDomainErrorWrapsUnderlying(t *testing.T) {
	cause := errors.New("connection refused")
	err := shared.WrapError("graph", "AreFriends", shared.ErrUnavailable, "graph store unreachable", cause)

	assert.True(t, shared.IsUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	wrapped := shared.WrapError("content", "DeletePost", shared.ErrUnavailable, "delete failed", cause)
	assert.Equal(t, cause, errors.Unwrap(wrapped))

	bare := shared.NewDomainError("content", "GetPost", shared.ErrNotFound, "post not found")
	assert.Equal(t, shared.ErrNotFound, errors.Unwrap(bare))
}
