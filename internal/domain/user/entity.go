// Package user defines the User entity. The authoritative copy lives in the
// relational store; the graph store mirrors it as a node and the fast store
// holds a TTL-bound cached projection.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusconnect/campusconnect/internal/domain/shared"
)

// User is the authoritative user record.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a User with a fresh ID and creation timestamp.
func New(email, fullName string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	fullName = strings.TrimSpace(fullName)

	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("user", "New", shared.ErrValidation, "email is invalid")
	}
	if fullName == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrValidation, "full name is required")
	}

	return &User{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  fullName,
		CreatedAt: time.Now().UTC(),
	}, nil
}
