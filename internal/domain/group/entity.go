// Package group defines Group and Membership entities. Groups and
// memberships are authoritative in the relational store and mirrored to the
// graph store; the fast store caches an enriched group summary.
package group

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusconnect/campusconnect/internal/domain/shared"
)

// Membership roles.
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Group is the authoritative group record.
type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CourseCode string    `json:"course_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// New creates a Group with a fresh ID and creation timestamp.
func New(name, courseCode string) (*Group, error) {
	name = strings.TrimSpace(name)
	courseCode = strings.TrimSpace(strings.ToUpper(courseCode))

	if name == "" {
		return nil, shared.NewDomainError("group", "New", shared.ErrValidation, "name is required")
	}
	if courseCode == "" {
		return nil, shared.NewDomainError("group", "New", shared.ErrValidation, "course code is required")
	}

	return &Group{
		ID:         uuid.NewString(),
		Name:       name,
		CourseCode: courseCode,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// CoursePrefix returns the leading alphabetic part of the course code
// ("CS101" -> "CS"). Used by the recommendation engine to match related
// courses.
func (g *Group) CoursePrefix() string {
	for i, r := range g.CourseCode {
		if r >= '0' && r <= '9' {
			return g.CourseCode[:i]
		}
	}
	return g.CourseCode
}

// Membership links a user to a group with a role. The (UserID, GroupID) pair
// is unique; re-applying with a new role updates the role in place.
type Membership struct {
	UserID   string    `json:"user_id"`
	GroupID  string    `json:"group_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// NewMembership creates a Membership, defaulting the role to member.
func NewMembership(userID, groupID, role string) (*Membership, error) {
	if userID == "" || groupID == "" {
		return nil, shared.NewDomainError("group", "NewMembership", shared.ErrValidation, "user and group IDs are required")
	}
	if role == "" {
		role = RoleMember
	}

	return &Membership{
		UserID:   userID,
		GroupID:  groupID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}, nil
}

// UserGroup is a group as seen from a member's perspective.
type UserGroup struct {
	Group
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Member is a user as seen from a group's perspective.
type Member struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Summary is the cached projection of a group: the base record enriched with
// counts derived from the relational and document stores.
type Summary struct {
	Group
	MemberCount int   `json:"member_count"`
	PostCount   int64 `json:"post_count"`
}
