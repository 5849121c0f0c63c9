package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/campusconnect/campusconnect/internal/domain/group"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// RELATIONAL STORE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// Store implements store.RelationalStore on PostgreSQL.
type Store struct {
	conn *Connection
}

// NewStore creates a new relational store.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────────────────

// InsertUser inserts a user. Returns shared.ErrConflict when the email is
// already taken.
func (s *Store) InsertUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, full_name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.conn.Exec(ctx, query, u.ID, u.Email, u.FullName, u.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("user", "InsertUser", shared.ErrConflict, "email already registered", err)
		}
		return shared.WrapError("user", "InsertUser", shared.ErrUnavailable, "insert failed", err)
	}

	return nil
}

// GetUser returns a user by ID, or shared.ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT id, email, full_name, created_at FROM users WHERE id = $1`
	return s.scanUser(s.conn.QueryRow(ctx, query, id), "GetUser")
}

// GetUserByEmail returns a user by email, or shared.ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, email, full_name, created_at FROM users WHERE email = $1`
	return s.scanUser(s.conn.QueryRow(ctx, query, email), "GetUserByEmail")
}

func (s *Store) scanUser(row pgx.Row, op string) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NewDomainError("user", op, shared.ErrNotFound, "user not found")
		}
		return nil, shared.WrapError("user", op, shared.ErrUnavailable, "query failed", err)
	}
	return &u, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Groups
// ─────────────────────────────────────────────────────────────────────────────

// InsertGroup inserts a group.
func (s *Store) InsertGroup(ctx context.Context, g *group.Group) error {
	query := `
		INSERT INTO groups (id, name, course_code, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.conn.Exec(ctx, query, g.ID, g.Name, g.CourseCode, g.CreatedAt)
	if err != nil {
		return shared.WrapError("group", "InsertGroup", shared.ErrUnavailable, "insert failed", err)
	}

	return nil
}

// GetGroup returns a group by ID, or shared.ErrNotFound.
func (s *Store) GetGroup(ctx context.Context, id string) (*group.Group, error) {
	query := `SELECT id, name, course_code, created_at FROM groups WHERE id = $1`

	var g group.Group
	err := s.conn.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.CourseCode, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.NewDomainError("group", "GetGroup", shared.ErrNotFound, "group not found")
		}
		return nil, shared.WrapError("group", "GetGroup", shared.ErrUnavailable, "query failed", err)
	}
	return &g, nil
}

// ListGroups returns the newest groups up to limit.
func (s *Store) ListGroups(ctx context.Context, limit int) ([]*group.Group, error) {
	query := `
		SELECT id, name, course_code, created_at
		FROM groups
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, shared.WrapError("group", "ListGroups", shared.ErrUnavailable, "query failed", err)
	}
	defer rows.Close()

	groups := make([]*group.Group, 0, limit)
	for rows.Next() {
		var g group.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CourseCode, &g.CreatedAt); err != nil {
			return nil, shared.WrapError("group", "ListGroups", shared.ErrUnavailable, "scan failed", err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("group", "ListGroups", shared.ErrUnavailable, "rows failed", err)
	}

	return groups, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Memberships
// ─────────────────────────────────────────────────────────────────────────────

// UpsertMembership inserts a membership or, when the (user, group) pair
// already exists, updates the role in place. Idempotent.
func (s *Store) UpsertMembership(ctx context.Context, m *group.Membership) error {
	query := `
		INSERT INTO group_memberships (user_id, group_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, group_id) DO UPDATE SET role = $3
		RETURNING joined_at
	`

	err := s.conn.QueryRow(ctx, query, m.UserID, m.GroupID, m.Role, m.JoinedAt).Scan(&m.JoinedAt)
	if err != nil {
		return shared.WrapError("group", "UpsertMembership", shared.ErrUnavailable, "upsert failed", err)
	}

	return nil
}

// ListUserGroups returns the groups a user belongs to, most recently joined
// first.
func (s *Store) ListUserGroups(ctx context.Context, userID string) ([]*group.UserGroup, error) {
	query := `
		SELECT g.id, g.name, g.course_code, g.created_at, gm.role, gm.joined_at
		FROM groups g
		JOIN group_memberships gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY gm.joined_at DESC
	`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, shared.WrapError("group", "ListUserGroups", shared.ErrUnavailable, "query failed", err)
	}
	defer rows.Close()

	var groups []*group.UserGroup
	for rows.Next() {
		var ug group.UserGroup
		if err := rows.Scan(&ug.ID, &ug.Name, &ug.CourseCode, &ug.CreatedAt, &ug.Role, &ug.JoinedAt); err != nil {
			return nil, shared.WrapError("group", "ListUserGroups", shared.ErrUnavailable, "scan failed", err)
		}
		groups = append(groups, &ug)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("group", "ListUserGroups", shared.ErrUnavailable, "rows failed", err)
	}

	return groups, nil
}

// ListGroupMembers returns the members of a group, earliest joiner first.
func (s *Store) ListGroupMembers(ctx context.Context, groupID string) ([]*group.Member, error) {
	query := `
		SELECT u.id, u.email, u.full_name, gm.role, gm.joined_at
		FROM users u
		JOIN group_memberships gm ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at ASC
	`

	rows, err := s.conn.Query(ctx, query, groupID)
	if err != nil {
		return nil, shared.WrapError("group", "ListGroupMembers", shared.ErrUnavailable, "query failed", err)
	}
	defer rows.Close()

	var members []*group.Member
	for rows.Next() {
		var m group.Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.FullName, &m.Role, &m.JoinedAt); err != nil {
			return nil, shared.WrapError("group", "ListGroupMembers", shared.ErrUnavailable, "scan failed", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("group", "ListGroupMembers", shared.ErrUnavailable, "rows failed", err)
	}

	return members, nil
}

// IsMember reports whether the user belongs to the group. Always reads the
// authoritative table; membership gates authorization decisions and must
// never consult a cache.
func (s *Store) IsMember(ctx context.Context, userID, groupID string) (bool, error) {
	query := `SELECT 1 FROM group_memberships WHERE user_id = $1 AND group_id = $2`

	var one int
	err := s.conn.QueryRow(ctx, query, userID, groupID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, shared.WrapError("group", "IsMember", shared.ErrUnavailable, "query failed", err)
	}

	return true, nil
}
