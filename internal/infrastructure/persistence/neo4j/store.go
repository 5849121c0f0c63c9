package neo4j

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/campusconnect/campusconnect/internal/domain/shared"
	"github.com/campusconnect/campusconnect/internal/store"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRAPH STORE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// Store implements store.GraphStore on Neo4j. All node and edge writes are
// MERGE-based so replays converge instead of duplicating.
type Store struct {
	driver neo4j.DriverWithContext
}

// NewStore creates a new graph store.
func NewStore(driver neo4j.DriverWithContext) *Store {
	return &Store{driver: driver}
}

// Close closes the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *Store) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

func (s *Store) readSession(ctx context.Context) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}

// ─────────────────────────────────────────────────────────────────────────────
// Node and edge upserts
// ─────────────────────────────────────────────────────────────────────────────

// UpsertUserNode mirrors a user as a node. Idempotent.
func (s *Store) UpsertUserNode(ctx context.Context, id, email, fullName string) error {
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (u:User {id: $id})
		SET u.email = $email, u.full_name = $fullName
	`

	_, err := session.Run(ctx, query, map[string]any{
		"id":       id,
		"email":    email,
		"fullName": fullName,
	})
	if err != nil {
		return shared.WrapError("graph", "UpsertUserNode", shared.ErrUnavailable, "merge failed", err)
	}

	return nil
}

// UpsertGroupNode mirrors a group as a node. Idempotent.
func (s *Store) UpsertGroupNode(ctx context.Context, id, name, courseCode string) error {
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (g:Group {id: $id})
		SET g.name = $name, g.course_code = $courseCode
	`

	_, err := session.Run(ctx, query, map[string]any{
		"id":         id,
		"name":       name,
		"courseCode": courseCode,
	})
	if err != nil {
		return shared.WrapError("graph", "UpsertGroupNode", shared.ErrUnavailable, "merge failed", err)
	}

	return nil
}

// CreateFriendshipEdge creates FRIEND edges in both directions so the
// relation stays symmetric. Idempotent.
func (s *Store) CreateFriendshipEdge(ctx context.Context, userID1, userID2 string) error {
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u1:User {id: $id1})
		MATCH (u2:User {id: $id2})
		MERGE (u1)-[:FRIEND]->(u2)
		MERGE (u2)-[:FRIEND]->(u1)
	`

	_, err := session.Run(ctx, query, map[string]any{
		"id1": userID1,
		"id2": userID2,
	})
	if err != nil {
		return shared.WrapError("graph", "CreateFriendshipEdge", shared.ErrUnavailable, "merge failed", err)
	}

	return nil
}

// UpsertMembershipEdge records that a user belongs to a group. Re-applying
// with a new role updates the role in place.
func (s *Store) UpsertMembershipEdge(ctx context.Context, userID, groupID, role string) error {
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userID})
		MATCH (g:Group {id: $groupID})
		MERGE (u)-[m:MEMBER_OF]->(g)
		SET m.role = $role
	`

	_, err := session.Run(ctx, query, map[string]any{
		"userID":  userID,
		"groupID": groupID,
		"role":    role,
	})
	if err != nil {
		return shared.WrapError("graph", "UpsertMembershipEdge", shared.ErrUnavailable, "merge failed", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads and traversals
// ─────────────────────────────────────────────────────────────────────────────

// AreFriends reports whether a FRIEND edge exists between the two users.
func (s *Store) AreFriends(ctx context.Context, userID1, userID2 string) (bool, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (:User {id: $id1})-[:FRIEND]->(:User {id: $id2})
		RETURN count(*) > 0 AS friends
	`

	result, err := session.Run(ctx, query, map[string]any{
		"id1": userID1,
		"id2": userID2,
	})
	if err != nil {
		return false, shared.WrapError("graph", "AreFriends", shared.ErrUnavailable, "query failed", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return false, shared.WrapError("graph", "AreFriends", shared.ErrUnavailable, "no result", err)
	}

	return getBool(record, "friends"), nil
}

// Degree returns the user's friend count.
func (s *Store) Degree(ctx context.Context, userID string) (int, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (:User {id: $id})-[:FRIEND]->(f:User)
		RETURN count(DISTINCT f) AS degree
	`

	result, err := session.Run(ctx, query, map[string]any{"id": userID})
	if err != nil {
		return 0, shared.WrapError("graph", "Degree", shared.ErrUnavailable, "query failed", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return 0, shared.WrapError("graph", "Degree", shared.ErrUnavailable, "no result", err)
	}

	return getInt(record, "degree"), nil
}

// FriendOfFriend returns users two hops away, excluding the user and existing
// friends, ordered by the number of distinct mutual friends.
func (s *Store) FriendOfFriend(ctx context.Context, userID string, limit int) ([]store.FriendSuggestion, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (me:User {id: $id})-[:FRIEND]->(friend:User)-[:FRIEND]->(fof:User)
		WHERE fof.id <> $id AND NOT (me)-[:FRIEND]->(fof)
		RETURN fof.id AS user_id,
		       fof.full_name AS full_name,
		       fof.email AS email,
		       count(DISTINCT friend) AS mutual_count
		ORDER BY mutual_count DESC, full_name ASC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]any{
		"id":    userID,
		"limit": limit,
	})
	if err != nil {
		return nil, shared.WrapError("graph", "FriendOfFriend", shared.ErrUnavailable, "query failed", err)
	}

	var suggestions []store.FriendSuggestion
	for result.Next(ctx) {
		record := result.Record()
		suggestions = append(suggestions, store.FriendSuggestion{
			UserID:      getString(record, "user_id"),
			FullName:    getString(record, "full_name"),
			Email:       getString(record, "email"),
			MutualCount: getInt(record, "mutual_count"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, shared.WrapError("graph", "FriendOfFriend", shared.ErrUnavailable, "result failed", err)
	}

	return suggestions, nil
}

// GroupsViaFriends returns groups the user's friends belong to that the user
// does not, ordered by how many friends are members.
func (s *Store) GroupsViaFriends(ctx context.Context, userID string, limit int) ([]store.GroupSuggestion, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (me:User {id: $id})-[:FRIEND]->(friend:User)-[:MEMBER_OF]->(g:Group)
		WHERE NOT (me)-[:MEMBER_OF]->(g)
		RETURN g.id AS group_id,
		       g.name AS name,
		       g.course_code AS course_code,
		       count(DISTINCT friend) AS friend_count
		ORDER BY friend_count DESC, name ASC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]any{
		"id":    userID,
		"limit": limit,
	})
	if err != nil {
		return nil, shared.WrapError("graph", "GroupsViaFriends", shared.ErrUnavailable, "query failed", err)
	}

	var suggestions []store.GroupSuggestion
	for result.Next(ctx) {
		record := result.Record()
		suggestions = append(suggestions, store.GroupSuggestion{
			GroupID:     getString(record, "group_id"),
			Name:        getString(record, "name"),
			CourseCode:  getString(record, "course_code"),
			FriendCount: getInt(record, "friend_count"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, shared.WrapError("graph", "GroupsViaFriends", shared.ErrUnavailable, "result failed", err)
	}

	return suggestions, nil
}

// CommonGroups returns the groups both users belong to.
func (s *Store) CommonGroups(ctx context.Context, userID1, userID2 string) ([]store.GroupRef, error) {
	session := s.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (:User {id: $id1})-[:MEMBER_OF]->(g:Group)<-[:MEMBER_OF]-(:User {id: $id2})
		RETURN g.id AS group_id, g.name AS name, g.course_code AS course_code
		ORDER BY name ASC
	`

	result, err := session.Run(ctx, query, map[string]any{
		"id1": userID1,
		"id2": userID2,
	})
	if err != nil {
		return nil, shared.WrapError("graph", "CommonGroups", shared.ErrUnavailable, "query failed", err)
	}

	var groups []store.GroupRef
	for result.Next(ctx) {
		record := result.Record()
		groups = append(groups, store.GroupRef{
			GroupID:    getString(record, "group_id"),
			Name:       getString(record, "name"),
			CourseCode: getString(record, "course_code"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, shared.WrapError("graph", "CommonGroups", shared.ErrUnavailable, "result failed", err)
	}

	return groups, nil
}
