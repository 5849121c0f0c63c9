// Package activity defines the ephemeral per-group activity record. Activity
// lives only in the fast store, bounded to the most recent entries per group;
// losing it never affects authoritative data.
package activity

import "time"

// Activity types.
const (
	TypeJoin = "join"
	TypePost = "post"
)

// Activity is a single append-only record in a group's recent stream.
type Activity struct {
	Type      string    `json:"type"`
	ActorID   string    `json:"actor_id"`
	GroupID   string    `json:"group_id"`
	PostID    string    `json:"post_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Join builds a join activity record.
func Join(userID, groupID string) Activity {
	return Activity{
		Type:      TypeJoin,
		ActorID:   userID,
		GroupID:   groupID,
		Timestamp: time.Now().UTC(),
	}
}

// PostCreated builds a post activity record.
func PostCreated(postID, authorID, groupID, title string) Activity {
	return Activity{
		Type:      TypePost,
		ActorID:   authorID,
		GroupID:   groupID,
		PostID:    postID,
		Title:     title,
		Timestamp: time.Now().UTC(),
	}
}
