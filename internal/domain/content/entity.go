// Package content defines Post and Comment entities. Content is
// authoritative in the document store; the fast store only references posts
// by ID in the hot-items ranking.
package content

import (
	"strings"
	"time"

	"github.com/campusconnect/campusconnect/internal/domain/shared"
)

// PostType categorizes a post.
type PostType string

// Valid post types.
const (
	TypeResource PostType = "resource"
	TypeQuestion PostType = "question"
	TypeNote     PostType = "note"
)

// Valid reports whether the post type is one of the known values.
func (t PostType) Valid() bool {
	switch t {
	case TypeResource, TypeQuestion, TypeNote:
		return true
	}
	return false
}

// Attachment is an open extension map. The orchestration layer never reads
// into it; it is stored and returned verbatim.
type Attachment map[string]any

// Post is the authoritative post record. ID is assigned by the document
// engine and opaque to callers.
type Post struct {
	ID          string       `json:"id" bson:"-"`
	AuthorID    string       `json:"author_id" bson:"author_id"`
	GroupID     string       `json:"group_id" bson:"group_id"`
	Type        PostType     `json:"type" bson:"type"`
	Title       string       `json:"title" bson:"title"`
	Body        string       `json:"body" bson:"body"`
	Tags        []string     `json:"tags" bson:"tags"`
	Attachments []Attachment `json:"attachments" bson:"attachments"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// NewPost validates input and builds a Post ready for insertion. The ID is
// left empty until the document store assigns one.
func NewPost(authorID, groupID string, postType PostType, title, body string, tags []string) (*Post, error) {
	title = strings.TrimSpace(title)

	if authorID == "" || groupID == "" {
		return nil, shared.NewDomainError("content", "NewPost", shared.ErrValidation, "author and group IDs are required")
	}
	if !postType.Valid() {
		return nil, shared.NewDomainError("content", "NewPost", shared.ErrValidation, "post type must be resource, question, or note")
	}
	if title == "" {
		return nil, shared.NewDomainError("content", "NewPost", shared.ErrValidation, "title is required")
	}

	now := time.Now().UTC()
	return &Post{
		AuthorID:    authorID,
		GroupID:     groupID,
		Type:        postType,
		Title:       title,
		Body:        body,
		Tags:        normalizeTags(tags),
		Attachments: []Attachment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Comment is the authoritative comment record. PostID is a foreign reference
// not enforced by schema.
type Comment struct {
	ID        string    `json:"id" bson:"-"`
	PostID    string    `json:"post_id" bson:"-"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewComment validates input and builds a Comment ready for insertion.
func NewComment(postID, authorID, body string) (*Comment, error) {
	if postID == "" || authorID == "" {
		return nil, shared.NewDomainError("content", "NewComment", shared.ErrValidation, "post and author IDs are required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("content", "NewComment", shared.ErrValidation, "body is required")
	}

	return &Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// normalizeTags trims, lowercases, and deduplicates tags preserving order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
