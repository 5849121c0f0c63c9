package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusconnect/campusconnect/internal/domain/content"
	"github.com/campusconnect/campusconnect/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT STORE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// Store implements store.DocumentStore on MongoDB. Engine ObjectIDs are
// rendered as hex strings at this boundary; nothing above it sees a
// primitive.ObjectID.
type Store struct {
	posts    *mongo.Collection
	comments *mongo.Collection
}

// NewStore creates a new document store.
func NewStore(conn *Connection) *Store {
	return &Store{
		posts:    conn.db.Collection(collPosts),
		comments: conn.db.Collection(collComments),
	}
}

// postDoc is the persisted shape of a post.
type postDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	AuthorID    string               `bson:"author_id"`
	GroupID     string               `bson:"group_id"`
	Type        content.PostType     `bson:"type"`
	Title       string               `bson:"title"`
	Body        string               `bson:"body"`
	Tags        []string             `bson:"tags"`
	Attachments []content.Attachment `bson:"attachments"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func (d *postDoc) toEntity() *content.Post {
	return &content.Post{
		ID:          d.ID.Hex(),
		AuthorID:    d.AuthorID,
		GroupID:     d.GroupID,
		Type:        d.Type,
		Title:       d.Title,
		Body:        d.Body,
		Tags:        d.Tags,
		Attachments: d.Attachments,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// commentDoc is the persisted shape of a comment.
type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PostID    primitive.ObjectID `bson:"post_id"`
	AuthorID  string             `bson:"author_id"`
	Body      string             `bson:"body"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *commentDoc) toEntity() *content.Comment {
	return &content.Comment{
		ID:        d.ID.Hex(),
		PostID:    d.PostID.Hex(),
		AuthorID:  d.AuthorID,
		Body:      d.Body,
		CreatedAt: d.CreatedAt,
	}
}

// parseID converts a hex string into an ObjectID. A malformed ID can never
// match a stored document, so it maps to ErrNotFound.
func parseID(domain, op, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, shared.NewDomainError(domain, op, shared.ErrNotFound, "no document with that id")
	}
	return oid, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Posts
// ─────────────────────────────────────────────────────────────────────────────

// InsertPost inserts a post and assigns the engine ID onto it.
func (s *Store) InsertPost(ctx context.Context, p *content.Post) error {
	doc := postDoc{
		AuthorID:    p.AuthorID,
		GroupID:     p.GroupID,
		Type:        p.Type,
		Title:       p.Title,
		Body:        p.Body,
		Tags:        p.Tags,
		Attachments: p.Attachments,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	res, err := s.posts.InsertOne(ctx, doc)
	if err != nil {
		return shared.WrapError("content", "InsertPost", shared.ErrUnavailable, "insert failed", err)
	}

	p.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// GetPost returns a post by ID, or shared.ErrNotFound.
func (s *Store) GetPost(ctx context.Context, id string) (*content.Post, error) {
	oid, err := parseID("content", "GetPost", id)
	if err != nil {
		return nil, err
	}

	var doc postDoc
	err = s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.NewDomainError("content", "GetPost", shared.ErrNotFound, "post not found")
		}
		return nil, shared.WrapError("content", "GetPost", shared.ErrUnavailable, "query failed", err)
	}

	return doc.toEntity(), nil
}

// ListGroupPosts returns a group's posts newest first.
func (s *Store) ListGroupPosts(ctx context.Context, groupID string, limit, offset int) ([]*content.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	return s.findPosts(ctx, "ListGroupPosts", bson.M{"group_id": groupID}, opts)
}

// ListUserPosts returns a user's posts across all groups, newest first.
func (s *Store) ListUserPosts(ctx context.Context, authorID string, limit int) ([]*content.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	return s.findPosts(ctx, "ListUserPosts", bson.M{"author_id": authorID}, opts)
}

// SearchPostsByTags returns posts carrying any of the given tags, newest
// first.
func (s *Store) SearchPostsByTags(ctx context.Context, tags []string, limit int) ([]*content.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	return s.findPosts(ctx, "SearchPostsByTags", bson.M{"tags": bson.M{"$in": tags}}, opts)
}

func (s *Store) findPosts(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]*content.Post, error) {
	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, shared.WrapError("content", op, shared.ErrUnavailable, "query failed", err)
	}
	defer cursor.Close(ctx)

	var posts []*content.Post
	for cursor.Next(ctx) {
		var doc postDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, shared.WrapError("content", op, shared.ErrUnavailable, "decode failed", err)
		}
		posts = append(posts, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, shared.WrapError("content", op, shared.ErrUnavailable, "cursor failed", err)
	}

	return posts, nil
}

// CountPosts counts the posts in a group.
func (s *Store) CountPosts(ctx context.Context, groupID string) (int64, error) {
	n, err := s.posts.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, shared.WrapError("content", "CountPosts", shared.ErrUnavailable, "count failed", err)
	}
	return n, nil
}

// DeletePost deletes a post by ID, or returns shared.ErrNotFound.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	oid, err := parseID("content", "DeletePost", id)
	if err != nil {
		return err
	}

	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return shared.WrapError("content", "DeletePost", shared.ErrUnavailable, "delete failed", err)
	}
	if res.DeletedCount == 0 {
		return shared.NewDomainError("content", "DeletePost", shared.ErrNotFound, "post not found")
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Comments
// ─────────────────────────────────────────────────────────────────────────────

// InsertComment inserts a comment and assigns the engine ID onto it.
func (s *Store) InsertComment(ctx context.Context, c *content.Comment) error {
	postOID, err := parseID("content", "InsertComment", c.PostID)
	if err != nil {
		return err
	}

	doc := commentDoc{
		PostID:    postOID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}

	res, err := s.comments.InsertOne(ctx, doc)
	if err != nil {
		return shared.WrapError("content", "InsertComment", shared.ErrUnavailable, "insert failed", err)
	}

	c.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// ListPostComments returns a post's comments oldest first.
func (s *Store) ListPostComments(ctx context.Context, postID string) ([]*content.Comment, error) {
	oid, err := parseID("content", "ListPostComments", postID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.comments.Find(ctx, bson.M{"post_id": oid}, opts)
	if err != nil {
		return nil, shared.WrapError("content", "ListPostComments", shared.ErrUnavailable, "query failed", err)
	}
	defer cursor.Close(ctx)

	var comments []*content.Comment
	for cursor.Next(ctx) {
		var doc commentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, shared.WrapError("content", "ListPostComments", shared.ErrUnavailable, "decode failed", err)
		}
		comments = append(comments, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, shared.WrapError("content", "ListPostComments", shared.ErrUnavailable, "cursor failed", err)
	}

	return comments, nil
}

// DeleteCommentsForPost deletes every comment on a post and returns how many
// were removed.
func (s *Store) DeleteCommentsForPost(ctx context.Context, postID string) (int64, error) {
	oid, err := parseID("content", "DeleteCommentsForPost", postID)
	if err != nil {
		return 0, err
	}

	res, err := s.comments.DeleteMany(ctx, bson.M{"post_id": oid})
	if err != nil {
		return 0, shared.WrapError("content", "DeleteCommentsForPost", shared.ErrUnavailable, "delete failed", err)
	}

	return res.DeletedCount, nil
}
