// Package mongo implements the document store, the system of record for
// posts and comments.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusconnect/campusconnect/config"
)

// Collection names.
const (
	collPosts    = "posts"
	collComments = "comments"
)

// Connection wraps a mongo client scoped to one database.
type Connection struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewConnection connects to MongoDB and verifies the connection with a ping.
func NewConnection(ctx context.Context, cfg config.MongoConfig) (*Connection, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: failed to connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: failed to ping: %w", err)
	}

	return &Connection{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Ping checks database reachability.
func (c *Connection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (c *Connection) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the query paths depend on. Index creation
// is idempotent, safe to run on every startup.
func (c *Connection) EnsureIndexes(ctx context.Context) error {
	postIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	if _, err := c.db.Collection(collPosts).Indexes().CreateMany(ctx, postIndexes); err != nil {
		return fmt.Errorf("mongo: failed to create post indexes: %w", err)
	}

	commentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}
	if _, err := c.db.Collection(collComments).Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return fmt.Errorf("mongo: failed to create comment indexes: %w", err)
	}

	return nil
}
