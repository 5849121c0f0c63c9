package postgres

import (
	"context"
	"fmt"
)

// schema holds the bootstrap DDL. Statements are idempotent so Migrate can
// run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		full_name  TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		course_code TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS group_memberships (
		user_id   UUID NOT NULL REFERENCES users(id),
		group_id  UUID NOT NULL REFERENCES groups(id),
		role      TEXT NOT NULL DEFAULT 'member',
		joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, group_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_memberships_group ON group_memberships (group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_groups_course_code ON groups (course_code)`,
}

// Migrate applies the bootstrap schema.
func (c *Connection) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migration failed: %w", err)
		}
	}
	return nil
}
