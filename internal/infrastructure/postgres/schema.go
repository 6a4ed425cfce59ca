package postgres

import (
	"context"
	"fmt"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	message    TEXT NOT NULL,
	seen       BOOLEAN NOT NULL DEFAULT FALSE,
	deleted    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT notifications_deleted_implies_seen CHECK (NOT deleted OR seen),
	CONSTRAINT notifications_updated_after_created CHECK (updated_at >= created_at)
)`

// EnsureSchema creates the notifications table if it is missing. It does not
// alter an existing table.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}
