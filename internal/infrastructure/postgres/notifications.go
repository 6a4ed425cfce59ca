package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-notification-api/internal/domain"
	"github.com/jackc/pgx/v5"
)

const (
	upsertNotificationSQL = `
		INSERT INTO notifications (id, message, seen, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET seen = notifications.seen OR EXCLUDED.seen,
			deleted = notifications.deleted OR EXCLUDED.deleted,
			updated_at = GREATEST(notifications.updated_at, EXCLUDED.updated_at)
		RETURNING id, message, seen, deleted, created_at, updated_at`

	getNotificationSQL = `
		SELECT id, message, seen, deleted, created_at, updated_at
		FROM notifications
		WHERE id = $1`

	listNotificationsSQL = `
		SELECT id, message, seen, deleted, created_at, updated_at
		FROM notifications`
)

// NotificationRepo stores notifications in PostgreSQL.
type NotificationRepo struct {
	db DB
}

func NewNotificationRepo(db DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Save inserts rec or, when the id exists, updates its mutable columns.
// message and created_at are never rewritten, and seen, deleted and
// updated_at only move forward, so a write built from a stale read cannot
// undo a transition.
func (r *NotificationRepo) Save(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error) {
	row := r.db.QueryRow(ctx, upsertNotificationSQL,
		rec.ID, rec.Message, rec.Seen, rec.Deleted, rec.CreatedAt, rec.UpdatedAt)
	stored, err := scanRecord(row)
	if err != nil {
		return domain.NotificationRecord{}, domain.NewStorageError("save notification", err)
	}
	return stored, nil
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (domain.NotificationRecord, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx, getNotificationSQL, notificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotificationRecord{}, fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
		}
		return domain.NotificationRecord{}, domain.NewStorageError("get notification", err)
	}
	return rec, nil
}

func (r *NotificationRepo) GetAll(ctx context.Context) ([]domain.NotificationRecord, error) {
	rows, err := r.db.Query(ctx, listNotificationsSQL)
	if err != nil {
		return nil, domain.NewStorageError("list notifications", err)
	}
	defer rows.Close()

	recs := []domain.NotificationRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, domain.NewStorageError("scan notification", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate notifications", err)
	}
	return recs, nil
}

func (r *NotificationRepo) Ping(ctx context.Context) error {
	return domain.NewStorageError("ping database", r.db.Ping(ctx))
}

func scanRecord(row pgx.Row) (domain.NotificationRecord, error) {
	var rec domain.NotificationRecord
	if err := row.Scan(&rec.ID, &rec.Message, &rec.Seen, &rec.Deleted, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return domain.NotificationRecord{}, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
