package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-notification-api/internal/domain"
)

// NotificationRepo keeps notification records in process memory. It backs the
// "memory" storage driver and the service-level tests.
type NotificationRepo struct {
	mu      sync.RWMutex
	records map[string]domain.NotificationRecord
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{records: make(map[string]domain.NotificationRecord)}
}

func (r *NotificationRepo) Save(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.NotificationRecord{}, domain.NewStorageError("save notification", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (domain.NotificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.NotificationRecord{}, domain.NewStorageError("get notification", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[notificationID]
	if !ok {
		return domain.NotificationRecord{}, fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
	}
	return rec, nil
}

func (r *NotificationRepo) GetAll(ctx context.Context) ([]domain.NotificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("list notifications", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.NotificationRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

// Ping always succeeds; it lets the readiness probe treat every driver alike.
func (r *NotificationRepo) Ping(context.Context) error { return nil }
