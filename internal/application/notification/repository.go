package notification

import (
	"context"

	"github.com/go-notification-api/internal/domain"
)

// Repository is the persistence port the service depends on. Implementations
// live under internal/infrastructure.
//
// Get returns an error matching domain.ErrNotFound when no record has the id.
// Driver failures should match domain.ErrStorage.
type Repository interface {
	// Save upserts rec by id and returns the stored record.
	Save(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error)
	Get(ctx context.Context, id string) (domain.NotificationRecord, error)
	// GetAll returns every record in no particular order.
	GetAll(ctx context.Context) ([]domain.NotificationRecord, error)
}

// Pinger is implemented by repositories that can report whether their
// backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
