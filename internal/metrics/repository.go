package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/go-notification-api/internal/application/notification"
	"github.com/go-notification-api/internal/domain"
)

const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

// NotificationRepo records call counts and latency for every repository
// operation before handing the result back unchanged.
type NotificationRepo struct {
	next notification.Repository
	m    *Metrics
}

func InstrumentRepository(next notification.Repository, m *Metrics) *NotificationRepo {
	return &NotificationRepo{next: next, m: m}
}

func (r *NotificationRepo) Save(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error) {
	defer r.observe("save", time.Now())
	out, err := r.next.Save(ctx, rec)
	r.count("save", err)
	return out, err
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (domain.NotificationRecord, error) {
	defer r.observe("get", time.Now())
	out, err := r.next.Get(ctx, notificationID)
	r.count("get", err)
	return out, err
}

func (r *NotificationRepo) GetAll(ctx context.Context) ([]domain.NotificationRecord, error) {
	defer r.observe("get_all", time.Now())
	out, err := r.next.GetAll(ctx)
	r.count("get_all", err)
	return out, err
}

// Ping is not instrumented.
func (r *NotificationRepo) Ping(ctx context.Context) error {
	if p, ok := r.next.(notification.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (r *NotificationRepo) observe(op string, start time.Time) {
	r.m.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (r *NotificationRepo) count(op string, err error) {
	result := resultOK
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = resultNotFound
	default:
		result = resultError
	}
	r.m.StoreOps.WithLabelValues(op, result).Inc()
}
