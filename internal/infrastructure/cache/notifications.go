// Package cache provides a Redis read-through cache in front of a
// notification repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-notification-api/internal/application/notification"
	"github.com/go-notification-api/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "notification:"

// NotificationRepo serves Get from Redis when it can and falls back to the
// wrapped repository otherwise. Save writes the stored record to Redis; a
// read-through fill only uses SETNX, so a fill that read the store before a
// Save can never replace the newer entry. Redis failures are logged and never
// returned to the caller.
type NotificationRepo struct {
	next   notification.Repository
	client redis.Cmdable
	ttl    time.Duration
	log    *zap.Logger
}

func NewNotificationRepo(next notification.Repository, client redis.Cmdable, ttl time.Duration, log *zap.Logger) *NotificationRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationRepo{next: next, client: client, ttl: ttl, log: log}
}

func key(notificationID string) string { return keyPrefix + notificationID }

func (r *NotificationRepo) Save(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error) {
	stored, err := r.next.Save(ctx, rec)
	if err != nil {
		return domain.NotificationRecord{}, err
	}
	r.put(ctx, stored)
	return stored, nil
}

// put overwrites the entry for rec. If that fails the key is evicted so no
// older entry outlives the write.
func (r *NotificationRepo) put(ctx context.Context, rec domain.NotificationRecord) {
	payload, err := json.Marshal(rec)
	if err == nil {
		err = r.client.Set(ctx, key(rec.ID), payload, r.ttl).Err()
		if err == nil {
			return
		}
	}
	r.log.Warn("cache write failed", zap.String("notification_id", rec.ID), zap.Error(err))
	if err := r.client.Del(ctx, key(rec.ID)).Err(); err != nil {
		r.log.Warn("cache evict failed", zap.String("notification_id", rec.ID), zap.Error(err))
	}
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (domain.NotificationRecord, error) {
	if rec, ok := r.lookup(ctx, notificationID); ok {
		return rec, nil
	}

	rec, err := r.next.Get(ctx, notificationID)
	if err != nil {
		return domain.NotificationRecord{}, err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		r.log.Warn("cache encode failed", zap.String("notification_id", notificationID), zap.Error(err))
		return rec, nil
	}
	if err := r.client.SetNX(ctx, key(notificationID), payload, r.ttl).Err(); err != nil {
		r.log.Warn("cache fill failed", zap.String("notification_id", notificationID), zap.Error(err))
	}
	return rec, nil
}

// GetAll is not cached.
func (r *NotificationRepo) GetAll(ctx context.Context) ([]domain.NotificationRecord, error) {
	return r.next.GetAll(ctx)
}

// Ping reports on the wrapped store only; an unreachable cache does not make
// the service unready.
func (r *NotificationRepo) Ping(ctx context.Context) error {
	if p, ok := r.next.(notification.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (r *NotificationRepo) lookup(ctx context.Context, notificationID string) (domain.NotificationRecord, bool) {
	raw, err := r.client.Get(ctx, key(notificationID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache read failed", zap.String("notification_id", notificationID), zap.Error(err))
		}
		return domain.NotificationRecord{}, false
	}

	var rec domain.NotificationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.log.Warn("cache entry corrupt", zap.String("notification_id", notificationID), zap.Error(err))
		// Drop it, otherwise the SETNX fill could never replace it.
		if err := r.client.Del(ctx, key(notificationID)).Err(); err != nil {
			r.log.Warn("cache evict failed", zap.String("notification_id", notificationID), zap.Error(err))
		}
		return domain.NotificationRecord{}, false
	}
	return rec, true
}
