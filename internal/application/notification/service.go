package notification

import (
	"context"
	"fmt"

	"github.com/go-notification-api/internal/domain"
	"github.com/go-notification-api/internal/pkg/clock"
	"github.com/go-notification-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, message string) (*domain.Notification, error)
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	List(ctx context.Context) ([]*domain.Notification, error)
	MarkAsSeen(ctx context.Context, notificationID string) (bool, error)
	MarkAsDeleted(ctx context.Context, notificationID string) (bool, error)
}

type service struct {
	repo  Repository
	clock clock.Clock
}

// NewService returns the notification service. A nil clk uses the wall clock.
func NewService(repo Repository, clk clock.Clock) Service {
	if clk == nil {
		clk = clock.System()
	}
	return &service{repo: repo, clock: clk}
}

func (s *service) Create(ctx context.Context, message string) (*domain.Notification, error) {
	n, err := domain.NewNotification(s.clock, message)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, n)
}

func (s *service) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	nid, err := parseID(notificationID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, nid)
}

func (s *service) List(ctx context.Context) ([]*domain.Notification, error) {
	recs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Notification, 0, len(recs))
	for _, rec := range recs {
		n, err := domain.NotificationFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *service) MarkAsSeen(ctx context.Context, notificationID string) (bool, error) {
	n, err := s.transition(ctx, notificationID, (*domain.Notification).MarkSeen)
	if err != nil {
		return false, err
	}
	return n.Seen(), nil
}

func (s *service) MarkAsDeleted(ctx context.Context, notificationID string) (bool, error) {
	n, err := s.transition(ctx, notificationID, (*domain.Notification).MarkDeleted)
	if err != nil {
		return false, err
	}
	return n.Deleted(), nil
}

// transition runs a single fetch/mutate/persist cycle. The write is skipped
// when apply reports no change, so repeated calls are pure reads.
func (s *service) transition(ctx context.Context, notificationID string, apply func(*domain.Notification, clock.Clock) bool) (*domain.Notification, error) {
	nid, err := parseID(notificationID)
	if err != nil {
		return nil, err
	}
	n, err := s.load(ctx, nid)
	if err != nil {
		return nil, err
	}
	if !apply(n, s.clock) {
		return n, nil
	}
	return s.save(ctx, n)
}

func (s *service) load(ctx context.Context, nid string) (*domain.Notification, error) {
	rec, err := s.repo.Get(ctx, nid)
	if err != nil {
		return nil, err
	}
	return domain.NotificationFromRecord(rec)
}

func (s *service) save(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	stored, err := s.repo.Save(ctx, n.Record())
	if err != nil {
		return nil, err
	}
	return domain.NotificationFromRecord(stored)
}

func parseID(raw string) (string, error) {
	nid, err := id.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	return nid, nil
}
