package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-notification-api/internal/pkg/clock"
	"github.com/go-notification-api/internal/pkg/id"
)

// State is the lifecycle position of a notification.
type State string

const (
	StateUnseen  State = "unseen"
	StateSeen    State = "seen"
	StateDeleted State = "deleted"
)

// Timestamps are kept in UTC at microsecond precision so they survive a
// round trip through every store unchanged.
const timestampPrecision = time.Microsecond

// Notification is the aggregate root. Fields are unexported so the only way
// to change state is through the lifecycle methods.
type Notification struct {
	id        string
	message   string
	seen      bool
	deleted   bool
	createdAt time.Time
	updatedAt time.Time
}

// NewNotification creates an unseen notification stamped with clk.
func NewNotification(clk clock.Clock, message string) (*Notification, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message must not be empty: %w", ErrInvalidInput)
	}
	now := stamp(clk.Now())
	return &Notification{
		id:        id.New(),
		message:   message,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (n *Notification) ID() string           { return n.id }
func (n *Notification) Message() string      { return n.message }
func (n *Notification) Seen() bool           { return n.seen }
func (n *Notification) Deleted() bool        { return n.deleted }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }
func (n *Notification) UpdatedAt() time.Time { return n.updatedAt }

func (n *Notification) State() State {
	switch {
	case n.deleted:
		return StateDeleted
	case n.seen:
		return StateSeen
	default:
		return StateUnseen
	}
}

// MarkSeen moves an unseen notification to seen. It reports whether anything
// changed; repeated calls leave updated_at untouched.
func (n *Notification) MarkSeen(clk clock.Clock) bool {
	if n.seen {
		return false
	}
	n.seen = true
	n.touch(clk)
	return true
}

// MarkDeleted flags the notification deleted, marking it seen on the way.
// Deleted is terminal, so a second call is a no-op.
func (n *Notification) MarkDeleted(clk clock.Clock) bool {
	if n.deleted {
		return false
	}
	n.seen = true
	n.deleted = true
	n.touch(clk)
	return true
}

// touch advances updated_at, never moving it backwards.
func (n *Notification) touch(clk clock.Clock) {
	now := stamp(clk.Now())
	if now.After(n.updatedAt) {
		n.updatedAt = now
	}
}

func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(timestampPrecision)
}
