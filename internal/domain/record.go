package domain

import (
	"errors"
	"time"
)

// NotificationRecord is the flat shape persisted by the stores and rendered
// by the REST layer.
type NotificationRecord struct {
	ID        string    `json:"id" dynamodbav:"id" db:"id"`
	Message   string    `json:"message" dynamodbav:"message" db:"message"`
	Seen      bool      `json:"seen" dynamodbav:"seen" db:"seen"`
	Deleted   bool      `json:"deleted" dynamodbav:"deleted" db:"deleted"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at" db:"updated_at"`
}

var (
	errRecordMissingID     = errors.New("record has no id")
	errRecordDeletedUnseen = errors.New("record is deleted but not seen")
	errRecordTimestamps    = errors.New("record updated_at precedes created_at")
)

// Record copies n into its persistence shape.
func (n *Notification) Record() NotificationRecord {
	return NotificationRecord{
		ID:        n.id,
		Message:   n.message,
		Seen:      n.seen,
		Deleted:   n.deleted,
		CreatedAt: n.createdAt,
		UpdatedAt: n.updatedAt,
	}
}

// NotificationFromRecord rebuilds a Notification from a stored record.
// Records that break the lifecycle invariants are reported as storage errors:
// they can only come from a corrupted or foreign write.
func NotificationFromRecord(rec NotificationRecord) (*Notification, error) {
	var err error
	switch {
	case rec.ID == "":
		err = errRecordMissingID
	case rec.Deleted && !rec.Seen:
		err = errRecordDeletedUnseen
	case rec.UpdatedAt.Before(rec.CreatedAt):
		err = errRecordTimestamps
	}
	if err != nil {
		return nil, NewStorageError("decode notification "+rec.ID, err)
	}
	return &Notification{
		id:        rec.ID,
		message:   rec.Message,
		seen:      rec.Seen,
		deleted:   rec.Deleted,
		createdAt: stamp(rec.CreatedAt),
		updatedAt: stamp(rec.UpdatedAt),
	}, nil
}
