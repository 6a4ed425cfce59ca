package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-notification-api/internal/domain"
	"github.com/go-notification-api/internal/infrastructure/memory"
	"github.com/go-notification-api/internal/pkg/clock"
	"github.com/go-notification-api/internal/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Save(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error) {
	args := m.Called(ctx, rec)
	if fn, ok := args.Get(0).(func(context.Context, domain.NotificationRecord) domain.NotificationRecord); ok {
		return fn(ctx, rec), args.Error(1)
	}
	return args.Get(0).(domain.NotificationRecord), args.Error(1)
}

func (m *mockRepo) Get(ctx context.Context, notificationID string) (domain.NotificationRecord, error) {
	args := m.Called(ctx, notificationID)
	return args.Get(0).(domain.NotificationRecord), args.Error(1)
}

func (m *mockRepo) GetAll(ctx context.Context) ([]domain.NotificationRecord, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]domain.NotificationRecord)
	return recs, args.Error(1)
}

// --- helpers ---

var t0 = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

// tickingClock advances one second per call so every mutation gets a
// distinct timestamp.
func tickingClock() clock.Clock {
	next := t0
	return clock.Func(func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	})
}

func storedRecord(seen, deleted bool) domain.NotificationRecord {
	return domain.NotificationRecord{
		ID:        id.New(),
		Message:   "stored",
		Seen:      seen,
		Deleted:   deleted,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

var errBoom = domain.NewStorageError("test op", errors.New("boom"))

// --- Create ---

func TestCreate_PersistsUnseenNotification(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Save", mock.Anything, mock.MatchedBy(func(rec domain.NotificationRecord) bool {
		return rec.Message == "hello" && !rec.Seen && !rec.Deleted && rec.CreatedAt.Equal(rec.UpdatedAt)
	})).Return(func(_ context.Context, rec domain.NotificationRecord) domain.NotificationRecord { return rec }, nil)

	n, err := NewService(repo, clock.Fixed(t0)).Create(context.Background(), "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID())
	assert.Equal(t, "hello", n.Message())
	assert.False(t, n.Seen())
	assert.False(t, n.Deleted())
	assert.Equal(t, n.CreatedAt(), n.UpdatedAt())
	repo.AssertExpectations(t)
}

func TestCreate_ReturnsStoreNormalisedRecord(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Save", mock.Anything, mock.Anything).Return(func(_ context.Context, rec domain.NotificationRecord) domain.NotificationRecord {
		rec.Message = "normalised"
		return rec
	}, nil)

	n, err := NewService(repo, clock.Fixed(t0)).Create(context.Background(), "raw")
	require.NoError(t, err)
	assert.Equal(t, "normalised", n.Message())
}

func TestCreate_EmptyMessage_NoRepositoryCall(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, clock.Fixed(t0))

	for _, msg := range []string{"", "  "} {
		n, err := svc.Create(context.Background(), msg)
		assert.Nil(t, n)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreate_StorageErrorPropagates(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Save", mock.Anything, mock.Anything).Return(domain.NotificationRecord{}, errBoom)

	_, err := NewService(repo, clock.Fixed(t0)).Create(context.Background(), "hello")
	assert.Same(t, errBoom, err)
}

// --- Get ---

func TestGet_Found(t *testing.T) {
	rec := storedRecord(true, false)
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, rec.ID).Return(rec, nil)

	n, err := NewService(repo, nil).Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, n.ID())
	assert.Equal(t, "stored", n.Message())
	assert.True(t, n.Seen())
	assert.False(t, n.Deleted())
}

func TestGet_AcceptsLowerCaseID(t *testing.T) {
	rec := storedRecord(false, false)
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, rec.ID).Return(rec, nil)

	lower := []byte(rec.ID)
	for i, c := range lower {
		if c >= 'A' && c <= 'Z' {
			lower[i] = c + ('a' - 'A')
		}
	}
	_, err := NewService(repo, nil).Get(context.Background(), string(lower))
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGet_MalformedID(t *testing.T) {
	repo := &mockRepo{}
	_, err := NewService(repo, nil).Get(context.Background(), "not-an-id")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestGet_NotFoundPropagates(t *testing.T) {
	missing := id.New()
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, missing).Return(domain.NotificationRecord{}, domain.ErrNotFound)

	_, err := NewService(repo, nil).Get(context.Background(), missing)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrStorage))
}

func TestGet_StorageErrorNotTranslated(t *testing.T) {
	nid := id.New()
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, nid).Return(domain.NotificationRecord{}, errBoom)

	_, err := NewService(repo, nil).Get(context.Background(), nid)
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

// --- List ---

func TestList_ReturnsAll(t *testing.T) {
	recs := make([]domain.NotificationRecord, 10)
	for i := range recs {
		recs[i] = storedRecord(false, false)
	}
	repo := &mockRepo{}
	repo.On("GetAll", mock.Anything).Return(recs, nil)

	out, err := NewService(repo, nil).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 10)
}

func TestList_EmptyIsNotAnError(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetAll", mock.Anything).Return(nil, nil)

	out, err := NewService(repo, nil).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestList_StorageErrorPropagates(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetAll", mock.Anything).Return(nil, errBoom)

	_, err := NewService(repo, nil).List(context.Background())
	assert.Same(t, errBoom, err)
}

func TestList_CorruptRecordIsStorageError(t *testing.T) {
	bad := storedRecord(false, true)
	repo := &mockRepo{}
	repo.On("GetAll", mock.Anything).Return([]domain.NotificationRecord{bad}, nil)

	_, err := NewService(repo, nil).List(context.Background())
	assert.True(t, errors.Is(err, domain.ErrStorage))
}

// --- MarkAsSeen ---

func TestMarkAsSeen_Success(t *testing.T) {
	rec := storedRecord(false, false)
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(r domain.NotificationRecord) bool {
		return r.ID == rec.ID && r.Seen && !r.Deleted && r.UpdatedAt.After(rec.UpdatedAt)
	})).Return(func(_ context.Context, r domain.NotificationRecord) domain.NotificationRecord { return r }, nil)

	seen, err := NewService(repo, clock.Fixed(t0.Add(time.Minute))).MarkAsSeen(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, seen)
	repo.AssertExpectations(t)
}

func TestMarkAsSeen_AlreadySeenSkipsWrite(t *testing.T) {
	rec := storedRecord(true, false)
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, rec.ID).Return(rec, nil)

	seen, err := NewService(repo, clock.Fixed(t0.Add(time.Minute))).MarkAsSeen(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, seen)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMarkAsSeen_NotFound(t *testing.T) {
	nid := id.New()
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, nid).Return(domain.NotificationRecord{}, domain.ErrNotFound)

	seen, err := NewService(repo, nil).MarkAsSeen(context.Background(), nid)
	assert.False(t, seen)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMarkAsSeen_MalformedID(t *testing.T) {
	repo := &mockRepo{}
	_, err := NewService(repo, nil).MarkAsSeen(context.Background(), "bogus")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestMarkAsSeen_SaveErrorPropagates(t *testing.T) {
	rec := storedRecord(false, false)
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(domain.NotificationRecord{}, errBoom)

	seen, err := NewService(repo, nil).MarkAsSeen(context.Background(), rec.ID)
	assert.False(t, seen)
	assert.Same(t, errBoom, err)
}

// --- MarkAsDeleted ---

func TestMarkAsDeleted_Success(t *testing.T) {
	rec := storedRecord(false, false)
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(r domain.NotificationRecord) bool {
		return r.ID == rec.ID && r.Seen && r.Deleted
	})).Return(func(_ context.Context, r domain.NotificationRecord) domain.NotificationRecord { return r }, nil)

	deleted, err := NewService(repo, clock.Fixed(t0.Add(time.Minute))).MarkAsDeleted(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	repo.AssertExpectations(t)
}

func TestMarkAsDeleted_AlreadyDeletedSkipsWrite(t *testing.T) {
	rec := storedRecord(true, true)
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, rec.ID).Return(rec, nil)

	deleted, err := NewService(repo, nil).MarkAsDeleted(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMarkAsDeleted_StorageErrorOnGet(t *testing.T) {
	nid := id.New()
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, nid).Return(domain.NotificationRecord{}, errBoom)

	_, err := NewService(repo, nil).MarkAsDeleted(context.Background(), nid)
	assert.Same(t, errBoom, err)
}

// --- end-to-end against the in-memory store ---

func TestScenario_HelloLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewNotificationRepo(), tickingClock())

	created, err := svc.Create(ctx, "hello")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())
	assert.Equal(t, "hello", created.Message())
	assert.False(t, created.Seen())
	assert.False(t, created.Deleted())
	assert.Equal(t, created.CreatedAt(), created.UpdatedAt())

	seen, err := svc.MarkAsSeen(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, seen)

	got, err := svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, got.Seen())
	assert.False(t, got.Deleted())
	seenAt := got.UpdatedAt()
	assert.True(t, seenAt.After(got.CreatedAt()))

	// Idempotent: second call succeeds and leaves the timestamp alone.
	seen, err = svc.MarkAsSeen(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, seen)
	got, err = svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, seenAt, got.UpdatedAt())

	deleted, err := svc.MarkAsDeleted(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err = svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, got.Seen())
	assert.True(t, got.Deleted())
	assert.Equal(t, domain.StateDeleted, got.State())
	assert.True(t, got.UpdatedAt().After(seenAt))
}

func TestScenario_DeleteUnseenImpliesSeen(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewNotificationRepo(), tickingClock())

	created, err := svc.Create(ctx, "straight to bin")
	require.NoError(t, err)
	deleted, err := svc.MarkAsDeleted(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, got.Seen())
	assert.True(t, got.Deleted())
}

func TestScenario_ListTwo(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewNotificationRepo(), tickingClock())

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.Create(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b")
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	msgs := []string{all[0].Message(), all[1].Message()}
	assert.ElementsMatch(t, []string{"a", "b"}, msgs)
}

func TestScenario_UnknownID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewNotificationRepo(), tickingClock())

	_, err := svc.Get(ctx, id.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.MarkAsSeen(ctx, id.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.MarkAsDeleted(ctx, id.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
