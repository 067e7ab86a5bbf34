package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordclass/internal/adapter/changefeed"
	"github.com/heartmarshall/wordclass/internal/domain"
)

func newTestFeed() *Feed {
	return NewFeed(changefeed.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFeed_DispatchSkipsOwnOrigin(t *testing.T) {
	t.Parallel()

	f := newTestFeed()
	student := uuid.New()
	var got []domain.ChangeEvent
	f.Subscribe(student, func(ev domain.ChangeEvent) { got = append(got, ev) })

	ev := domain.ChangeEvent{StudentID: student, Kind: domain.ChangeKindProgress, At: time.Unix(1, 0).UTC()}
	own, _ := json.Marshal(changeNotice{Origin: f.origin, Event: ev})
	foreign, _ := json.Marshal(changeNotice{Origin: "other-process", Event: ev})

	f.dispatch(context.Background(), own)
	f.dispatch(context.Background(), []byte("{broken"))
	f.dispatch(context.Background(), foreign)

	require.Len(t, got, 1)
	assert.Equal(t, student, got[0].StudentID)
}

func TestFeed_ListenLoop_ResyncsAfterReconnect(t *testing.T) {
	t.Parallel()

	f := newTestFeed()
	f.minBackoff, f.maxBackoff = time.Millisecond, 2*time.Millisecond
	student := uuid.New()
	var got []domain.ChangeEvent
	f.Subscribe(student, func(ev domain.ChangeEvent) { got = append(got, ev) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	err := f.listenLoop(ctx, func(ctx context.Context, ready func()) error {
		calls++
		switch calls {
		case 1:
			return errors.New("connection refused")
		case 2:
			ready()
			return errors.New("connection reset")
		default:
			ready()
			cancel()
			return nil
		}
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, got, 2)
	for _, ev := range got {
		assert.Equal(t, student, ev.StudentID)
		assert.Equal(t, domain.ChangeKindProgress, ev.Kind)
	}
}

func TestFeed_ListenLoop_FirstConnectDoesNotResync(t *testing.T) {
	t.Parallel()

	f := newTestFeed()
	student := uuid.New()
	notified := false
	f.Subscribe(student, func(domain.ChangeEvent) { notified = true })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := f.listenLoop(ctx, func(ctx context.Context, ready func()) error {
		ready()
		cancel()
		return nil
	})

	require.NoError(t, err)
	assert.False(t, notified)
}

func TestFeed_NotifyDropsWordIDsWhenTooLarge(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ids := make([]uuid.UUID, 400)
	for i := range ids {
		ids[i] = uuid.New()
	}
	ev := domain.ChangeEvent{StudentID: uuid.New(), Kind: domain.ChangeKindProgress, WordIDs: ids}

	var payload string
	mock.ExpectExec(`pg_notify`).
		WithArgs(ChangeChannel, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	f := newTestFeed()
	require.NoError(t, f.Notify(context.Background(), &capture{Querier: mock, payload: &payload}, ev))
	require.NoError(t, mock.ExpectationsWereMet())

	var notice changeNotice
	require.NoError(t, json.Unmarshal([]byte(payload), &notice))
	assert.Nil(t, notice.Event.WordIDs)
	assert.Equal(t, ev.StudentID, notice.Event.StudentID)
	assert.LessOrEqual(t, len(payload), maxNotifyPayload)
}

// capture records the notify payload before delegating to the mock.
type capture struct {
	Querier
	payload *string
}

func (c *capture) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if len(args) == 2 {
		*c.payload, _ = args[1].(string)
	}
	return c.Querier.Exec(ctx, sql, args...)
}
