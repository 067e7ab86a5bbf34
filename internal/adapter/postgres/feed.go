package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wordclass/internal/adapter/changefeed"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// ChangeChannel is the LISTEN/NOTIFY channel carrying store change events.
const ChangeChannel = "wordclass_changes"

// NOTIFY payloads must stay below 8000 bytes.
const maxNotifyPayload = 7900

type changeNotice struct {
	Origin string             `json:"origin"`
	Event  domain.ChangeEvent `json:"event"`
}

// Feed publishes change events to local subscribers and, through
// pg_notify, to other processes sharing the database.
type Feed struct {
	hub    *changefeed.Hub
	origin string
	log    *slog.Logger

	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewFeed creates a Feed delivering to hub.
func NewFeed(hub *changefeed.Hub, log *slog.Logger) *Feed {
	return &Feed{
		hub:    hub,
		origin: uuid.NewString(),
		log:    log.With("adapter", "postgres_feed"),

		minBackoff: 500 * time.Millisecond,
		maxBackoff: 30 * time.Second,
	}
}

// Subscribe registers fn for studentID's events.
func (f *Feed) Subscribe(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return f.hub.Subscribe(studentID, fn)
}

// Notify queues ev on q. Inside a transaction PostgreSQL delivers it only
// on commit.
func (f *Feed) Notify(ctx context.Context, q Querier, ev domain.ChangeEvent) error {
	payload, err := json.Marshal(changeNotice{Origin: f.origin, Event: ev})
	if err != nil {
		return fmt.Errorf("marshal change notice: %w", err)
	}
	if len(payload) > maxNotifyPayload {
		// Without word ids subscribers re-read everything.
		ev.WordIDs = nil
		if payload, err = json.Marshal(changeNotice{Origin: f.origin, Event: ev}); err != nil {
			return fmt.Errorf("marshal change notice: %w", err)
		}
	}

	if _, err := q.Exec(ctx, `SELECT pg_notify($1, $2)`, ChangeChannel, string(payload)); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// Publish delivers ev to local subscribers.
func (f *Feed) Publish(ev domain.ChangeEvent) {
	f.hub.Publish(ev)
}

// Listen forwards notifications from other processes to local subscribers
// until ctx is done. A dropped connection is re-established with backoff,
// and every subscriber is told to re-read since events may have been lost.
func (f *Feed) Listen(ctx context.Context, pool *pgxpool.Pool) error {
	return f.listenLoop(ctx, func(ctx context.Context, ready func()) error {
		return f.listenOnce(ctx, pool, ready)
	})
}

func (f *Feed) listenLoop(ctx context.Context, listen func(ctx context.Context, ready func()) error) error {
	backoff := f.minBackoff
	resync := false
	for {
		err := listen(ctx, func() {
			backoff = f.minBackoff
			if resync {
				f.log.InfoContext(ctx, "change listener reconnected, resyncing subscribers")
				f.hub.Broadcast(domain.ChangeKindProgress, time.Now().UTC())
				resync = false
			}
		})
		if ctx.Err() != nil {
			return nil
		}
		resync = true
		f.log.WarnContext(ctx, "change listener disconnected",
			slog.String("error", fmt.Sprint(err)),
			slog.Duration("retry_in", backoff),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, f.maxBackoff)
	}
}

func (f *Feed) listenOnce(ctx context.Context, pool *pgxpool.Pool, ready func()) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	f.log.InfoContext(ctx, "listening for store changes", slog.String("channel", ChangeChannel))
	ready()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// The connection state is unknown; do not return it to the pool.
			_ = conn.Conn().Close(context.Background())
			return fmt.Errorf("wait for notification: %w", err)
		}
		f.dispatch(ctx, []byte(n.Payload))
	}
}

func (f *Feed) dispatch(ctx context.Context, payload []byte) {
	var notice changeNotice
	if err := json.Unmarshal(payload, &notice); err != nil {
		f.log.WarnContext(ctx, "malformed change notice", slog.String("error", err.Error()))
		return
	}
	if notice.Origin == f.origin {
		return
	}
	if notice.Event.StudentID == uuid.Nil {
		f.log.WarnContext(ctx, "change notice without student")
		return
	}
	f.hub.Publish(notice.Event)
}
