// Package redisstore keeps progress and stats as per-student documents in
// Redis and fans change events out over Redis pub/sub.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/wordclass/internal/adapter/changefeed"
	"github.com/heartmarshall/wordclass/internal/domain"
)

// Config configures the Redis document store.
type Config struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix namespaces every key and the change channel.
	KeyPrefix string
	// MaxDocumentBytes bounds the payload of a single write; 0 disables it.
	MaxDocumentBytes int
}

// NewClient creates a go-redis client for cfg.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Store owns the key layout shared by the progress and stats repos.
type Store struct {
	rdb    redis.UniversalClient
	hub    *changefeed.Hub
	cfg    Config
	origin string
	log    *slog.Logger
}

// New creates a Store on rdb delivering change events through hub.
func New(rdb redis.UniversalClient, hub *changefeed.Hub, cfg Config, log *slog.Logger) *Store {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "wordclass:"
	}
	return &Store{
		rdb:    rdb,
		hub:    hub,
		cfg:    cfg,
		origin: uuid.NewString(),
		log:    log.With("adapter", "redisstore"),
	}
}

// Progress returns the progress store.
func (s *Store) Progress() *ProgressRepo {
	return &ProgressRepo{store: s, now: nowFunc}
}

// Stats returns the stats store.
func (s *Store) Stats() *StatsRepo {
	return &StatsRepo{store: s, now: nowFunc}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return mapError(err, "ping")
	}
	return nil
}

func (s *Store) progressKey(studentID uuid.UUID) string {
	return s.cfg.KeyPrefix + "progress:" + studentID.String()
}

func (s *Store) statsKey(studentID uuid.UUID) string {
	return s.cfg.KeyPrefix + "stats:" + studentID.String()
}

func (s *Store) channel() string {
	return s.cfg.KeyPrefix + "changes"
}

// ---------------------------------------------------------------------------
// Change feed
// ---------------------------------------------------------------------------

type changeNotice struct {
	Origin string             `json:"origin"`
	Event  domain.ChangeEvent `json:"event"`
}

func (s *Store) notice(ev domain.ChangeEvent) (string, error) {
	payload, err := json.Marshal(changeNotice{Origin: s.origin, Event: ev})
	if err != nil {
		return "", fmt.Errorf("marshal change notice: %w", err)
	}
	return string(payload), nil
}

// Listen forwards change events published by other processes to local
// subscribers until ctx is done.
func (s *Store) Listen(ctx context.Context) error {
	sub := s.rdb.Subscribe(ctx, s.channel())
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel(), err)
	}
	s.log.InfoContext(ctx, "listening for store changes", slog.String("channel", s.channel()))

	// go-redis resubscribes after a dropped connection; the confirmation
	// arrives on this channel and events published in the gap are lost.
	ch := sub.ChannelWithSubscriptions()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *Store) handle(ctx context.Context, msg any) {
	switch m := msg.(type) {
	case *redis.Message:
		s.dispatch(ctx, []byte(m.Payload))
	case *redis.Subscription:
		if m.Kind != "subscribe" {
			return
		}
		s.log.InfoContext(ctx, "change listener resubscribed, resyncing subscribers")
		s.hub.Broadcast(domain.ChangeKindProgress, nowFunc().UTC())
	}
}

func (s *Store) dispatch(ctx context.Context, payload []byte) {
	var n changeNotice
	if err := json.Unmarshal(payload, &n); err != nil {
		s.log.WarnContext(ctx, "malformed change notice", slog.String("error", err.Error()))
		return
	}
	if n.Origin == s.origin || n.Event.StudentID == uuid.Nil {
		return
	}
	s.hub.Publish(n.Event)
}
