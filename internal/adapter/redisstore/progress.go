package redisstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/wordclass/internal/domain"
)

var nowFunc = time.Now

// record is the stored value of one hash field: the legacy progress shape
// plus the write time in Unix microseconds.
type record struct {
	domain.LegacyProgress
	UpdatedAt int64 `json:"updatedAt"`
}

// ProgressRepo keeps one hash per student with a field per word.
type ProgressRepo struct {
	store *Store
	now   func() time.Time
}

var _ domain.ProgressStore = (*ProgressRepo)(nil)

// Get returns every progress record of the student. Records that fail to
// parse are skipped and logged.
func (r *ProgressRepo) Get(ctx context.Context, studentID uuid.UUID) ([]domain.WordProgress, error) {
	fields, err := r.store.rdb.HGetAll(ctx, r.store.progressKey(studentID)).Result()
	if err != nil {
		return nil, mapError(err, "get progress")
	}

	out := make([]domain.WordProgress, 0, len(fields))
	for field, raw := range fields {
		p, err := decodeRecord(raw)
		if err != nil {
			r.store.log.WarnContext(ctx, "skipping malformed progress record",
				slog.String("student_id", studentID.String()),
				slog.String("field", field),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, p)
	}
	sortByWord(out)
	return out, nil
}

// Put upserts one record.
func (r *ProgressRepo) Put(ctx context.Context, studentID uuid.UUID, p domain.WordProgress) error {
	return r.write(ctx, "put progress", studentID, []domain.WordProgress{p})
}

// PutAll writes every record in one MULTI/EXEC transaction.
func (r *ProgressRepo) PutAll(ctx context.Context, studentID uuid.UUID, ps []domain.WordProgress) error {
	if len(ps) == 0 {
		return nil
	}
	return r.write(ctx, "put all progress", studentID, ps)
}

// OnChange subscribes fn to writes of the student's progress, including
// writes by other processes while Store.Listen runs.
func (r *ProgressRepo) OnChange(studentID uuid.UUID, fn func(domain.ChangeEvent)) (cancel func()) {
	return r.store.hub.Subscribe(studentID, fn)
}

func (r *ProgressRepo) write(ctx context.Context, op string, studentID uuid.UUID, ps []domain.WordProgress) error {
	now := r.now().UTC()

	values := make(map[string]any, len(ps))
	ids := make([]uuid.UUID, 0, len(ps))
	size := 0
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		raw, err := encodeRecord(p)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		field := p.WordID.String()
		if prev, ok := values[field]; ok {
			size -= len(field) + len(prev.(string))
		} else {
			ids = append(ids, p.WordID)
		}
		values[field] = raw
		size += len(field) + len(raw)
	}
	if limit := r.store.cfg.MaxDocumentBytes; limit > 0 && size > limit {
		return fmt.Errorf("%s: %d bytes exceeds %d: %w", op, size, limit, domain.ErrPayloadTooLarge)
	}

	ev := domain.ChangeEvent{StudentID: studentID, Kind: domain.ChangeKindProgress, WordIDs: ids, At: now}
	notice, err := r.store.notice(ev)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.store.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.store.progressKey(studentID), values)
		pipe.Publish(ctx, r.store.channel(), notice)
		return nil
	})
	if err != nil {
		return mapError(err, op)
	}

	r.store.hub.Publish(ev)
	return nil
}

func encodeRecord(p domain.WordProgress) (string, error) {
	if p.NextReview != nil {
		t := p.NextReview.UTC().Truncate(time.Microsecond)
		p.NextReview = &t
	}
	raw, err := json.Marshal(record{
		LegacyProgress: p.ToLegacy(),
		UpdatedAt:      p.UpdatedAt.UTC().Truncate(time.Microsecond).UnixMicro(),
	})
	if err != nil {
		return "", fmt.Errorf("encode progress: %w", err)
	}
	return string(raw), nil
}

func decodeRecord(raw string) (domain.WordProgress, error) {
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.WordProgress{}, fmt.Errorf("decode progress: %w", err)
	}
	return domain.ParseLegacyProgress(rec.LegacyProgress, time.UnixMicro(rec.UpdatedAt).UTC())
}

func sortByWord(ps []domain.WordProgress) {
	slices.SortFunc(ps, func(a, b domain.WordProgress) int {
		return bytes.Compare(a.WordID[:], b.WordID[:])
	})
}
