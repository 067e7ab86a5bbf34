package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/wordclass/internal/domain"
)

const (
	eventBuffer       = 16
	heartbeatInterval = 25 * time.Second
)

// GET /students/{studentID}/events
//
// Streams progress and stats change notifications as server-sent events
// until the client disconnects. Events are dropped, not queued, when the
// client falls behind; each one only tells the client to re-read.
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	studentID, err := a.student(r)
	if err != nil {
		handleErr(w, r, a.log, err)
		return
	}

	events := make(chan domain.ChangeEvent, eventBuffer)
	forward := func(ev domain.ChangeEvent) {
		select {
		case events <- ev:
		default:
		}
	}
	cancelProgress := a.study.Subscribe(studentID, forward)
	defer cancelProgress()
	cancelStats := a.stats.Subscribe(studentID, forward)
	defer cancelStats()

	rc := http.NewResponseController(w)
	// The server write timeout would end the stream.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		a.log.WarnContext(r.Context(), "event stream not supported", slog.String("error", err.Error()))
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				a.log.ErrorContext(r.Context(), "marshal change event", slog.String("error", err.Error()))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventName(ev.Kind), data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func eventName(kind domain.ChangeKind) string {
	if kind == domain.ChangeKindStats {
		return "stats"
	}
	return "progress"
}
