package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sbilibin2017/dtc-admin/internal/models"
)

//go:generate mockgen -source=profile_live.go -destination=profile_live_mock.go -package=handlers

// ProfileEventSubscriber streams profile changes.
type ProfileEventSubscriber interface {
	Subscribe(ctx context.Context) (<-chan models.ProfileEvent, error)
}

// NewProfileLiveHandler returns a Server-Sent Events handler that pushes
// profile changes so open tables can refresh. A comment line is sent every
// heartbeat to keep proxies from closing the stream.
// @Summary Live profile changes
// @Description Server-Sent Events stream of created and updated profiles
// @Tags dtc-profiles
// @Produce text/event-stream
// @Success 200 {object} models.ProfileEvent "Event stream"
// @Failure 500 {object} handlers.ErrorResponse "Streaming unsupported"
// @Router /dtc-profiles/live [get]
// @Security BearerAuth
func NewProfileLiveHandler(sub ProfileEventSubscriber, heartbeat time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "Streaming unsupported")
			return
		}

		ctx := r.Context()
		events, err := sub.Subscribe(ctx)
		if err != nil {
			logError(r, "failed to subscribe to profile events", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case event, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					logError(r, "failed to encode profile event", "event_id", event.EventID, "error", err)
					continue
				}
				fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.EventID, event.Type, data)
				flusher.Flush()
			}
		}
	}
}
