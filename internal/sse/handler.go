package sse

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rose-booking/internal/apperr"
	"rose-booking/internal/logger"
	"rose-booking/internal/utils"
)

type Handler struct {
	Broker    *Broker
	Logger    *logger.Logger
	Heartbeat time.Duration
}

func NewHandler(broker *Broker, logger *logger.Logger) *Handler {
	return &Handler{Broker: broker, Logger: logger, Heartbeat: 25 * time.Second}
}

// Stream serves GET /api/admin/stats/live?restaurantId= as text/event-stream.
// Without restaurantId the client receives events of every restaurant.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	restaurantID := AllRestaurants
	if raw := r.URL.Query().Get("restaurantId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			utils.WriteError(w, apperr.Validation("restaurantId must be a positive integer"))
			return
		}
		restaurantID = id
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteError(w, fmt.Errorf("streaming unsupported"))
		return
	}

	// the server's WriteTimeout would otherwise cut long-lived streams
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ctx := r.Context()
	events := h.Broker.Subscribe(ctx, restaurantID)
	h.Logger.Info("SSE", fmt.Sprintf("dashboard client connected (restaurant=%d)", restaurantID))

	ticker := time.NewTicker(h.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Logger.Info("SSE", fmt.Sprintf("dashboard client disconnected (restaurant=%d)", restaurantID))
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, ev.Payload)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
