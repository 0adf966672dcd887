package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aryan0dhankhar/medops/internal/events"
	"github.com/aryan0dhankhar/medops/internal/security/middleware"
)

const (
	feedPingInterval = 15 * time.Second
	feedWriteWait    = 5 * time.Second
)

// FeedHandler streams change events over a websocket so open consoles know
// which collection to re-read.
type FeedHandler struct {
	hub            *events.Hub
	allowedOrigins []string
	logger         *slog.Logger
}

func NewFeedHandler(hub *events.Hub, allowedOrigins []string, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{hub: hub, allowedOrigins: allowedOrigins, logger: orDefault(logger)}
}

func (h *FeedHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// non-browser clients
				return true
			}
			if middleware.OriginAllowed(h.allowedOrigins, origin) {
				return true
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/changes
func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up := h.upgrader()
	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	changes, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	// The read loop only exists to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(feedPingInterval)
	defer ticker.Stop()

	for {
		select {
		case c, ok := <-changes:
			if !ok {
				return
			}
			ws.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := ws.WriteJSON(c); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("websocket closed", slog.String("error", err.Error()))
				}
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(feedWriteWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
