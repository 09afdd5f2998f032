package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser dashboard is served from a different origin; the auth
	// proxy in front of this service owns origin policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stream pushes change events over a websocket: report inserts/updates
// and alert inserts. One hub subscription per connection, torn down when
// the client goes away. Report events honor the same urgency/credibility
// filters as the dashboard; alert events always pass.
func (h *Handler) stream(c *gin.Context) {
	filter := feedFilter(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response
		return
	}
	defer conn.Close()

	id, ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	slog.Info("client subscribed to change feed", "subscriber_id", id)

	// Reads are discarded; the read loop only notices disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			slog.Info("client disconnected from change feed", "subscriber_id", id)
			return
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}

			if ev.Report != nil && !filter.Matches(ev.Report) {
				continue
			}

			if err := conn.WriteJSON(ev); err != nil {
				slog.Error("failed to send event to subscriber", "error", err, "subscriber_id", id)
				return
			}
		}
	}
}
