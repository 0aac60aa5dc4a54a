// Package ws streams system stats to browser clients over a websocket.
package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ganesh9880/termipy/internal/infrastructure/logging"
	"github.com/ganesh9880/termipy/internal/infrastructure/monitoring"
	"github.com/ganesh9880/termipy/internal/providers/monitor"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // API is credential-free, same policy as CORS
	},
}

// Handler streams periodic monitor snapshots. Every stream is bounded: a
// fixed tick interval and a hard cap on iterations, after which the server
// closes the connection. Clients reconnect if they want more.
type Handler struct {
	interval time.Duration
	maxTicks int
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewHandler creates the stats stream handler.
func NewHandler(interval time.Duration, maxTicks int, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if maxTicks <= 0 {
		maxTicks = 300
	}
	return &Handler{
		interval: interval,
		maxTicks: maxTicks,
		metrics:  metrics,
		logger:   logger,
	}
}

// Stats upgrades the connection and pushes snapshots until the client goes
// away, the request context ends, or the iteration cap is reached.
func (h *Handler) Stats(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.WSConnections.Inc()
	defer h.metrics.WSConnections.Dec()

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for tick := 0; tick < h.maxTicks; tick++ {
		snap, err := monitor.Sample(ctx)
		if err != nil {
			h.logger.Warn("stats sample failed", zap.Error(err))
			return
		}
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(snap); err != nil {
			return // client gone
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}

	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream limit reached"),
		deadline)
}
