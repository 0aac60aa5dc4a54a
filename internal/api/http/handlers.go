// Package http implements the JSON API of the web front end.
package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ganesh9880/termipy/internal/domain/session"
	"github.com/ganesh9880/termipy/internal/infrastructure/logging"
	"github.com/ganesh9880/termipy/internal/infrastructure/monitoring"
	"github.com/ganesh9880/termipy/internal/providers/monitor"
	"github.com/ganesh9880/termipy/internal/shared/id"
	"github.com/ganesh9880/termipy/internal/shell"
	"github.com/ganesh9880/termipy/internal/shell/registry"
)

const (
	// ServiceName and Version are reported by the health endpoint.
	ServiceName = "TermiPy Terminal"
	Version     = "1.0.0"

	// historyWindow caps how many entries the history endpoint returns.
	historyWindow = 50
)

// Handlers carries the shared state for all HTTP endpoints.
type Handlers struct {
	sessions   *session.Manager
	dispatcher *registry.Dispatcher
	metrics    *monitoring.Metrics
	logger     *logging.Logger
}

// NewHandlers creates the endpoint handlers.
func NewHandlers(sessions *session.Manager, dispatcher *registry.Dispatcher, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	return &Handlers{
		sessions:   sessions,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Health reports service liveness for deployment platforms.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": Version,
	})
}

// Execute runs one command in the caller's session. A missing session_id
// allocates a fresh session and returns its id so the client can stick to it.
func (h *Handlers) Execute(c *gin.Context) {
	var req struct {
		Command   string `json:"command"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	sessionID := req.SessionID
	switch {
	case sessionID == "":
		sessionID = id.NewSession()
		h.metrics.SessionsActive.Inc()
	case !id.IsSession(sessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}
	sess := h.sessions.Get(sessionID)

	command := strings.TrimSpace(req.Command)
	if command == "" {
		c.JSON(http.StatusOK, gin.H{
			"output":     "",
			"cwd":        sess.CWD(),
			"exit_code":  shell.ExitOK,
			"session_id": sessionID,
		})
		return
	}

	start := time.Now()
	res := h.dispatcher.Run(c.Request.Context(), command, sess)
	h.metrics.RecordDispatch(commandLabel(command), res.ExitCode, time.Since(start))

	h.logger.Debug("command executed",
		zap.String("session_id", sessionID),
		zap.Int("exit_code", res.ExitCode),
	)

	c.JSON(http.StatusOK, gin.H{
		"output":     res.Stdout,
		"cwd":        sess.CWD(),
		"exit_code":  res.ExitCode,
		"session_id": sessionID,
	})
}

// History returns the most recent commands of a session.
func (h *Handlers) History(c *gin.Context) {
	sess := h.sessions.Get(c.DefaultQuery("session_id", session.LocalID))

	entries := sess.Tail(historyWindow)
	raws := make([]string, 0, len(entries))
	for _, e := range entries {
		raws = append(raws, e.Raw)
	}

	c.JSON(http.StatusOK, gin.H{
		"history": raws,
		"count":   len(raws),
	})
}

// Complete returns tab-completion candidates for a prefix, mirroring the
// interactive front end's completion.
func (h *Handlers) Complete(c *gin.Context) {
	sess := h.sessions.Get(c.DefaultQuery("session_id", session.LocalID))

	c.JSON(http.StatusOK, gin.H{
		"candidates": sess.Complete(c.Query("prefix")),
	})
}

// SystemInfo returns a memory and CPU summary plus the session's cwd.
func (h *Handlers) SystemInfo(c *gin.Context) {
	sess := h.sessions.Get(c.DefaultQuery("session_id", session.LocalID))

	snap, err := monitor.Sample(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"memory":      snap.Memory,
		"cpu":         snap.CPU,
		"current_dir": sess.CWD(),
		"success":     true,
	})
}

// commandLabel extracts a bounded-cardinality label for dispatch metrics:
// the first input field, or the marker for natural-language input.
func commandLabel(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
