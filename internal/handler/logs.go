package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/eventlog"
)

// Stream frame types
const (
	FrameSnapshot = "snapshot"
	FrameEntry    = "entry"
)

// LogsResponse is the event log view, newest entry first
type LogsResponse struct {
	Entries []domain.LogEntry `json:"entries"`
}

// StreamFrame is one websocket message on /ws/logs
type StreamFrame struct {
	Type    string            `json:"type"`
	Entries []domain.LogEntry `json:"entries,omitempty"`
	Entry   *domain.LogEntry  `json:"entry,omitempty"`
}

// LogsHandler serves the event log over REST and websocket
type LogsHandler struct {
	log            *eventlog.Log
	logger         *slog.Logger
	allowedOrigins []string
	pingInterval   time.Duration
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(log *eventlog.Log, logger *slog.Logger, allowedOrigins []string) *LogsHandler {
	return &LogsHandler{
		log:            log,
		logger:         logger,
		allowedOrigins: allowedOrigins,
		pingInterval:   15 * time.Second,
	}
}

// List handles GET /api/logs
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, LogsResponse{Entries: h.log.Entries()})
}

// Clear handles DELETE /api/logs
func (h *LogsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.log.Clear()
	h.logger.Info("event log cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (h *LogsHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// non-browser clients
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// Stream handles GET /ws/logs. The first frame is a snapshot of the log
// (newest first); every entry appended afterwards is pushed as its own frame.
func (h *LogsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	upgrader := h.upgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	// Subscribe before the snapshot; an entry appended in between may be sent twice.
	entries, cancel := h.log.Subscribe(64)
	defer cancel()

	if err := ws.WriteJSON(StreamFrame{Type: FrameSnapshot, Entries: h.log.Entries()}); err != nil {
		h.logger.Debug("log stream ended", slog.String("reason", err.Error()))
		return
	}

	// The read loop only exists to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			if err := ws.WriteJSON(StreamFrame{Type: FrameEntry, Entry: &entry}); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("websocket closed", slog.String("error", err.Error()))
				}
				return
			}
		case <-ticker.C:
			_ = ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
