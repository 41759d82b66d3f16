package websocket

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"kartlap/internal/infrastructure"
)

// Options tunes the upgrade handler. Zero values fall back to defaults.
type Options struct {
	// An empty list, or one containing "*", accepts any origin.
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	PingPeriod      time.Duration
	PongWait        time.Duration
}

// Handler upgrades HTTP requests on /ws and attaches them to a Hub.
type Handler struct {
	hub            *Hub
	allowedOrigins []string
	pingPeriod     time.Duration
	pongWait       time.Duration
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewHandler creates the upgrade handler.
func NewHandler(hub *Hub, opts Options, logger *slog.Logger) *Handler {
	h := &Handler{
		hub:            hub,
		allowedOrigins: opts.AllowedOrigins,
		pingPeriod:     opts.PingPeriod,
		pongWait:       opts.PongWait,
		logger:         logger.With(slog.String("component", "websocket.handler")),
	}
	if h.pongWait <= 0 {
		h.pongWait = defaultPongWait
	}
	if h.pingPeriod <= 0 || h.pingPeriod >= h.pongWait {
		h.pingPeriod = (h.pongWait * 9) / 10
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  opts.ReadBufferSize,
		WriteBufferSize: opts.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	h.logger.WarnContext(r.Context(), "WebSocket origin not allowed",
		slog.String("origin", origin),
		slog.Any("allowed_origins", h.allowedOrigins))
	return false
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := infrastructure.GetTraceID(ctx)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an HTTP error.
		h.logger.WarnContext(ctx, "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	client := NewClient(h.hub, gorillaConn{conn}, traceID, h.logger)
	client.pingPeriod = h.pingPeriod
	client.pongWait = h.pongWait
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
