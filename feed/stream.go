// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feed

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// StreamHandler serves GET /rooms/changes: every broker event is written to
// the socket as one JSON text message.
type StreamHandler struct {
	broker   *Broker
	upgrader websocket.Upgrader
}

func NewStreamHandler(broker *Broker) *StreamHandler {
	return &StreamHandler{
		broker: broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The stream carries no caller data; any origin may watch it
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	id, events, cancel := h.broker.Subscribe()
	slog.Info("change stream opened", "subscriber", id, "remote", r.RemoteAddr)

	closed := make(chan struct{})
	go readPump(conn, closed)
	writePump(conn, events, closed)

	cancel()
	_ = conn.Close()
	slog.Info("change stream closed", "subscriber", id)
}

// readPump discards client messages and keeps the read deadline fresh. It
// closes done when the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("change stream read error", "error", err)
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, events <-chan models.ChangeEvent, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				slog.Warn("failed to write change event", "error", err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
