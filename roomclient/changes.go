// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roomclient

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/mushroom-rally/membership"
	"github.com/gorilla/websocket"
)

// SubscribeToChanges opens the server's change stream and calls onAnyChange
// for every event. A dropped stream is redialed with backoff; after each
// reconnect onAnyChange is called once, since events may have been missed.
// Only the first dial is reported as an error.
func (c *Client) SubscribeToChanges(ctx context.Context, onAnyChange func()) (func(), error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &stream{client: c, conn: conn, onAnyChange: onAnyChange, done: make(chan struct{})}

	go func() {
		<-ctx.Done()
		s.closeConn()
	}()
	go s.run(ctx)

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-s.done
		})
	}, nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	u := c.BaseURL + "/rooms/changes"
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}

	header := http.Header{}
	c.setIdentity(header)

	conn, _, err := c.Dialer.DialContext(ctx, u, header)
	if err != nil {
		return nil, &membership.TransportError{Op: "subscribe to changes", Err: err}
	}
	return conn, nil
}

type stream struct {
	client      *Client
	onAnyChange func()
	done        chan struct{}

	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *stream) run(ctx context.Context) {
	defer close(s.done)

	backoff := s.client.minBackoff
	for {
		s.read()
		if ctx.Err() != nil {
			return
		}

		slog.Warn("change stream dropped, reconnecting", "backoff", backoff)
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}

			conn, err := s.client.dial(ctx)
			if err == nil {
				if !s.setConn(conn) {
					return
				}
				break
			}
			slog.Warn("change stream redial failed", "error", err)
			backoff *= 2
			if backoff > s.client.maxBackoff {
				backoff = s.client.maxBackoff
			}
		}

		backoff = s.client.minBackoff
		slog.Info("change stream reconnected")
		s.onAnyChange()
	}
}

// read consumes messages until the connection fails. Payloads are not
// inspected; every message means "something changed".
func (s *stream) read() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		s.onAnyChange()
	}
}

// setConn installs a redialed connection. It returns false if the stream was
// closed in the meantime.
func (s *stream) setConn(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		conn.Close()
		return false
	}
	s.conn.Close()
	s.conn = conn
	return true
}

func (s *stream) closeConn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
