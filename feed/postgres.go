// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/mushroom-rally/db"
	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/lib/pq"
	"github.com/tidwall/gjson"
)

const (
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

var errBadNotification = errors.New("malformed change notification")

// ListenPostgres relays NOTIFY messages from the room trigger into broker
// until ctx is done. Notifications may be lost while the connection is down,
// so a resync event is published after every reconnect.
func ListenPostgres(ctx context.Context, dsn string, broker *Broker) error {
	listener := pq.NewListener(dsn, listenerMinReconnect, listenerMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			switch ev {
			case pq.ListenerEventConnectionAttemptFailed:
				slog.Warn("change listener connection attempt failed", "error", err)
			case pq.ListenerEventDisconnected:
				slog.Warn("change listener disconnected", "error", err)
			case pq.ListenerEventReconnected:
				slog.Info("change listener reconnected")
			}
		})
	defer listener.Close()

	if err := listener.Listen(db.ChangeChannel); err != nil {
		return fmt.Errorf("listen %s: %w", db.ChangeChannel, err)
	}
	slog.Info("listening for room changes", "channel", db.ChangeChannel)

	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case n, ok := <-listener.Notify:
			if !ok {
				return errors.New("change listener closed")
			}
			// pq sends nil after re-establishing the connection
			if n == nil {
				broker.Publish(models.ChangeEvent{Type: models.EventResync, At: time.Now().UTC()})
				continue
			}
			ev, err := parseNotification(n.Extra)
			if err != nil {
				slog.Warn("dropping change notification", "payload", n.Extra, "error", err)
				// Still a change on the channel; let subscribers refetch
				ev = models.ChangeEvent{Type: models.EventResync, At: time.Now().UTC()}
			}
			broker.Publish(ev)

		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					slog.Warn("change listener ping failed", "error", err)
				}
			}()
		}
	}
}

// parseNotification decodes the trigger's JSON payload
func parseNotification(payload string) (models.ChangeEvent, error) {
	if !gjson.Valid(payload) {
		return models.ChangeEvent{}, errBadNotification
	}

	fields := gjson.GetMany(payload, "type", "room_id", "at")
	ev := models.ChangeEvent{
		Type:   fields[0].String(),
		RoomID: fields[1].String(),
		At:     time.Now().UTC(),
	}

	switch ev.Type {
	case models.EventInsert, models.EventUpdate, models.EventDelete:
	default:
		return models.ChangeEvent{}, fmt.Errorf("%w: type %q", errBadNotification, ev.Type)
	}
	if ev.RoomID == "" {
		return models.ChangeEvent{}, fmt.Errorf("%w: missing room_id", errBadNotification)
	}
	if at := fields[2].String(); at != "" {
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return models.ChangeEvent{}, fmt.Errorf("%w: at: %v", errBadNotification, err)
		}
		ev.At = t.UTC()
	}
	return ev, nil
}
