// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roomview

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/mushroom-rally/models"
)

const refreshTimeout = 10 * time.Second

var ErrListenerStarted = errors.New("listener already started")

// Subscriber delivers a callback for every change to the room collection
type Subscriber interface {
	SubscribeToChanges(ctx context.Context, onAnyChange func()) (func(), error)
}

// Listener keeps a View in step with the change feed. Every notification
// triggers a full Refresh, regardless of what changed.
type Listener struct {
	view   *View
	source Subscriber

	mu          sync.Mutex
	unsubscribe func()

	// cbMu is separate from mu so a callback never waits on Start or Stop
	cbMu      sync.Mutex
	onRefresh func([]models.Room)
}

func NewListener(view *View, source Subscriber) *Listener {
	return &Listener{view: view, source: source}
}

// OnRefresh registers fn to receive the room set after each successful
// refresh. Call before Start.
func (l *Listener) OnRefresh(fn func([]models.Room)) {
	l.cbMu.Lock()
	defer l.cbMu.Unlock()
	l.onRefresh = fn
}

// Start subscribes to the feed and then performs an initial refresh, so no
// change between the two can be missed. The subscription ends when ctx is
// done or Stop is called.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.unsubscribe != nil {
		return ErrListenerStarted
	}

	unsubscribe, err := l.source.SubscribeToChanges(ctx, func() { l.refresh(ctx) })
	if err != nil {
		return err
	}
	l.unsubscribe = unsubscribe

	rooms, err := l.view.Refresh(ctx)
	if err != nil {
		unsubscribe()
		l.unsubscribe = nil
		return err
	}
	l.notify(rooms)
	return nil
}

// Stop unsubscribes and waits for an in-flight refresh to finish. Safe to
// call on a listener that was never started.
func (l *Listener) Stop() {
	l.mu.Lock()
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	l.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (l *Listener) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	rooms, err := l.view.Refresh(ctx)
	if err != nil {
		slog.Warn("room view refresh failed", "error", err)
		return
	}

	l.notify(rooms)
}

func (l *Listener) notify(rooms []models.Room) {
	l.cbMu.Lock()
	fn := l.onRefresh
	l.cbMu.Unlock()
	if fn != nil {
		fn(rooms)
	}
}
