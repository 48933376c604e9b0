// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/google/uuid"
)

// Publish drops events for a subscriber whose buffer is full. The events
// already queued guarantee that subscriber another refetch.
const subscriberBuffer = 8

// Broker fans room change events out to in-process subscribers
type Broker struct {
	mu   sync.RWMutex
	subs map[string]chan models.ChangeEvent
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]chan models.ChangeEvent)}
}

// Publish delivers ev to every subscriber without blocking
func (b *Broker) Publish(ev models.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			slog.Debug("change subscriber busy, event coalesced", "subscriber", id, "type", ev.Type)
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel func removes it
// and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe() (string, <-chan models.ChangeEvent, func()) {
	id := uuid.NewString()
	ch := make(chan models.ChangeEvent, subscriberBuffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return id, ch, cancel
}

// Subscribers reports the current subscriber count
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// SubscribeToChanges calls onAnyChange once per received event until ctx is
// done or the returned unsubscribe func is called. Unsubscribe blocks until
// any in-flight callback has returned.
func (b *Broker) SubscribeToChanges(ctx context.Context, onAnyChange func()) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, events, cancel := b.Subscribe()
	ctx, stop := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				onAnyChange()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			<-done
		})
	}, nil
}
