// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roomview

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/danielhkuo/mushroom-rally/auth"
	"github.com/danielhkuo/mushroom-rally/models"
)

// DefaultTTL is how long after creation a room stays visible
const DefaultTTL = 24 * time.Hour

// Fetcher reads active rooms created after since from the source of truth
type Fetcher interface {
	FetchActiveRooms(ctx context.Context, since time.Time) ([]models.Room, error)
}

// View is a local copy of the visible room set. Every Refresh replaces the
// whole set; nothing is patched incrementally.
type View struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	rooms   []models.Room
	seq     uint64 // incremented when a refresh starts
	applied uint64 // seq of the refresh currently held in rooms
}

func NewView(fetcher Fetcher, ttl time.Duration) *View {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &View{fetcher: fetcher, ttl: ttl, now: time.Now, rooms: []models.Room{}}
}

// Refresh refetches the room set and replaces the local copy. On error the
// previous set is kept. A refresh that finishes after a newer one started
// and completed is discarded.
func (v *View) Refresh(ctx context.Context) ([]models.Room, error) {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.mu.Unlock()

	cutoff := v.now().Add(-v.ttl)
	fetched, err := v.fetcher.FetchActiveRooms(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("refresh rooms: %w", err)
	}

	rooms := visible(fetched, cutoff)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq < v.applied {
		return clone(v.rooms), nil
	}
	v.rooms = rooms
	v.applied = seq
	return clone(rooms), nil
}

// Rooms returns the current set, dropping rooms that expired since the last
// refresh.
func (v *View) Rooms() []models.Room {
	cutoff := v.now().Add(-v.ttl)

	v.mu.RLock()
	defer v.mu.RUnlock()
	return visible(v.rooms, cutoff)
}

// visible filters to active rooms created after cutoff, newest first with
// ties broken by id. It always returns a new slice.
func visible(rooms []models.Room, cutoff time.Time) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Status != models.StatusActive || !r.CreatedAt.After(cutoff) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func clone(rooms []models.Room) []models.Room {
	out := make([]models.Room, len(rooms))
	copy(out, rooms)
	return out
}

// HostedBy returns the rooms hosted by friendCode, preserving order
func HostedBy(rooms []models.Room, friendCode string) []models.Room {
	code := auth.NormalizeFriendCode(friendCode)
	out := []models.Room{}
	if code == "" {
		return out
	}
	for _, r := range rooms {
		if auth.NormalizeFriendCode(r.Host.FriendCode) == code {
			out = append(out, r)
		}
	}
	return out
}

// JoinedBy returns the rooms friendCode participates in. Hosted rooms are
// never included.
func JoinedBy(rooms []models.Room, friendCode string) []models.Room {
	code := auth.NormalizeFriendCode(friendCode)
	out := []models.Room{}
	if code == "" {
		return out
	}
	for _, r := range rooms {
		if auth.NormalizeFriendCode(r.Host.FriendCode) == code {
			continue
		}
		if r.HasParticipant(code) {
			out = append(out, r)
		}
	}
	return out
}
