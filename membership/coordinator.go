// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/mushroom-rally/auth"
	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/google/uuid"
)

// Store is the source of truth the coordinator commits to. JoinRoom and
// RemoveParticipant must be single conditional commits against the stored
// participant list.
type Store interface {
	CreateRoom(ctx context.Context, room models.Room) error
	GetRoom(ctx context.Context, roomID string) (models.Room, error)
	JoinRoom(ctx context.Context, roomID string, p models.Participant) (models.Room, error)
	RemoveParticipant(ctx context.Context, roomID, friendCode string) (models.Room, bool, error)
	DeleteRoom(ctx context.Context, roomID string) error
}

// Caller is the identity presented with a single request
type Caller struct {
	FriendCode  string
	Nickname    string
	ClaimsAdmin bool
}

type Coordinator struct {
	store       Store
	masterToken string
	now         func() time.Time
}

func NewCoordinator(store Store, masterToken string) *Coordinator {
	return &Coordinator{store: store, masterToken: masterToken, now: time.Now}
}

// Create publishes a new room hosted by caller
func (c *Coordinator) Create(ctx context.Context, caller Caller, req models.CreateRoomRequest) (models.Room, error) {
	host, err := c.participant(caller)
	if err != nil {
		return models.Room{}, err
	}

	if req.Slots < 1 {
		return models.Room{}, fmt.Errorf("%w: slots must be at least 1", ErrInvalidRoom)
	}
	if !models.IsValidCategory(req.Category) {
		return models.Room{}, fmt.Errorf("%w: unknown category %q", ErrInvalidRoom, req.Category)
	}
	if req.Attribute != nil && !models.IsValidAttribute(*req.Attribute) {
		return models.Room{}, fmt.Errorf("%w: unknown attribute %q", ErrInvalidRoom, *req.Attribute)
	}
	if req.MinStrength != nil && *req.MinStrength < 0 {
		return models.Room{}, fmt.Errorf("%w: min_strength must not be negative", ErrInvalidRoom)
	}

	roomID, err := auth.GenerateID(16)
	if err != nil {
		return models.Room{}, &TransportError{Op: "create room", Err: err}
	}

	now := c.now().UTC().Truncate(time.Millisecond)
	startTime := req.StartTime.UTC().Truncate(time.Millisecond)
	if req.StartTime.IsZero() {
		startTime = now
	}

	room := models.Room{
		ID:           roomID,
		Host:         host,
		Category:     req.Category,
		Attribute:    req.Attribute,
		Slots:        req.Slots,
		Participants: []models.Participant{},
		ImageURL:     req.ImageURL,
		StartTime:    startTime,
		CreatedAt:    now,
		Status:       models.StatusActive,
		MinStrength:  req.MinStrength,
	}

	if err := c.store.CreateRoom(ctx, room); err != nil {
		slog.Error("failed to create room", "room_id", roomID, "error", err)
		return models.Room{}, translate("create room", err)
	}

	slog.Info("room created", "room_id", roomID, "category", room.Category, "slots", room.Slots)
	return room, nil
}

// Join appends caller to the room. Capacity, uniqueness and host exclusion
// are decided by the store against its committed state.
func (c *Coordinator) Join(ctx context.Context, roomID string, caller Caller) (models.Room, error) {
	p, err := c.participant(caller)
	if err != nil {
		return models.Room{}, err
	}

	room, err := c.store.JoinRoom(ctx, roomID, p)
	if err != nil {
		err = translate("join room", err)
		if isTransport(err) {
			slog.Error("failed to join room", "room_id", roomID, "error", err)
		}
		return models.Room{}, err
	}

	slog.Info("participant joined", "room_id", roomID, "friend_code", p.FriendCode, "participants", len(room.Participants))
	return room, nil
}

// Leave removes caller from the room. Leaving a room the caller is not in
// changes nothing and is not an error.
func (c *Coordinator) Leave(ctx context.Context, roomID string, caller Caller) (models.Room, error) {
	code := auth.NormalizeFriendCode(caller.FriendCode)
	if code == "" {
		return models.Room{}, ErrInvalidCaller
	}

	room, removed, err := c.store.RemoveParticipant(ctx, roomID, code)
	if err != nil {
		err = translate("leave room", err)
		if isTransport(err) {
			slog.Error("failed to leave room", "room_id", roomID, "error", err)
		}
		return models.Room{}, err
	}

	if removed {
		slog.Info("participant left", "room_id", roomID, "friend_code", code)
	}
	return room, nil
}

// Kick removes target from the room. Only the host may kick; an admin who is
// not the host is refused.
func (c *Coordinator) Kick(ctx context.Context, roomID string, caller Caller, target string) (models.Room, error) {
	room, err := c.store.GetRoom(ctx, roomID)
	if err != nil {
		return models.Room{}, translate("kick participant", err)
	}

	authority := auth.ResolveRole(room, caller.FriendCode, caller.ClaimsAdmin, c.masterToken)
	if !authority.CanKick() {
		slog.Warn("kick refused", "room_id", roomID, "role", authority.Role, "admin", authority.Admin)
		return models.Room{}, ErrUnauthorized
	}

	code := auth.NormalizeFriendCode(target)
	if code == "" {
		return models.Room{}, fmt.Errorf("%w: friend_code is required", ErrInvalidRoom)
	}

	// Host is immutable, so the authority decision above cannot go stale
	// before the conditional removal commits.
	room, removed, err := c.store.RemoveParticipant(ctx, roomID, code)
	if err != nil {
		err = translate("kick participant", err)
		if isTransport(err) {
			slog.Error("failed to kick participant", "room_id", roomID, "error", err)
		}
		return models.Room{}, err
	}

	if removed {
		slog.Info("participant kicked", "room_id", roomID, "friend_code", code)
	}
	return room, nil
}

// Delete removes the room. Host or a valid admin only.
func (c *Coordinator) Delete(ctx context.Context, roomID string, caller Caller) error {
	room, err := c.store.GetRoom(ctx, roomID)
	if err != nil {
		return translate("delete room", err)
	}

	authority := auth.ResolveRole(room, caller.FriendCode, caller.ClaimsAdmin, c.masterToken)
	if !authority.CanDelete() {
		slog.Warn("delete refused", "room_id", roomID, "role", authority.Role, "claims_admin", caller.ClaimsAdmin)
		return ErrUnauthorized
	}

	if err := c.store.DeleteRoom(ctx, roomID); err != nil {
		err = translate("delete room", err)
		if isTransport(err) {
			slog.Error("failed to delete room", "room_id", roomID, "error", err)
		}
		return err
	}

	slog.Info("room deleted", "room_id", roomID, "by_admin", authority.Admin && authority.Role != auth.RoleHost)
	return nil
}

// participant validates caller and builds the entry stored in a room
func (c *Coordinator) participant(caller Caller) (models.Participant, error) {
	code, err := auth.ValidateFriendCode(caller.FriendCode, c.masterToken)
	if err != nil {
		return models.Participant{}, fmt.Errorf("%w: %v", ErrInvalidCaller, err)
	}
	nickname := strings.TrimSpace(caller.Nickname)
	if nickname == "" {
		return models.Participant{}, fmt.Errorf("%w: nickname is required", ErrInvalidCaller)
	}
	return models.Participant{
		ID:         uuid.NewString(),
		Nickname:   nickname,
		FriendCode: code,
	}, nil
}

func isTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
