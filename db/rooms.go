// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/mushroom-rally/models"
)

var (
	ErrNotFound      = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyJoined = errors.New("already joined")
	ErrHostInRoom    = errors.New("host cannot join own room")
	ErrContention    = errors.New("too many concurrent updates")
)

// maxCASAttempts bounds how often a participant update re-reads the room
// after losing a version race. Each lost race means another writer committed.
const maxCASAttempts = 64

// Store is the source of truth for rooms. Every participant change is a
// compare-and-swap on the room's version column.
type Store struct {
	db     *sql.DB
	notify func(models.ChangeEvent)
	now    func() time.Time
}

// NewStore wraps db. notify, if non-nil, is called after every committed
// change; leave it nil when the database emits its own notifications.
func NewStore(db *sql.DB, notify func(models.ChangeEvent)) *Store {
	return &Store{db: db, notify: notify, now: time.Now}
}

const roomColumns = `
	id, host_id, host_nickname, host_friend_code, category, attribute, slots,
	participants, image_url, start_time, created_at, status, min_strength, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (models.Room, int64, error) {
	var (
		room         models.Room
		attribute    sql.NullString
		imageURL     sql.NullString
		minStrength  sql.NullInt64
		participants string
		startTime    int64
		createdAt    int64
		version      int64
	)
	err := row.Scan(
		&room.ID, &room.Host.ID, &room.Host.Nickname, &room.Host.FriendCode,
		&room.Category, &attribute, &room.Slots, &participants, &imageURL,
		&startTime, &createdAt, &room.Status, &minStrength, &version,
	)
	if err != nil {
		return models.Room{}, 0, err
	}

	if err := json.Unmarshal([]byte(participants), &room.Participants); err != nil {
		return models.Room{}, 0, fmt.Errorf("decode participants of room %s: %w", room.ID, err)
	}
	if room.Participants == nil {
		room.Participants = []models.Participant{}
	}
	if attribute.Valid {
		room.Attribute = &attribute.String
	}
	if imageURL.Valid {
		room.ImageURL = &imageURL.String
	}
	if minStrength.Valid {
		v := int(minStrength.Int64)
		room.MinStrength = &v
	}
	room.StartTime = fromMillis(startTime)
	room.CreatedAt = fromMillis(createdAt)

	return room, version, nil
}

// CreateRoom inserts room, or updates the descriptive fields of an existing
// room with the same id. Host, capacity, participants and created_at are
// never rewritten by a repeated create.
func (s *Store) CreateRoom(ctx context.Context, room models.Room) error {
	participants, err := encodeParticipants(room.Participants)
	if err != nil {
		return err
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM room WHERE id = $1)`, room.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check room %s: %w", room.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO room (`+roomColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0)
		ON CONFLICT (id) DO UPDATE SET
			category = excluded.category,
			attribute = excluded.attribute,
			image_url = excluded.image_url,
			start_time = excluded.start_time,
			min_strength = excluded.min_strength,
			version = room.version + 1
	`, room.ID, room.Host.ID, room.Host.Nickname, room.Host.FriendCode,
		room.Category, nullString(room.Attribute), room.Slots, participants,
		nullString(room.ImageURL), toMillis(room.StartTime), toMillis(room.CreatedAt),
		room.Status, nullInt(room.MinStrength))
	if err != nil {
		return fmt.Errorf("upsert room %s: %w", room.ID, err)
	}

	eventType := models.EventInsert
	if exists {
		eventType = models.EventUpdate
	}
	s.emit(eventType, room.ID)
	return nil
}

// GetRoom returns the stored room or ErrNotFound
func (s *Store) GetRoom(ctx context.Context, roomID string) (models.Room, error) {
	room, _, err := s.getRoom(ctx, roomID)
	return room, err
}

func (s *Store) getRoom(ctx context.Context, roomID string) (models.Room, int64, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM room WHERE id = $1`, roomID)
	room, version, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return models.Room{}, 0, ErrNotFound
	}
	if err != nil {
		return models.Room{}, 0, fmt.Errorf("query room %s: %w", roomID, err)
	}
	return room, version, nil
}

// JoinRoom appends p to the room's participants. Capacity, uniqueness and
// host exclusion are checked against the stored state at commit time.
func (s *Store) JoinRoom(ctx context.Context, roomID string, p models.Participant) (models.Room, error) {
	room, _, err := s.updateParticipants(ctx, roomID, func(room models.Room) ([]models.Participant, bool, error) {
		switch {
		case p.FriendCode == room.Host.FriendCode:
			return nil, false, ErrHostInRoom
		case room.HasParticipant(p.FriendCode):
			return nil, false, ErrAlreadyJoined
		case len(room.Participants) >= room.Slots:
			return nil, false, ErrRoomFull
		}
		next := make([]models.Participant, 0, len(room.Participants)+1)
		next = append(next, room.Participants...)
		return append(next, p), true, nil
	})
	return room, err
}

// RemoveParticipant drops friendCode from the room. The bool result is false
// when the code was not present, in which case nothing is written.
func (s *Store) RemoveParticipant(ctx context.Context, roomID, friendCode string) (models.Room, bool, error) {
	return s.updateParticipants(ctx, roomID, func(room models.Room) ([]models.Participant, bool, error) {
		next := make([]models.Participant, 0, len(room.Participants))
		for _, p := range room.Participants {
			if p.FriendCode != friendCode {
				next = append(next, p)
			}
		}
		return next, len(next) != len(room.Participants), nil
	})
}

// updateParticipants is the single conditional-commit primitive: read the
// room and its version, compute the next participant list, and write it only
// if the version is unchanged. A lost race re-evaluates against the newer
// state.
func (s *Store) updateParticipants(
	ctx context.Context,
	roomID string,
	next func(models.Room) ([]models.Participant, bool, error),
) (models.Room, bool, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return models.Room{}, false, err
		}

		room, version, err := s.getRoom(ctx, roomID)
		if err != nil {
			return models.Room{}, false, err
		}

		participants, changed, err := next(room)
		if err != nil {
			return room, false, err
		}
		if !changed {
			return room, false, nil
		}

		payload, err := encodeParticipants(participants)
		if err != nil {
			return models.Room{}, false, err
		}

		res, err := s.db.ExecContext(ctx, `
			UPDATE room
			SET participants = $1, version = version + 1
			WHERE id = $2 AND version = $3
		`, payload, roomID, version)
		if err != nil {
			return models.Room{}, false, fmt.Errorf("update participants of room %s: %w", roomID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return models.Room{}, false, fmt.Errorf("update participants of room %s: %w", roomID, err)
		}
		if n == 1 {
			room.Participants = participants
			s.emit(models.EventUpdate, roomID)
			return room, true, nil
		}
	}

	return models.Room{}, false, ErrContention
}

// DeleteRoom removes the room entirely
func (s *Store) DeleteRoom(ctx context.Context, roomID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM room WHERE id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.emit(models.EventDelete, roomID)
	return nil
}

// FetchActiveRooms returns active rooms created after since, newest first.
// Rooms created in the same millisecond are ordered by id.
func (s *Store) FetchActiveRooms(ctx context.Context, since time.Time) ([]models.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+roomColumns+`
		FROM room
		WHERE status = $1 AND created_at > $2
		ORDER BY created_at DESC, id ASC
	`, models.StatusActive, toMillis(since))
	if err != nil {
		return nil, fmt.Errorf("query active rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		room, _, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return rooms, nil
}

func (s *Store) emit(eventType, roomID string) {
	if s.notify == nil {
		return
	}
	s.notify(models.ChangeEvent{Type: eventType, RoomID: roomID, At: s.now().UTC()})
}

func encodeParticipants(ps []models.Participant) (string, error) {
	if ps == nil {
		ps = []models.Participant{}
	}
	b, err := json.Marshal(ps)
	if err != nil {
		return "", fmt.Errorf("encode participants: %w", err)
	}
	return string(b), nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
