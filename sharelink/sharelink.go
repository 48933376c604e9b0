// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sharelink turns a room into a compact token that can be pasted into
// a URL, and back. Membership is never encoded: a decoded room always starts
// empty and active.
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/mushroom-rally/auth"
	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/google/uuid"
)

// payload keeps keys short so the token stays URL friendly
type payload struct {
	Nickname   string    `json:"h"`
	FriendCode string    `json:"c"`
	Category   string    `json:"cat"`
	Attribute  *string   `json:"a,omitempty"`
	Slots      int       `json:"s"`
	StartTime  time.Time `json:"t"`
	ID         string    `json:"id,omitempty"`
}

// Encode returns the share token for room
func Encode(room models.Room) string {
	b, _ := json.Marshal(payload{
		Nickname:   room.Host.Nickname,
		FriendCode: room.Host.FriendCode,
		Category:   room.Category,
		Attribute:  room.Attribute,
		Slots:      room.Slots,
		StartTime:  room.StartTime.UTC(),
		ID:         room.ID,
	})
	return base64.RawURLEncoding.EncodeToString(b)
}

// URL joins base and the share token for room
func URL(base string, room models.Room) string {
	return strings.TrimRight(base, "/") + "/share/" + Encode(room)
}

// Decode rebuilds a room from token. Any failure returns false and a zero
// room. A token without an id is given a fresh one.
func Decode(token string) (models.Room, bool) {
	raw, ok := decodeBase64(strings.TrimSpace(token))
	if !ok {
		return models.Room{}, false
	}

	// Tokens produced by browsers percent-encode the JSON before base64
	if len(raw) > 0 && raw[0] == '%' {
		unescaped, err := url.QueryUnescape(string(raw))
		if err != nil {
			return models.Room{}, false
		}
		raw = []byte(unescaped)
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Room{}, false
	}

	if p.Slots < 1 || !models.IsValidCategory(p.Category) {
		return models.Room{}, false
	}
	if p.Attribute != nil && !models.IsValidAttribute(*p.Attribute) {
		return models.Room{}, false
	}
	if strings.TrimSpace(p.Nickname) == "" || auth.NormalizeFriendCode(p.FriendCode) == "" {
		return models.Room{}, false
	}

	id := p.ID
	if id == "" {
		generated, err := auth.GenerateID(16)
		if err != nil {
			return models.Room{}, false
		}
		id = generated
	}

	return models.Room{
		ID: id,
		Host: models.Participant{
			ID:         uuid.NewString(),
			Nickname:   p.Nickname,
			FriendCode: auth.NormalizeFriendCode(p.FriendCode),
		},
		Category:     p.Category,
		Attribute:    p.Attribute,
		Slots:        p.Slots,
		Participants: []models.Participant{},
		StartTime:    p.StartTime.UTC(),
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		Status:       models.StatusActive,
	}, true
}

// decodeBase64 accepts URL-safe and standard alphabets, padded or not
func decodeBase64(s string) ([]byte, bool) {
	if s == "" {
		return nil, false
	}
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, true
		}
	}
	return nil, false
}
