package models

import "time"

// Room status constants
const (
	StatusActive = "active"
	StatusFull   = "full"
	StatusClosed = "closed"
)

// Mushroom categories
const (
	CategoryHuge       = "huge"
	CategoryEvent      = "event"
	CategoryNormal     = "normal"
	CategorySmall      = "small"
	CategoryNormalAttr = "normal_attr"
	CategoryLargeAttr  = "large_attr"
)

// Mushroom attributes
const (
	AttributeElectric = "electric"
	AttributeWater    = "water"
	AttributeCrystal  = "crystal"
	AttributeFire     = "fire"
	AttributePoison   = "poison"
	AttributeBlue     = "blue"
	AttributePink     = "pink"
	AttributeYellow   = "yellow"
	AttributeRed      = "red"
	AttributeIce      = "ice"
	AttributeWhite    = "white"
)

// Change event types
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
	// EventResync is emitted when the feed may have missed notifications
	// (e.g. after a listener reconnect).
	EventResync = "resync"
)

// Error codes carried in ErrorResponse.Code
const (
	CodeRoomFull       = "room_full"
	CodeAlreadyJoined  = "already_joined"
	CodeHostCannotJoin = "host_cannot_join"
	CodeUnauthorized   = "unauthorized"
	CodeNotFound       = "not_found"
	CodeInvalid        = "invalid"
	CodeTransport      = "transport"
)

func IsValidCategory(c string) bool {
	switch c {
	case CategoryHuge, CategoryEvent, CategoryNormal, CategorySmall, CategoryNormalAttr, CategoryLargeAttr:
		return true
	}
	return false
}

func IsValidAttribute(a string) bool {
	switch a {
	case AttributeElectric, AttributeWater, AttributeCrystal, AttributeFire, AttributePoison,
		AttributeBlue, AttributePink, AttributeYellow, AttributeRed, AttributeIce, AttributeWhite:
		return true
	}
	return false
}

// Domain types

type Participant struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	FriendCode string `json:"friend_code"`
}

type Room struct {
	ID           string        `json:"id"`
	Host         Participant   `json:"host"`
	Category     string        `json:"category"`
	Attribute    *string       `json:"attribute,omitempty"`
	Slots        int           `json:"slots"`
	Participants []Participant `json:"participants"`
	ImageURL     *string       `json:"image_url,omitempty"`
	StartTime    time.Time     `json:"start_time"`
	CreatedAt    time.Time     `json:"created_at"`
	Status       string        `json:"status"`
	MinStrength  *int          `json:"min_strength,omitempty"`
}

// HasParticipant reports whether friendCode is in the participant list.
// Codes are compared as given; callers normalize first.
func (r Room) HasParticipant(friendCode string) bool {
	for _, p := range r.Participants {
		if p.FriendCode == friendCode {
			return true
		}
	}
	return false
}

// OpenSlots is the number of participants that can still join.
func (r Room) OpenSlots() int {
	if n := r.Slots - len(r.Participants); n > 0 {
		return n
	}
	return 0
}

type ChangeEvent struct {
	Type   string    `json:"type"`
	RoomID string    `json:"room_id,omitempty"`
	At     time.Time `json:"at"`
}

type Profile struct {
	DeviceUUID  string    `json:"-"`
	Nickname    string    `json:"nickname"`
	FriendCode  string    `json:"friend_code"`
	ClaimsAdmin bool      `json:"claims_admin"`
	IsAdmin     bool      `json:"is_admin"` // recomputed on every read, never stored
	CreatedAt   time.Time `json:"created_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}

// Request types

type CreateRoomRequest struct {
	Category    string    `json:"category"`
	Attribute   *string   `json:"attribute,omitempty"`
	Slots       int       `json:"slots"`
	ImageURL    *string   `json:"image_url,omitempty"`
	StartTime   time.Time `json:"start_time"`
	MinStrength *int      `json:"min_strength,omitempty"`
}

type KickRequest struct {
	FriendCode string `json:"friend_code"`
}

type SaveProfileRequest struct {
	Nickname    string `json:"nickname"`
	FriendCode  string `json:"friend_code"`
	ClaimsAdmin bool   `json:"claims_admin"`
}

// Response types

type CreateRoomResponse struct {
	Room     Room   `json:"room"`
	ShareURL string `json:"share_url"`
}

type ListRoomsResponse struct {
	Rooms []Room `json:"rooms"`
}

type ShareLinkResponse struct {
	Token    string `json:"token"`
	ShareURL string `json:"share_url"`
}

type MyRoomsResponse struct {
	Hosted []Room `json:"hosted"`
	Joined []Room `json:"joined"`
}

type TipResponse struct {
	Tip string `json:"tip"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
