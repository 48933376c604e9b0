// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roomclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/mushroom-rally/membership"
	"github.com/danielhkuo/mushroom-rally/middleware"
	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/gorilla/websocket"
)

const defaultTimeout = 15 * time.Second

// Client talks to a Mushroom Rally server on behalf of one caller. Errors are
// the membership sentinels, so code written against the coordinator handles
// remote failures the same way.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
	Caller     membership.Caller

	// reconnect delays for SubscribeToChanges
	minBackoff time.Duration
	maxBackoff time.Duration
}

func New(baseURL string, caller membership.Caller) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		Dialer:     websocket.DefaultDialer,
		Caller:     caller,
		minBackoff: 500 * time.Millisecond,
		maxBackoff: 30 * time.Second,
	}
}

// CreateRoom publishes a room hosted by the client's caller
func (c *Client) CreateRoom(ctx context.Context, req models.CreateRoomRequest) (models.CreateRoomResponse, error) {
	var resp models.CreateRoomResponse
	err := c.do(ctx, "create room", http.MethodPost, "/rooms", req, &resp)
	return resp, err
}

func (c *Client) GetRoom(ctx context.Context, roomID string) (models.Room, error) {
	var room models.Room
	err := c.do(ctx, "get room", http.MethodGet, "/rooms/"+url.PathEscape(roomID), nil, &room)
	return room, err
}

func (c *Client) JoinRoom(ctx context.Context, roomID string) (models.Room, error) {
	var room models.Room
	err := c.do(ctx, "join room", http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/join", nil, &room)
	return room, err
}

func (c *Client) LeaveRoom(ctx context.Context, roomID string) (models.Room, error) {
	var room models.Room
	err := c.do(ctx, "leave room", http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/leave", nil, &room)
	return room, err
}

func (c *Client) Kick(ctx context.Context, roomID, friendCode string) (models.Room, error) {
	var room models.Room
	body := models.KickRequest{FriendCode: friendCode}
	err := c.do(ctx, "kick participant", http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/kick", body, &room)
	return room, err
}

func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	return c.do(ctx, "delete room", http.MethodDelete, "/rooms/"+url.PathEscape(roomID), nil, nil)
}

// ShareLink returns the share token and URL for a stored room
func (c *Client) ShareLink(ctx context.Context, roomID string) (models.ShareLinkResponse, error) {
	var resp models.ShareLinkResponse
	err := c.do(ctx, "share room", http.MethodGet, "/rooms/"+url.PathEscape(roomID)+"/share", nil, &resp)
	return resp, err
}

// FetchActiveRooms returns active rooms created after since, newest first
func (c *Client) FetchActiveRooms(ctx context.Context, since time.Time) ([]models.Room, error) {
	var resp models.ListRoomsResponse
	path := "/rooms?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339Nano))
	if err := c.do(ctx, "fetch rooms", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Rooms == nil {
		resp.Rooms = []models.Room{}
	}
	return resp.Rooms, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &membership.TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &membership.TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setIdentity(req.Header)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &membership.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &membership.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) setIdentity(h http.Header) {
	if c.Caller.FriendCode != "" {
		h.Set(middleware.HeaderFriendCode, c.Caller.FriendCode)
	}
	if c.Caller.Nickname != "" {
		h.Set(middleware.HeaderNickname, c.Caller.Nickname)
	}
	if c.Caller.ClaimsAdmin {
		h.Set(middleware.HeaderAdminClaim, strconv.FormatBool(true))
	}
}

// decodeError maps an error body back onto the coordinator's sentinels
func decodeError(op string, resp *http.Response) error {
	var body models.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	var sentinel error
	switch body.Code {
	case models.CodeRoomFull:
		sentinel = membership.ErrRoomFull
	case models.CodeAlreadyJoined:
		sentinel = membership.ErrAlreadyJoined
	case models.CodeHostCannotJoin:
		sentinel = membership.ErrHostCannotJoin
	case models.CodeNotFound:
		sentinel = membership.ErrNotFound
	case models.CodeInvalid:
		sentinel = membership.ErrInvalidRoom
	case models.CodeUnauthorized:
		if resp.StatusCode == http.StatusUnauthorized {
			sentinel = membership.ErrInvalidCaller
		} else {
			sentinel = membership.ErrUnauthorized
		}
	case "":
		switch resp.StatusCode {
		case http.StatusBadRequest:
			sentinel = membership.ErrInvalidRoom
		case http.StatusNotFound:
			sentinel = membership.ErrNotFound
		}
	}

	if sentinel == nil {
		return &membership.TransportError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
	}
	return fmt.Errorf("%s: %w", op, sentinel)
}
