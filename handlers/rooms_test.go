// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/mushroom-rally/auth"
	"github.com/danielhkuo/mushroom-rally/cliparse"
	"github.com/danielhkuo/mushroom-rally/db"
	"github.com/danielhkuo/mushroom-rally/membership"
	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/danielhkuo/mushroom-rally/roomview"
	"github.com/danielhkuo/mushroom-rally/sharelink"
	"github.com/danielhkuo/mushroom-rally/testutil"
)

type testEnv struct {
	cfg      cliparse.Config
	conn     *sql.DB
	store    *db.Store
	view     *roomview.View
	rooms    *RoomHandler
	profiles *ProfileHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testutil.GetTestConfig()
	conn := testutil.SetupTestDB(t)
	store := db.NewStore(conn, nil)
	view := roomview.NewView(store, cfg.RoomTTL)
	coord := membership.NewCoordinator(store, cfg.MasterToken)
	return &testEnv{
		cfg:      cfg,
		conn:     conn,
		store:    store,
		view:     view,
		rooms:    NewRoomHandler(store, coord, view, cfg),
		profiles: NewProfileHandler(store, view, cfg),
	}
}

// createRoom posts a room as the default host and returns it
func (e *testEnv) createRoom(t *testing.T, slots int) models.Room {
	t.Helper()
	req := testutil.MakeRequest("POST", "/rooms", models.CreateRoomRequest{
		Category: models.CategoryNormal,
		Slots:    slots,
	}, testutil.CallerHeaders(testutil.HostCode, "Host", false))
	w := httptest.NewRecorder()

	e.rooms.CreateRoom(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateRoomResponse
	testutil.AssertJSON(t, w, &resp)
	return resp.Room
}

func (e *testEnv) join(roomID, code, nickname string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/rooms/"+roomID+"/join", nil, testutil.CallerHeaders(code, nickname, false))
	req.SetPathValue("id", roomID)
	w := httptest.NewRecorder()
	e.rooms.JoinRoom(w, req)
	return w
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	testutil.AssertStatus(t, w, status)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Code != code {
		t.Errorf("Expected code '%s', got '%s' (%s)", code, resp.Code, resp.Message)
	}
}

func TestCreateRoom(t *testing.T) {
	env := newTestEnv(t)
	attr := models.AttributeCrystal

	req := testutil.MakeRequest("POST", "/rooms", models.CreateRoomRequest{
		Category:  models.CategoryNormalAttr,
		Attribute: &attr,
		Slots:     3,
		StartTime: time.Now().Add(time.Hour),
	}, testutil.CallerHeaders("1111 1111 1111", "Olimar", false))
	w := httptest.NewRecorder()

	env.rooms.CreateRoom(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.CreateRoomResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Room.ID == "" {
		t.Error("Expected room ID")
	}
	if resp.Room.Host.FriendCode != testutil.HostCode {
		t.Errorf("Expected normalized host code, got '%s'", resp.Room.Host.FriendCode)
	}
	if resp.Room.Status != models.StatusActive || len(resp.Room.Participants) != 0 {
		t.Errorf("Expected empty active room, got %+v", resp.Room)
	}
	if !strings.HasPrefix(resp.ShareURL, env.cfg.ShareBaseURL+"/share/") {
		t.Errorf("Unexpected share URL '%s'", resp.ShareURL)
	}

	stored, err := env.store.GetRoom(context.Background(), resp.Room.ID)
	if err != nil {
		t.Fatalf("room not stored: %v", err)
	}
	if stored.Attribute == nil || *stored.Attribute != attr {
		t.Errorf("Expected attribute %s, got %v", attr, stored.Attribute)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		body    interface{}
		headers map[string]string
		status  int
		code    string
	}{
		{
			name:    "missing identity",
			body:    models.CreateRoomRequest{Category: models.CategoryNormal, Slots: 1},
			headers: nil,
			status:  http.StatusUnauthorized,
			code:    models.CodeUnauthorized,
		},
		{
			name:    "malformed friend code",
			body:    models.CreateRoomRequest{Category: models.CategoryNormal, Slots: 1},
			headers: testutil.CallerHeaders("12-34", "Host", false),
			status:  http.StatusUnauthorized,
			code:    models.CodeUnauthorized,
		},
		{
			name:    "zero slots",
			body:    models.CreateRoomRequest{Category: models.CategoryNormal, Slots: 0},
			headers: testutil.CallerHeaders(testutil.HostCode, "Host", false),
			status:  http.StatusBadRequest,
			code:    models.CodeInvalid,
		},
		{
			name:    "unknown category",
			body:    models.CreateRoomRequest{Category: "colossal", Slots: 2},
			headers: testutil.CallerHeaders(testutil.HostCode, "Host", false),
			status:  http.StatusBadRequest,
			code:    models.CodeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			env.rooms.CreateRoom(w, testutil.MakeRequest("POST", "/rooms", tt.body, tt.headers))
			assertErrorCode(t, w, tt.status, tt.code)
		})
	}

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/rooms", strings.NewReader("{nope"))
		for k, v := range testutil.CallerHeaders(testutil.HostCode, "Host", false) {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		env.rooms.CreateRoom(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestJoinRoomErrors(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, 1)

	testutil.AssertStatus(t, env.join(room.ID, testutil.AliceCode, "Alice"), http.StatusOK)

	assertErrorCode(t, env.join(room.ID, testutil.AliceCode, "Alice"), http.StatusConflict, models.CodeAlreadyJoined)
	assertErrorCode(t, env.join(room.ID, testutil.BobCode, "Bob"), http.StatusConflict, models.CodeRoomFull)
	assertErrorCode(t, env.join(room.ID, testutil.HostCode, "Host"), http.StatusConflict, models.CodeHostCannotJoin)
	assertErrorCode(t, env.join("missing", testutil.BobCode, "Bob"), http.StatusNotFound, models.CodeNotFound)
	assertErrorCode(t, env.join(room.ID, testutil.BobCode, ""), http.StatusUnauthorized, models.CodeUnauthorized)
}

func TestLeaveRoom(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, 2)
	testutil.AssertStatus(t, env.join(room.ID, testutil.AliceCode, "Alice"), http.StatusOK)

	leave := func(code string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/rooms/"+room.ID+"/leave", nil, testutil.CallerHeaders(code, "", false))
		req.SetPathValue("id", room.ID)
		w := httptest.NewRecorder()
		env.rooms.LeaveRoom(w, req)
		return w
	}

	w := leave(testutil.AliceCode)
	testutil.AssertStatus(t, w, http.StatusOK)
	var got models.Room
	testutil.AssertJSON(t, w, &got)
	if len(got.Participants) != 0 {
		t.Errorf("Expected no participants, got %d", len(got.Participants))
	}

	// Leaving again is a silent no-op
	testutil.AssertStatus(t, leave(testutil.AliceCode), http.StatusOK)

	assertErrorCode(t, leave(""), http.StatusUnauthorized, models.CodeUnauthorized)
}

func TestKickParticipant(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, 3)
	testutil.AssertStatus(t, env.join(room.ID, testutil.AliceCode, "Alice"), http.StatusOK)
	testutil.AssertStatus(t, env.join(room.ID, testutil.BobCode, "Bob"), http.StatusOK)

	kick := func(headers map[string]string, target string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/rooms/"+room.ID+"/kick", models.KickRequest{FriendCode: target}, headers)
		req.SetPathValue("id", room.ID)
		w := httptest.NewRecorder()
		env.rooms.KickParticipant(w, req)
		return w
	}

	assertErrorCode(t, kick(testutil.CallerHeaders(testutil.BobCode, "Bob", false), testutil.AliceCode), http.StatusForbidden, models.CodeUnauthorized)
	assertErrorCode(t, kick(testutil.CallerHeaders(auth.DefaultMasterToken, "Admin", true), testutil.AliceCode), http.StatusForbidden, models.CodeUnauthorized)

	w := kick(testutil.CallerHeaders(testutil.HostCode, "Host", false), testutil.AliceCode)
	testutil.AssertStatus(t, w, http.StatusOK)
	var got models.Room
	testutil.AssertJSON(t, w, &got)
	if len(got.Participants) != 1 || got.Participants[0].FriendCode != testutil.BobCode {
		t.Errorf("Expected only Bob left, got %+v", got.Participants)
	}
}

func TestDeleteRoom(t *testing.T) {
	env := newTestEnv(t)

	del := func(roomID string, headers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("DELETE", "/rooms/"+roomID, nil, headers)
		req.SetPathValue("id", roomID)
		w := httptest.NewRecorder()
		env.rooms.DeleteRoom(w, req)
		return w
	}

	tests := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{"host", testutil.CallerHeaders(testutil.HostCode, "Host", false), http.StatusNoContent},
		{"admin", testutil.CallerHeaders("lloginatw", "Admin", true), http.StatusNoContent},
		{"forged admin", testutil.CallerHeaders(testutil.DaveCode, "Dave", true), http.StatusForbidden},
		{"bystander", testutil.CallerHeaders(testutil.CarolCode, "Carol", false), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := env.createRoom(t, 2)
			w := del(room.ID, tt.headers)
			testutil.AssertStatus(t, w, tt.status)

			_, err := env.store.GetRoom(context.Background(), room.ID)
			if tt.status == http.StatusNoContent && err != db.ErrNotFound {
				t.Errorf("Expected room to be gone, got err=%v", err)
			}
			if tt.status != http.StatusNoContent && err != nil {
				t.Errorf("Expected room to survive, got err=%v", err)
			}
		})
	}

	assertErrorCode(t, del("missing", testutil.CallerHeaders(testutil.HostCode, "Host", false)), http.StatusNotFound, models.CodeNotFound)
}

func TestListRooms(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now()
	old := testutil.CreateTestRoom(t, env.conn, 2, now.Add(-25*time.Hour))
	newer := testutil.CreateTestRoom(t, env.conn, 2, now.Add(-time.Hour))
	newest := testutil.CreateTestRoom(t, env.conn, 2, now.Add(-time.Minute))

	w := httptest.NewRecorder()
	env.rooms.ListRooms(w, httptest.NewRequest("GET", "/rooms", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ListRoomsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Rooms) != 2 || resp.Rooms[0].ID != newest.ID || resp.Rooms[1].ID != newer.ID {
		t.Errorf("Expected [newest, newer], got %d rooms", len(resp.Rooms))
	}

	since := now.Add(-48 * time.Hour).UTC().Format(time.RFC3339)
	w = httptest.NewRecorder()
	env.rooms.ListRooms(w, httptest.NewRequest("GET", "/rooms?since="+since, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	resp = models.ListRoomsResponse{}
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Rooms) != 3 || resp.Rooms[2].ID != old.ID {
		t.Errorf("Expected all three rooms with explicit since, got %d", len(resp.Rooms))
	}

	w = httptest.NewRecorder()
	env.rooms.ListRooms(w, httptest.NewRequest("GET", "/rooms?since=yesterday", nil))
	assertErrorCode(t, w, http.StatusBadRequest, models.CodeInvalid)
}

func TestGetRoom(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, 2)

	req := httptest.NewRequest("GET", "/rooms/"+room.ID, nil)
	req.SetPathValue("id", room.ID)
	w := httptest.NewRecorder()
	env.rooms.GetRoom(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.Room
	testutil.AssertJSON(t, w, &got)
	if got.ID != room.ID || got.Slots != 2 {
		t.Errorf("Unexpected room %+v", got)
	}

	req = httptest.NewRequest("GET", "/rooms/missing", nil)
	req.SetPathValue("id", "missing")
	w = httptest.NewRecorder()
	env.rooms.GetRoom(w, req)
	assertErrorCode(t, w, http.StatusNotFound, models.CodeNotFound)
}

func TestShareRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, 4)
	testutil.AssertStatus(t, env.join(room.ID, testutil.AliceCode, "Alice"), http.StatusOK)

	req := httptest.NewRequest("GET", "/rooms/"+room.ID+"/share", nil)
	req.SetPathValue("id", room.ID)
	w := httptest.NewRecorder()
	env.rooms.ShareRoom(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var share models.ShareLinkResponse
	testutil.AssertJSON(t, w, &share)
	if share.ShareURL != sharelink.URL(env.cfg.ShareBaseURL, room) {
		t.Errorf("Unexpected share URL '%s'", share.ShareURL)
	}

	req = httptest.NewRequest("GET", "/share/"+share.Token, nil)
	req.SetPathValue("token", share.Token)
	w = httptest.NewRecorder()
	env.rooms.DecodeShare(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var decoded models.Room
	testutil.AssertJSON(t, w, &decoded)
	if decoded.ID != room.ID || decoded.Slots != 4 || decoded.Host.FriendCode != testutil.HostCode {
		t.Errorf("Decoded room does not match: %+v", decoded)
	}
	if len(decoded.Participants) != 0 {
		t.Error("Decoded room must not carry participants")
	}

	req = httptest.NewRequest("GET", "/share/garbage", nil)
	req.SetPathValue("token", "garbage!!")
	w = httptest.NewRecorder()
	env.rooms.DecodeShare(w, req)
	assertErrorCode(t, w, http.StatusBadRequest, models.CodeInvalid)
}

func TestBoard(t *testing.T) {
	env := newTestEnv(t)
	room := env.createRoom(t, 2)

	if _, err := env.view.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	w := httptest.NewRecorder()
	env.rooms.Board(w, httptest.NewRequest("GET", "/board", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ListRoomsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Rooms) != 1 || resp.Rooms[0].ID != room.ID {
		t.Errorf("Expected board to show the room, got %+v", resp.Rooms)
	}
}
