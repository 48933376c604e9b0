// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/mushroom-rally/auth"
	"github.com/danielhkuo/mushroom-rally/cliparse"
	"github.com/danielhkuo/mushroom-rally/db"
	"github.com/danielhkuo/mushroom-rally/models"
	_ "modernc.org/sqlite"
)

// Friend codes used across tests
const (
	HostCode  = "111111111111"
	AliceCode = "222222222222"
	BobCode   = "333333333333"
	CarolCode = "444444444444"
	DaveCode  = "555555555555"
)

// SetupTestDB creates a fresh sqlite database with the full schema in a
// temporary directory
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// One connection keeps sqlite writes serialized and predictable
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file:test.db",
		DatabaseType: db.DialectSQLite,
		MasterToken:  auth.DefaultMasterToken,
		RoomTTL:      24 * time.Hour,
		ShareBaseURL: "https://rally.test",
	}
}

// CreateTestRoom inserts an active room hosted by HostCode and returns it
func CreateTestRoom(t *testing.T, conn *sql.DB, slots int, createdAt time.Time, participants ...models.Participant) models.Room {
	t.Helper()

	id, _ := auth.GenerateID(16)
	if participants == nil {
		participants = []models.Participant{}
	}
	room := models.Room{
		ID:           id,
		Host:         models.Participant{ID: "host-" + id[:6], Nickname: "Host", FriendCode: HostCode},
		Category:     models.CategoryNormal,
		Slots:        slots,
		Participants: participants,
		StartTime:    createdAt.Add(30 * time.Minute).UTC().Truncate(time.Millisecond),
		CreatedAt:    createdAt.UTC().Truncate(time.Millisecond),
		Status:       models.StatusActive,
	}

	if err := db.NewStore(conn, nil).CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}

	return room
}

// NewParticipant builds a participant for friendCode
func NewParticipant(nickname, friendCode string) models.Participant {
	return models.Participant{ID: "p-" + friendCode, Nickname: nickname, FriendCode: friendCode}
}

// CallerHeaders returns the identity headers for a caller
func CallerHeaders(friendCode, nickname string, claimsAdmin bool) map[string]string {
	h := map[string]string{
		"X-Friend-Code": friendCode,
		"X-Nickname":    nickname,
	}
	if claimsAdmin {
		h["X-Admin-Claim"] = "true"
	}
	return h
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// WaitFor polls cond until it returns true or the timeout expires
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
