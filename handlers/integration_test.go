// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/danielhkuo/mushroom-rally/testutil"
)

// TestFullRoomWorkflow tests the complete end-to-end workflow:
// 1. Host creates a room with two slots
// 2. B joins
// 3. C joins
// 4. D is turned away (full)
// 5. Host kicks B
// 6. D joins
// 7. Host deletes the room
func TestFullRoomWorkflow(t *testing.T) {
	env := newTestEnv(t)

	participantCodes := func(w *httptest.ResponseRecorder) []string {
		t.Helper()
		var room models.Room
		testutil.AssertJSON(t, w, &room)
		out := []string{}
		for _, p := range room.Participants {
			out = append(out, p.FriendCode)
		}
		return out
	}
	equal := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	// Step 1: Create a room
	room := env.createRoom(t, 2)
	t.Logf("Step 1 - Created room: %s", room.ID)

	// Step 2: B joins
	w := env.join(room.ID, testutil.AliceCode, "B")
	testutil.AssertStatus(t, w, http.StatusOK)
	if got := participantCodes(w); !equal(got, []string{testutil.AliceCode}) {
		t.Fatalf("Step 2 - Expected [B], got %v", got)
	}

	// Step 3: C joins
	w = env.join(room.ID, testutil.BobCode, "C")
	testutil.AssertStatus(t, w, http.StatusOK)
	if got := participantCodes(w); !equal(got, []string{testutil.AliceCode, testutil.BobCode}) {
		t.Fatalf("Step 3 - Expected [B C], got %v", got)
	}

	// Step 4: D is rejected
	assertErrorCode(t, env.join(room.ID, testutil.CarolCode, "D"), http.StatusConflict, models.CodeRoomFull)
	t.Log("Step 4 - D rejected, room full")

	// Step 5: Host kicks B
	req := testutil.MakeRequest("POST", "/rooms/"+room.ID+"/kick", models.KickRequest{FriendCode: testutil.AliceCode},
		testutil.CallerHeaders(testutil.HostCode, "Host", false))
	req.SetPathValue("id", room.ID)
	w = httptest.NewRecorder()
	env.rooms.KickParticipant(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	if got := participantCodes(w); !equal(got, []string{testutil.BobCode}) {
		t.Fatalf("Step 5 - Expected [C], got %v", got)
	}

	// Step 6: D joins
	w = env.join(room.ID, testutil.CarolCode, "D")
	testutil.AssertStatus(t, w, http.StatusOK)
	if got := participantCodes(w); !equal(got, []string{testutil.BobCode, testutil.CarolCode}) {
		t.Fatalf("Step 6 - Expected [C D], got %v", got)
	}

	// Step 7: Host deletes the room
	req = testutil.MakeRequest("DELETE", "/rooms/"+room.ID, nil, testutil.CallerHeaders(testutil.HostCode, "Host", false))
	req.SetPathValue("id", room.ID)
	w = httptest.NewRecorder()
	env.rooms.DeleteRoom(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	req = httptest.NewRequest("GET", "/rooms/"+room.ID, nil)
	req.SetPathValue("id", room.ID)
	w = httptest.NewRecorder()
	env.rooms.GetRoom(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
	t.Log("Step 7 - Room deleted")
}
