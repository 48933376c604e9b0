// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"testing"

	"github.com/danielhkuo/mushroom-rally/models"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestNormalizeFriendCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234 5678 9012", "123456789012"},
		{" 123456789012 ", "123456789012"},
		{"1234\t5678\n9012", "123456789012"},
		{"lloginatw ", "lloginatw"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeFriendCode(tt.in); got != tt.want {
			t.Errorf("NormalizeFriendCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidFriendCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"123456789012", true},
		{"1234 5678 9012", true},
		{"12345678901", false},
		{"1234567890123", false},
		{"12345678901a", false},
		{"", false},
		{DefaultMasterToken, true},
		{" " + DefaultMasterToken + " ", true},
		{"somebody", false},
	}

	for _, tt := range tests {
		if got := IsValidFriendCode(tt.code, DefaultMasterToken); got != tt.want {
			t.Errorf("IsValidFriendCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestValidateFriendCode(t *testing.T) {
	code, err := ValidateFriendCode("1111 2222 3333", DefaultMasterToken)
	if err != nil {
		t.Fatalf("ValidateFriendCode() error = %v", err)
	}
	if code != "111122223333" {
		t.Errorf("expected normalized code, got %q", code)
	}

	if _, err := ValidateFriendCode("nope", DefaultMasterToken); err != ErrInvalidFriendCode {
		t.Errorf("expected ErrInvalidFriendCode, got %v", err)
	}
}

func TestFormatFriendCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123456789012", "1234 5678 9012"},
		{"1234-5678-9012", "1234 5678 9012"},
		{"12345", "12345"},
		{"lloginatw", "lloginatw"},
	}

	for _, tt := range tests {
		if got := FormatFriendCode(tt.in); got != tt.want {
			t.Errorf("FormatFriendCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		claims bool
		token  string
		want   bool
	}{
		{"token and claim", DefaultMasterToken, true, DefaultMasterToken, true},
		{"token with spaces", " llogin atw ", true, DefaultMasterToken, true},
		{"token without claim", DefaultMasterToken, false, DefaultMasterToken, false},
		{"claim without token", "123456789012", true, DefaultMasterToken, false},
		{"empty master token", "", true, "", false},
		{"case differs", "LLOGINATW", true, DefaultMasterToken, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAdmin(tt.code, tt.claims, tt.token); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveRole(t *testing.T) {
	room := models.Room{
		ID:   "r1",
		Host: models.Participant{ID: "h", Nickname: "Host", FriendCode: "111111111111"},
		Participants: []models.Participant{
			{ID: "p1", Nickname: "Bee", FriendCode: "222222222222"},
		},
		Slots: 3,
	}

	tests := []struct {
		name       string
		code       string
		claims     bool
		wantRole   Role
		wantAdmin  bool
		wantDelete bool
		wantKick   bool
	}{
		{"host", "111111111111", false, RoleHost, false, true, true},
		{"host with spaces", "1111 1111 1111", false, RoleHost, false, true, true},
		{"participant", "222222222222", false, RoleParticipant, false, false, false},
		{"bystander", "333333333333", false, RoleBystander, false, false, false},
		{"forged admin", "333333333333", true, RoleBystander, false, false, false},
		{"admin", DefaultMasterToken, true, RoleBystander, true, true, false},
		{"admin token without claim", DefaultMasterToken, false, RoleBystander, false, false, false},
		{"empty code", "", true, RoleBystander, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ResolveRole(room, tt.code, tt.claims, DefaultMasterToken)
			if a.Role != tt.wantRole {
				t.Errorf("Role = %s, want %s", a.Role, tt.wantRole)
			}
			if a.Admin != tt.wantAdmin {
				t.Errorf("Admin = %v, want %v", a.Admin, tt.wantAdmin)
			}
			if a.CanDelete() != tt.wantDelete {
				t.Errorf("CanDelete() = %v, want %v", a.CanDelete(), tt.wantDelete)
			}
			if a.CanKick() != tt.wantKick {
				t.Errorf("CanKick() = %v, want %v", a.CanKick(), tt.wantKick)
			}
		})
	}
}
