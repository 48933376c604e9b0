// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/danielhkuo/mushroom-rally/models"
)

// DefaultMasterToken is the single super-admin credential.
const DefaultMasterToken = "lloginatw"

var ErrInvalidFriendCode = errors.New("invalid friend code")

// Role of a caller relative to one room
type Role string

const (
	RoleHost        Role = "host"
	RoleParticipant Role = "participant"
	RoleBystander   Role = "bystander"
)

// Authority is derived per call and must not be cached across calls.
type Authority struct {
	Role  Role
	Admin bool
}

// CanDelete reports whether the caller may delete the whole room.
func (a Authority) CanDelete() bool {
	return a.Role == RoleHost || a.Admin
}

// CanKick reports whether the caller may remove another participant.
// Admins moderate rooms, not membership, so only the host qualifies.
func (a Authority) CanKick() bool {
	return a.Role == RoleHost
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NormalizeFriendCode strips all whitespace
func NormalizeFriendCode(code string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
}

// IsAdmin checks an admin claim against the master token.
// A claim is worthless unless the caller's code is the token itself.
func IsAdmin(friendCode string, claimsAdmin bool, masterToken string) bool {
	if !claimsAdmin || masterToken == "" {
		return false
	}
	return NormalizeFriendCode(friendCode) == masterToken
}

// IsValidFriendCode accepts 12 digits (spaces allowed) or the master token
func IsValidFriendCode(code, masterToken string) bool {
	cleaned := NormalizeFriendCode(code)
	if masterToken != "" && cleaned == masterToken {
		return true
	}
	if len(cleaned) != 12 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateFriendCode normalizes code and returns ErrInvalidFriendCode if it
// is not acceptable.
func ValidateFriendCode(code, masterToken string) (string, error) {
	if !IsValidFriendCode(code, masterToken) {
		return "", ErrInvalidFriendCode
	}
	return NormalizeFriendCode(code), nil
}

// FormatFriendCode renders a 12 digit code as "dddd dddd dddd".
// Codes containing letters are returned untouched.
func FormatFriendCode(code string) string {
	for _, r := range code {
		if unicode.IsLetter(r) {
			return code
		}
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, code)
	if len(digits) != 12 {
		return digits
	}
	return digits[0:4] + " " + digits[4:8] + " " + digits[8:12]
}

// ResolveRole derives the caller's authority over room
func ResolveRole(room models.Room, callerFriendCode string, callerClaimsAdmin bool, masterToken string) Authority {
	code := NormalizeFriendCode(callerFriendCode)
	a := Authority{
		Role:  RoleBystander,
		Admin: IsAdmin(callerFriendCode, callerClaimsAdmin, masterToken),
	}
	if code == "" {
		return a
	}

	switch {
	case code == NormalizeFriendCode(room.Host.FriendCode):
		a.Role = RoleHost
	case room.HasParticipant(code):
		a.Role = RoleParticipant
	}
	return a
}
