// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves who a caller is relative to a room.

# Friend Codes

A friend code is the identity key inside a room. Whitespace is not
significant:

	code := auth.NormalizeFriendCode("1234 5678 9012") // "123456789012"
	ok := auth.IsValidFriendCode(code, masterToken)
	display := auth.FormatFriendCode(code)              // "1234 5678 9012"

Valid codes are 12 digits, or the master token.

# Roles

	a := auth.ResolveRole(room, callerCode, claimsAdmin, masterToken)
	a.Role       // host, participant or bystander
	a.Admin      // true only when the claim is backed by the master token
	a.CanDelete() // host or admin
	a.CanKick()   // host only

An admin claim is re-validated against the master token on every call. A
stored "is admin" flag is never trusted.

# ID Generation

Random hex IDs for rooms:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
