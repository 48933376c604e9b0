// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package membership is the only writer of room participant lists.

A Coordinator checks caller identity and authority, then commits through a
Store whose JoinRoom and RemoveParticipant are conditional commits against
the stored room. Two joins racing for the last slot therefore cannot both
succeed; the loser sees ErrRoomFull or ErrAlreadyJoined.

# Authority

	Create  any valid friend code
	Join    anyone except the host
	Leave   anyone (absent caller is a no-op)
	Kick    host only, admins included in the refusal
	Delete  host or admin

Admin status is recomputed per call from the caller's friend code and claim
(see auth.IsAdmin). Nothing persisted is trusted.

# Errors

Store errors are mapped to ErrNotFound, ErrRoomFull, ErrAlreadyJoined and
ErrHostCannotJoin. Any other failure is returned as a *TransportError, which
matches ErrTransport with errors.Is. Nothing is retried.
*/
package membership
