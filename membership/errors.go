// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package membership

import (
	"errors"

	"github.com/danielhkuo/mushroom-rally/db"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyJoined  = errors.New("already joined")
	ErrHostCannotJoin = errors.New("host cannot join own room")
	ErrNotFound       = errors.New("room not found")
	ErrInvalidRoom    = errors.New("invalid room")
	ErrInvalidCaller  = errors.New("invalid caller identity")
	ErrTransport      = errors.New("transport failure")
)

// TransportError reports a store or network failure. It matches ErrTransport
// with errors.Is and unwraps to the underlying cause.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// translate maps store errors onto the coordinator's taxonomy. Anything it
// does not recognize is a transport failure.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, db.ErrRoomFull):
		return ErrRoomFull
	case errors.Is(err, db.ErrAlreadyJoined):
		return ErrAlreadyJoined
	case errors.Is(err, db.ErrHostInRoom):
		return ErrHostCannotJoin
	case isCoordinatorError(err):
		return err
	default:
		return &TransportError{Op: op, Err: err}
	}
}

// isCoordinatorError lets a Store that already speaks this package's
// sentinels (such as a remote client) pass them through unchanged.
func isCoordinatorError(err error) bool {
	for _, target := range []error{
		ErrUnauthorized, ErrRoomFull, ErrAlreadyJoined, ErrHostCannotJoin,
		ErrNotFound, ErrInvalidRoom, ErrInvalidCaller, ErrTransport,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
