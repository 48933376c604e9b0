// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and the room store.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
With DialectPostgres it also installs a row trigger that sends every insert,
update and delete on room to the ChangeChannel NOTIFY channel.

# Tables

  - room: one row per invitation; participants is a JSON array and version
    is bumped on every write
  - profile: pass-through user profile keyed by device UUID

Timestamps are unix milliseconds.

# Conditional Commit

Join, leave and kick all go through one primitive: read the room and its
version, compute the next participant list, then

	UPDATE room SET participants = $1, version = version + 1
	WHERE id = $2 AND version = $3

If another writer got there first the update touches no rows, and the
preconditions are evaluated again against the newer state. Two joins racing
for the last slot therefore cannot both commit.

# Errors

	ErrNotFound, ErrRoomFull, ErrAlreadyJoined, ErrHostInRoom, ErrContention

Any other error is a database failure.
*/
package db
