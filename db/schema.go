// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Supported database types
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// ChangeChannel is the postgres NOTIFY channel written by the room trigger.
const ChangeChannel = "room_changes"

// DriverName maps a database type to its database/sql driver name
func DriverName(dialect string) (string, error) {
	switch dialect {
	case DialectSQLite:
		return "sqlite", nil
	case DialectPostgres:
		return "postgres", nil
	}
	return "", fmt.Errorf("unsupported database type %q", dialect)
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if dialect == DialectPostgres {
		if _, err := db.Exec(postgresTriggers); err != nil {
			return fmt.Errorf("failed to create change trigger: %w", err)
		}
	}

	return nil
}

// Timestamps are stored as unix milliseconds so both dialects compare them
// the same way.
const schema = `
-- Rooms
CREATE TABLE IF NOT EXISTS room (
    id TEXT PRIMARY KEY,
    host_id TEXT NOT NULL,
    host_nickname TEXT NOT NULL,
    host_friend_code TEXT NOT NULL,
    category TEXT NOT NULL,
    attribute TEXT,
    slots INTEGER NOT NULL CHECK (slots >= 1),
    participants TEXT NOT NULL DEFAULT '[]',
    image_url TEXT,
    start_time BIGINT NOT NULL,
    created_at BIGINT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'full', 'closed')),
    min_strength INTEGER,
    version BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_room_status_created ON room(status, created_at);
CREATE INDEX IF NOT EXISTS idx_room_host ON room(host_friend_code);

-- Profiles
CREATE TABLE IF NOT EXISTS profile (
    device_uuid TEXT PRIMARY KEY,
    nickname TEXT NOT NULL,
    friend_code TEXT NOT NULL,
    claims_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    last_seen_at BIGINT NOT NULL
);
`

const postgresTriggers = `
CREATE OR REPLACE FUNCTION notify_room_change() RETURNS trigger AS $$
BEGIN
    PERFORM pg_notify('` + ChangeChannel + `', json_build_object(
        'type', lower(TG_OP),
        'room_id', COALESCE(NEW.id, OLD.id),
        'at', to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.MS"Z"')
    )::text);
    RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS room_change_notify ON room;
CREATE TRIGGER room_change_notify
    AFTER INSERT OR UPDATE OR DELETE ON room
    FOR EACH ROW EXECUTE FUNCTION notify_room_change();
`
