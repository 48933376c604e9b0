// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/mushroom-rally/models"
)

// SaveProfile upserts the profile bound to a device. The admin claim is
// stored as the user typed it; it grants nothing by itself.
func (s *Store) SaveProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profile (device_uuid, nickname, friend_code, claims_admin, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (device_uuid) DO UPDATE SET
			nickname = excluded.nickname,
			friend_code = excluded.friend_code,
			claims_admin = excluded.claims_admin,
			last_seen_at = excluded.last_seen_at
	`, p.DeviceUUID, p.Nickname, p.FriendCode, p.ClaimsAdmin, toMillis(now))
	if err != nil {
		return models.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return s.GetProfile(ctx, p.DeviceUUID)
}

// GetProfile looks up a device's profile and bumps last_seen_at
func (s *Store) GetProfile(ctx context.Context, deviceUUID string) (models.Profile, error) {
	var (
		p          models.Profile
		createdAt  int64
		lastSeenAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT device_uuid, nickname, friend_code, claims_admin, created_at, last_seen_at
		FROM profile
		WHERE device_uuid = $1
	`, deviceUUID).Scan(&p.DeviceUUID, &p.Nickname, &p.FriendCode, &p.ClaimsAdmin, &createdAt, &lastSeenAt)
	if err == sql.ErrNoRows {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("query profile: %w", err)
	}

	now := s.now().UTC()
	if _, err := s.db.ExecContext(ctx, `UPDATE profile SET last_seen_at = $1 WHERE device_uuid = $2`, toMillis(now), deviceUUID); err == nil {
		lastSeenAt = toMillis(now)
	}

	p.CreatedAt = fromMillis(createdAt)
	p.LastSeenAt = fromMillis(lastSeenAt)
	return p, nil
}
