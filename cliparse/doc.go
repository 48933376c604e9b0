// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite path or PostgreSQL connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - MasterToken: super-admin credential (default: auth.DefaultMasterToken)
  - RoomTTL: how long a room stays visible (default: 24h)
  - ShareBaseURL: prefix for share links
  - TipAPIURL, TipAPIKey, TipModel: optional tip generator

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-room-ttl        Room visibility window
	-share-base-url  Share link base URL
	-master-token    Super-admin token
	-tip-url         Tip generator endpoint
	-tip-key         Tip generator API key
	-tip-model       Tip generator model

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ROOM_TTL       → -room-ttl
	SHARE_BASE_URL → -share-base-url
	MASTER_TOKEN   → -master-token
	TIP_API_URL    → -tip-url
	TIP_API_KEY    → -tip-key
	TIP_MODEL      → -tip-model

CLI flags take precedence over environment variables, and real environment
variables take precedence over a .env file.
*/
package cliparse
