// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Mushroom Rally API server.

Mushroom Rally coordinates short-lived multiplayer battle rooms: a host
publishes a room with a fixed number of slots, players join and leave, the
host can kick, and everyone watching sees the room set change live.

# Starting the Server

The server reads a .env file, then environment variables, then CLI flags:

	DATABASE_URL=file:rally.db go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ROOM_TTL (-room-ttl): how long a room stays on the board (default: 24h)
  - SHARE_BASE_URL (-share-base-url): prefix for share links
  - MASTER_TOKEN (-master-token): friend code that may claim admin
  - TIP_API_URL, TIP_API_KEY, TIP_MODEL: battle tip generator

# Architecture

  - membership: the only writer of participant lists
  - db: room store with conditional commits, schema and change trigger
  - feed: change broker, postgres LISTEN bridge, websocket stream
  - roomview: TTL-filtered room set kept fresh by the change feed
  - roomclient: remote client for the same operations
  - sharelink, tips: share tokens and advisory tips
  - handlers, router, middleware: the HTTP surface
  - auth, models, cliparse: identity rules, types, configuration

The roomwatch command under cmd/ is a terminal board built on roomclient.
*/
package main
