// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Mushroom Rally API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, broker, view, tipClient, cfg)

# Endpoints

Health:

	GET /health
	GET /

Rooms (caller identity in X-Friend-Code / X-Nickname / X-Admin-Claim):

	POST   /rooms              - Create room
	GET    /rooms?since=       - Active rooms created after since
	GET    /rooms/{id}         - Single room
	DELETE /rooms/{id}         - Delete (host or admin)
	POST   /rooms/{id}/join    - Join
	POST   /rooms/{id}/leave   - Leave
	POST   /rooms/{id}/kick    - Kick (host only)
	GET    /rooms/{id}/share   - Share token and URL
	GET    /share/{token}      - Decode a share token

Change feed:

	GET /rooms/changes - websocket; one JSON ChangeEvent per room write
	GET /board         - server-side room set snapshot

Tips and profiles:

	GET /tips?category=&attribute=
	PUT /profiles/me
	GET /profiles/me
	GET /profiles/me/rooms

GET /rooms/changes is a literal path and wins over GET /rooms/{id}.
*/
package router
