// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roomview keeps a local, read-only copy of the visible room set.

A View shows rooms that are active and younger than its TTL (24 hours by
default), newest first. Refresh always replaces the whole set. Rooms also
re-applies the age filter at read time, so a room that expired between
refreshes is never shown.

A Listener ties a View to a change feed: every notification triggers a
Refresh. Start subscribes before the first refresh; Stop unsubscribes and
waits for a refresh in progress.

	view := roomview.NewView(store, cfg.RoomTTL)
	listener := roomview.NewListener(view, broker)
	if err := listener.Start(ctx); err != nil {
		return err
	}
	defer listener.Stop()

HostedBy and JoinedBy split a room set for one friend code.
*/
package roomview
