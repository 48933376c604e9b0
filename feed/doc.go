// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package feed carries room change notifications.

Sources:

  - sqlite: db.Store calls Broker.Publish after each committed change.
  - postgres: a trigger on the room table calls pg_notify, and ListenPostgres
    relays those notifications into the Broker. Writes from any process reach
    the feed this way.

Consumers:

  - Broker.SubscribeToChanges, used by roomview.Listener inside the server.
  - StreamHandler, which serves the same events over a websocket at
    GET /rooms/changes for remote views.

Events only say that something changed. Subscribers refetch the whole room
set, so a slow subscriber may have events coalesced without losing state.
*/
package feed
