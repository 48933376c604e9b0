// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roomclient is a remote client for the Mushroom Rally API.

A Client acts for one caller, whose identity is sent as headers on every
request:

	c := roomclient.New("https://rally.example", membership.Caller{
		FriendCode: "1234 5678 9012",
		Nickname:   "Toad",
	})
	room, err := c.JoinRoom(ctx, roomID)
	if errors.Is(err, membership.ErrRoomFull) {
		...
	}

Error codes from the server come back as the membership sentinel errors.
Network and server failures are *membership.TransportError.

A Client satisfies roomview.Fetcher and roomview.Subscriber, so a remote
board is:

	view := roomview.NewView(c, roomview.DefaultTTL)
	listener := roomview.NewListener(view, c)
*/
package roomclient
