// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command roomwatch prints the live room board of a Mushroom Rally server.
//
//	roomwatch -server http://localhost:3318 -code "1234 5678 9012"
//
// The board is redrawn after every change the server reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danielhkuo/mushroom-rally/auth"
	"github.com/danielhkuo/mushroom-rally/cliparse"
	"github.com/danielhkuo/mushroom-rally/membership"
	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/danielhkuo/mushroom-rally/roomclient"
	"github.com/danielhkuo/mushroom-rally/roomview"
	"github.com/dustin/go-humanize"
)

func main() {
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("roomwatch", flag.ExitOnError)
	serverURL := fs.String("server", envOr("RALLY_SERVER", "http://localhost:3318"), "Server base URL")
	code := fs.String("code", os.Getenv("RALLY_FRIEND_CODE"), "Your friend code, used to mark your rooms")
	ttl := fs.Duration("ttl", roomview.DefaultTTL, "How long a room stays on the board")
	fs.Parse(os.Args[1:])

	client := roomclient.New(*serverURL, membership.Caller{FriendCode: *code})
	view := roomview.NewView(client, *ttl)
	listener := roomview.NewListener(view, client)

	me := auth.NormalizeFriendCode(*code)
	listener.OnRefresh(func(rooms []models.Room) {
		fmt.Print("\033[H\033[2J")
		renderBoard(os.Stdout, rooms, me, time.Now())
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := listener.Start(ctx); err != nil {
		slog.Error("failed to load board", "server", *serverURL, "error", err)
		os.Exit(1)
	}
	defer listener.Stop()

	slog.Info("watching rooms", "server", *serverURL)
	<-ctx.Done()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// renderBoard writes one line per room, newest first, marking rooms the
// viewer hosts (*) or has joined (+)
func renderBoard(w io.Writer, rooms []models.Room, me string, now time.Time) {
	if len(rooms) == 0 {
		fmt.Fprintln(w, "No open rooms.")
		return
	}

	hosted := map[string]bool{}
	joined := map[string]bool{}
	if me != "" {
		for _, r := range roomview.HostedBy(rooms, me) {
			hosted[r.ID] = true
		}
		for _, r := range roomview.JoinedBy(rooms, me) {
			joined[r.ID] = true
		}
	}

	fmt.Fprintf(w, "%d %s\n\n", len(rooms), plural(len(rooms), "room", "rooms"))
	for _, r := range rooms {
		mark := " "
		switch {
		case hosted[r.ID]:
			mark = "*"
		case joined[r.ID]:
			mark = "+"
		}

		kind := r.Category
		if r.Attribute != nil {
			kind += "/" + *r.Attribute
		}

		line := fmt.Sprintf("%s %-16s %-18s %d/%d  starts %s  posted %s",
			mark,
			r.Host.Nickname,
			kind,
			len(r.Participants), r.Slots,
			humanize.RelTime(r.StartTime, now, "ago", "from now"),
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
		)
		if r.OpenSlots() == 0 {
			line += "  FULL"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
