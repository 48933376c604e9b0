// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/mushroom-rally/cliparse"
	"github.com/danielhkuo/mushroom-rally/db"
	"github.com/danielhkuo/mushroom-rally/feed"
	"github.com/danielhkuo/mushroom-rally/handlers"
	"github.com/danielhkuo/mushroom-rally/membership"
	"github.com/danielhkuo/mushroom-rally/middleware"
	"github.com/danielhkuo/mushroom-rally/roomview"
)

func NewRouter(store *db.Store, broker *feed.Broker, view *roomview.View, tips handlers.TipSource, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	coord := membership.NewCoordinator(store, cfg.MasterToken)
	roomHandler := handlers.NewRoomHandler(store, coord, view, cfg)
	profileHandler := handlers.NewProfileHandler(store, view, cfg)
	tipHandler := handlers.NewTipHandler(tips)
	stream := feed.NewStreamHandler(broker)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Rooms
	mux.HandleFunc("POST /rooms", middleware.WithLogging(roomHandler.CreateRoom))
	mux.HandleFunc("GET /rooms", middleware.WithLogging(roomHandler.ListRooms))
	mux.HandleFunc("GET /rooms/{id}", middleware.WithLogging(roomHandler.GetRoom))
	mux.HandleFunc("DELETE /rooms/{id}", middleware.WithLogging(roomHandler.DeleteRoom))

	// Membership
	mux.HandleFunc("POST /rooms/{id}/join", middleware.WithLogging(roomHandler.JoinRoom))
	mux.HandleFunc("POST /rooms/{id}/leave", middleware.WithLogging(roomHandler.LeaveRoom))
	mux.HandleFunc("POST /rooms/{id}/kick", middleware.WithLogging(roomHandler.KickParticipant))

	// Sharing
	mux.HandleFunc("GET /rooms/{id}/share", middleware.WithLogging(roomHandler.ShareRoom))
	mux.HandleFunc("GET /share/{token}", middleware.WithLogging(roomHandler.DecodeShare))

	// Change feed and server-side board
	mux.HandleFunc("GET /rooms/changes", middleware.WithLogging(stream.ServeHTTP))
	mux.HandleFunc("GET /board", middleware.WithLogging(roomHandler.Board))

	// Tips
	mux.HandleFunc("GET /tips", middleware.WithLogging(tipHandler.GetTip))

	// Profiles
	mux.HandleFunc("PUT /profiles/me", middleware.WithLogging(profileHandler.SaveProfile))
	mux.HandleFunc("GET /profiles/me", middleware.WithLogging(profileHandler.GetMe))
	mux.HandleFunc("GET /profiles/me/rooms", middleware.WithLogging(profileHandler.GetMyRooms))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mushroom-rally API v1"))
	})

	return mux
}
