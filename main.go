// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/mushroom-rally/cliparse"
	"github.com/danielhkuo/mushroom-rally/db"
	"github.com/danielhkuo/mushroom-rally/feed"
	"github.com/danielhkuo/mushroom-rally/middleware"
	"github.com/danielhkuo/mushroom-rally/models"
	"github.com/danielhkuo/mushroom-rally/roomview"
	"github.com/danielhkuo/mushroom-rally/router"
	"github.com/danielhkuo/mushroom-rally/tips"
)

func main() {
	var err error

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	driver, err := db.DriverName(cfg.DatabaseType)
	if err != nil {
		slog.Error("unsupported database", "error", err)
		os.Exit(1)
	}

	dsn := cfg.DatabaseURL
	if cfg.DatabaseType == db.DialectSQLite && !strings.Contains(dsn, "_pragma") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(5000)"
	}

	dbConn, err := sql.Open(driver, dsn)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if cfg.DatabaseType == db.DialectSQLite {
		// sqlite allows a single writer
		dbConn.SetMaxOpenConns(1)
	}

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Change feed: postgres writes arrive through NOTIFY, sqlite writes are
	// published by the store itself
	broker := feed.NewBroker()
	var notify func(models.ChangeEvent)
	if cfg.DatabaseType == db.DialectPostgres {
		go func() {
			if err := feed.ListenPostgres(ctx, cfg.DatabaseURL, broker); err != nil {
				slog.Error("change listener stopped", "error", err)
			}
		}()
	} else {
		notify = broker.Publish
	}
	store := db.NewStore(dbConn, notify)

	view := roomview.NewView(store, cfg.RoomTTL)
	listener := roomview.NewListener(view, broker)
	listener.OnRefresh(func(rooms []models.Room) {
		slog.Debug("room board refreshed", "rooms", len(rooms))
	})
	if err := listener.Start(ctx); err != nil {
		slog.Error("room board failed to start", "error", err)
		os.Exit(1)
	}
	defer listener.Stop()

	tipClient := tips.NewClient(cfg.TipAPIURL, cfg.TipAPIKey, cfg.TipModel)

	// Create router
	mux := router.NewRouter(store, broker, view, tipClient, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
