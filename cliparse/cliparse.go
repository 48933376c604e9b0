package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/danielhkuo/mushroom-rally/auth"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	MasterToken  string
	RoomTTL      time.Duration
	ShareBaseURL string
	TipAPIURL    string
	TipAPIKey    string
	TipModel     string
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("mushroom-rally", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Rooms
	fs.DurationVar(&cfg.RoomTTL, "room-ttl", 0, "How long a room stays on the board")
	fs.StringVar(&cfg.ShareBaseURL, "share-base-url", "", "Base URL for share links")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.MasterToken, "master-token", "", "Super-admin token (prefer env)")
	fs.StringVar(&cfg.TipAPIKey, "tip-key", "", "Tip generator API key (prefer env)")

	fs.StringVar(&cfg.TipAPIURL, "tip-url", "", "Tip generator endpoint")
	fs.StringVar(&cfg.TipModel, "tip-model", "", "Tip generator model")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.RoomTTL == 0 {
		if ttl := os.Getenv("ROOM_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return Config{}, errors.New("invalid ROOM_TTL env variable")
			}
			cfg.RoomTTL = d
		} else {
			cfg.RoomTTL = 24 * time.Hour
		}
	}
	if cfg.RoomTTL <= 0 {
		return Config{}, errors.New("room TTL must be positive")
	}

	if cfg.ShareBaseURL == "" {
		cfg.ShareBaseURL = os.Getenv("SHARE_BASE_URL")
		if cfg.ShareBaseURL == "" {
			cfg.ShareBaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
		}
	}

	if cfg.MasterToken == "" {
		cfg.MasterToken = os.Getenv("MASTER_TOKEN")
		if cfg.MasterToken == "" {
			cfg.MasterToken = auth.DefaultMasterToken
		}
	}

	// Tips are optional; without a URL the static fallback is served
	if cfg.TipAPIURL == "" {
		cfg.TipAPIURL = os.Getenv("TIP_API_URL")
	}
	if cfg.TipAPIKey == "" {
		cfg.TipAPIKey = os.Getenv("TIP_API_KEY")
	}
	if cfg.TipModel == "" {
		cfg.TipModel = os.Getenv("TIP_MODEL")
	}

	return cfg, nil
}
