// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "file:rooms.db")
	os.Setenv("ROOM_TTL", "12h")
	os.Setenv("MASTER_TOKEN", "opensesame")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.RoomTTL != 12*time.Hour {
		t.Errorf("expected ttl 12h, got %s", cfg.RoomTTL)
	}
	if cfg.MasterToken != "opensesame" {
		t.Errorf("expected master token from env, got %q", cfg.MasterToken)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %q", cfg.DatabaseType)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-room-ttl", "1h"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.RoomTTL != time.Hour {
		t.Errorf("expected ttl 1h, got %s", cfg.RoomTTL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-d", "file:test.db"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.RoomTTL != 24*time.Hour {
		t.Errorf("expected default ttl 24h, got %s", cfg.RoomTTL)
	}
	if cfg.MasterToken != "lloginatw" {
		t.Errorf("expected default master token, got %q", cfg.MasterToken)
	}
	if cfg.ShareBaseURL != "http://localhost:3318" {
		t.Errorf("expected default share base url, got %q", cfg.ShareBaseURL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cases := [][]string{
		{},                                    // no database
		{"-d", "x", "-t", "mysql"},            // unsupported type
		{"-d", "x", "-room-ttl", "-1h"},       // negative ttl
		{"-d", "x", "-room-ttl", "not-a-ttl"}, // unparsable flag
	}
	for _, args := range cases {
		if _, err := ParseFlags(args); err == nil {
			t.Errorf("expected error for args %v", args)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	path := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=file:from-dotenv.db\nPORT=7001\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// Real environment wins over the file
	os.Setenv("PORT", "7002")

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "file:from-dotenv.db" {
		t.Errorf("expected database url from .env, got %q", cfg.DatabaseURL)
	}
	if cfg.Port != 7002 {
		t.Errorf("expected env to win over .env, got %d", cfg.Port)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing file should not be an error, got %v", err)
	}
}
