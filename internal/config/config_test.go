package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Store.Path != "~/.dukkanbot/dukkan.db" {
		t.Errorf("expected default store path ~/.dukkanbot/dukkan.db, got %s", cfg.Store.Path)
	}

	if cfg.Channels.Telegram.Enabled || cfg.Channels.Slack.Enabled {
		t.Error("expected all channels disabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"store": {"path": "/tmp/dukkan.db"},
		"admin": {"ids": ["telegram:42"]},
		"channels": {"telegram": {"enabled": true, "token": "tg-token"}}
	}`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DUKKAN_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "/tmp/dukkan.db" {
		t.Errorf("store path not loaded: %s", cfg.Store.Path)
	}
	if len(cfg.Admin.IDs) != 1 || cfg.Admin.IDs[0] != "telegram:42" {
		t.Errorf("admin ids not loaded: %v", cfg.Admin.IDs)
	}
	if !cfg.Channels.Telegram.Enabled || cfg.Channels.Telegram.Token != "tg-token" {
		t.Errorf("telegram config not loaded: %+v", cfg.Channels.Telegram)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"channels": {"telegram": {"enabled": true, "token": "from-file"}}}`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DUKKAN_CONFIG", path)
	t.Setenv("DUKKAN_CHANNELS_TELEGRAM_TOKEN", "from-env")
	t.Setenv("DUKKAN_ADMIN_IDS", "a,b")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Channels.Telegram.Token != "from-env" {
		t.Errorf("env did not override file token: %s", cfg.Channels.Telegram.Token)
	}
	if len(cfg.Admin.IDs) != 2 {
		t.Errorf("admin ids not read from env: %v", cfg.Admin.IDs)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DUKKAN_CONFIG", filepath.Join(t.TempDir(), "nope.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path == "" {
		t.Error("expected default store path")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	problems := cfg.Validate()
	if len(problems) == 0 {
		t.Fatal("default config should report missing admins and channels")
	}

	cfg.Admin.IDs = []string{"telegram:42"}
	cfg.Channels.Telegram.Enabled = true
	cfg.Channels.Telegram.Token = "tok"
	if problems := cfg.Validate(); len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}

	cfg.Channels.Slack.Enabled = true
	if problems := cfg.Validate(); len(problems) != 2 {
		t.Fatalf("expected missing slack tokens to be reported, got %v", problems)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("DUKKAN_CONFIG", path)

	cfg := DefaultConfig()
	cfg.Admin.IDs = []string{"slack:U123"}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Admin.IDs) != 1 || loaded.Admin.IDs[0] != "slack:U123" {
		t.Errorf("round trip lost admin ids: %v", loaded.Admin.IDs)
	}
}
