package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLoadArenaEmbeddedDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadArena("")
	if err != nil {
		t.Fatalf("LoadArena() failed: %v", err)
	}

	want := DefaultArenaConfig()
	if cfg != want {
		t.Errorf("embedded YAML and DefaultArenaConfig disagree:\n got %+v\nwant %+v", cfg, want)
	}
}

func TestLoadArenaCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	data := []byte("physics:\n  gravity: 1.2\nscoring:\n  stomp_bonus: 250\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadArena(path)
	if err != nil {
		t.Fatalf("LoadArena() failed: %v", err)
	}

	if cfg.Physics.Gravity != 1.2 {
		t.Errorf("Gravity = %v, expected 1.2", cfg.Physics.Gravity)
	}
	if cfg.Scoring.StompBonus != 250 {
		t.Errorf("StompBonus = %d, expected 250", cfg.Scoring.StompBonus)
	}
	// Untouched keys keep their defaults
	if cfg.Physics.JumpForce != 15 {
		t.Errorf("JumpForce = %v, expected default 15", cfg.Physics.JumpForce)
	}
	if cfg.Server.WriteTimeout != 5*time.Second {
		t.Errorf("WriteTimeout = %v, expected 5s", cfg.Server.WriteTimeout)
	}
}

func TestLoadArenaCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadArena(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("world: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadArena(broken); err == nil {
		t.Error("expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("server:\n  tick_rate: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadArena(invalid); err == nil {
		t.Error("expected validation error for zero tick rate")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ArenaConfig)
		wantErr bool
	}{
		{"defaults", func(*ArenaConfig) {}, false},
		{"zero width", func(c *ArenaConfig) { c.World.ScreenWidth = 0 }, true},
		{"ground below screen", func(c *ArenaConfig) { c.World.GroundOffset = 600 }, true},
		{"player too wide", func(c *ArenaConfig) { c.Player.Width = 800 }, true},
		{"no lives", func(c *ArenaConfig) { c.Player.StartLives = 0 }, true},
		{"no gravity", func(c *ArenaConfig) { c.Physics.Gravity = 0 }, true},
		{"hazard margin too wide", func(c *ArenaConfig) { c.Hazard.EdgeMargin = 400 }, true},
		{"negative tick rate", func(c *ArenaConfig) { c.Server.TickRate = -1 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultArenaConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGroundLevelAndTickInterval(t *testing.T) {
	cfg := DefaultArenaConfig()

	if got := cfg.World.GroundLevel(); got != 550 {
		t.Errorf("GroundLevel() = %v, expected 550", got)
	}
	if got := cfg.Server.TickInterval(); got != time.Second/60 {
		t.Errorf("TickInterval() = %v, expected %v", got, time.Second/60)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("ARENA_SSH_ADDR", ":2222")
	t.Setenv("ARENA_TICK_RATE", "30")

	cfg := DefaultArenaConfig()
	if err := ApplyEnv(&cfg, ""); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}

	if cfg.Server.Addr != ":8081" {
		t.Errorf("Addr = %q, expected :8081", cfg.Server.Addr)
	}
	if cfg.Server.SSHAddr != ":2222" {
		t.Errorf("SSHAddr = %q, expected :2222", cfg.Server.SSHAddr)
	}
	if cfg.Server.TickRate != 30 {
		t.Errorf("TickRate = %d, expected 30", cfg.Server.TickRate)
	}
}

func TestApplyEnvAddrBeatsPort(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("ARENA_ADDR", "127.0.0.1:9000")

	cfg := DefaultArenaConfig()
	if err := ApplyEnv(&cfg, ""); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q, expected ARENA_ADDR to win", cfg.Server.Addr)
	}
}

func TestApplyEnvBadTickRate(t *testing.T) {
	t.Setenv("ARENA_TICK_RATE", "fast")

	cfg := DefaultArenaConfig()
	if err := ApplyEnv(&cfg, ""); err == nil {
		t.Error("expected error for non-numeric tick rate")
	}
}

func TestApplyEnvDotEnvFile(t *testing.T) {
	if _, set := os.LookupEnv("ARENA_DB"); set {
		t.Skip("ARENA_DB already set in environment")
	}
	t.Cleanup(func() { os.Unsetenv("ARENA_DB") })

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("ARENA_DB=/tmp/arena-test.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultArenaConfig()
	if err := ApplyEnv(&cfg, envFile); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}
	if cfg.Server.DBPath != "/tmp/arena-test.db" {
		t.Errorf("DBPath = %q, expected value from .env", cfg.Server.DBPath)
	}
}

func TestApplyEnvMissingDotEnvIsFine(t *testing.T) {
	cfg := DefaultArenaConfig()
	if err := ApplyEnv(&cfg, filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should not be an error, got %v", err)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  gravity: 0.8\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan ArenaConfig, 4)
	done := make(chan error, 1)
	logger := log.New(os.Stderr)
	go func() {
		done <- Watch(ctx, path, logger, func(cfg ArenaConfig) { changes <- cfg })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("physics:\n  gravity: 2.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A truncating write may surface as several events; wait for the final content.
	timeout := time.After(3 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case cfg := <-changes:
			reloaded = cfg.Physics.Gravity == 2.5
		case <-timeout:
			t.Fatal("timed out waiting for config reload")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() returned %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Watch() did not stop after cancel")
	}
}
