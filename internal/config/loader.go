package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadArena loads the arena configuration.
// Search order: customPath -> ~/.arena/configs/arena.yaml -> ./configs/arena.yaml -> embedded default.
// Files are layered over the defaults, so a file may set only the keys it cares about.
func LoadArena(customPath string) (ArenaConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return ArenaConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return ArenaConfig{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Search locations are best effort: an unreadable or broken file falls through.
	if userCfgPath := userConfigPath("arena.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "arena.yaml")); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultArenaYAML)
	if err != nil {
		return DefaultArenaConfig(), nil
	}
	return cfg, nil
}

// Parse decodes YAML over the default configuration and validates the result.
func Parse(data []byte) (ArenaConfig, error) {
	cfg := DefaultArenaConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ArenaConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ArenaConfig{}, err
	}
	return cfg, nil
}

// ApplyEnv loads envFile (if it exists) into the process environment and
// applies server overrides. PORT is honored for hosting platforms that set it.
func ApplyEnv(cfg *ArenaConfig, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: failed to load %s: %w", envFile, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if addr := os.Getenv("ARENA_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if addr, ok := os.LookupEnv("ARENA_SSH_ADDR"); ok {
		cfg.Server.SSHAddr = addr
	}
	if db := os.Getenv("ARENA_DB"); db != "" {
		cfg.Server.DBPath = db
	}
	if rate := os.Getenv("ARENA_TICK_RATE"); rate != "" {
		n, err := strconv.Atoi(rate)
		if err != nil || n <= 0 {
			return fmt.Errorf("config: invalid ARENA_TICK_RATE %q", rate)
		}
		cfg.Server.TickRate = n
	}
	return nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arena", "configs", filename)
}
