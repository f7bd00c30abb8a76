package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/arena.yaml
var defaultArenaYAML []byte

// DefaultArenaConfig returns the built-in arena configuration.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		World: WorldConfig{
			ScreenWidth:  800,
			ScreenHeight: 600,
			GroundOffset: 50,
		},
		Player: PlayerConfig{
			Width:      32,
			Height:     44,
			Speed:      5,
			StartLives: 3,
			StartLevel: 1,
			NamePrefix: "Hobbit",
		},
		Physics: PhysicsConfig{
			Gravity:   0.8,
			JumpForce: 15,
		},
		Hazard: HazardConfig{
			X:          400,
			Y:          540,
			Speed:      2,
			EdgeMargin: 32,
		},
		Scoring: ScoringConfig{
			HazardBonus:       50,
			StompBonus:        100,
			StompBounceFactor: 0.5,
		},
		Server: ServerConfig{
			Addr:         ":3000",
			DBPath:       ":memory:",
			StaticDir:    "web",
			TickRate:     60,
			SendBuffer:   64,
			WriteTimeout: 5 * time.Second,
			PongTimeout:  60 * time.Second,
		},
	}
}
