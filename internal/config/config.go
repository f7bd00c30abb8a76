// Package config provides YAML-based arena configuration loading,
// environment overrides and hot reloading of tuning values.
package config

import (
	"fmt"
	"time"
)

// ArenaConfig contains all configuration for the arena server.
type ArenaConfig struct {
	World   WorldConfig   `yaml:"world"`
	Player  PlayerConfig  `yaml:"player"`
	Physics PhysicsConfig `yaml:"physics"`
	Hazard  HazardConfig  `yaml:"hazard"`
	Scoring ScoringConfig `yaml:"scoring"`
	Server  ServerConfig  `yaml:"server"`
}

// WorldConfig defines the playfield in world units (pixels on the browser canvas).
type WorldConfig struct {
	ScreenWidth  float64 `yaml:"screen_width"`
	ScreenHeight float64 `yaml:"screen_height"`
	GroundOffset float64 `yaml:"ground_offset"` // Distance from the bottom edge to the ground line
}

// GroundLevel returns the y coordinate of the ground line.
func (w WorldConfig) GroundLevel() float64 {
	return w.ScreenHeight - w.GroundOffset
}

// PlayerConfig defines player dimensions and starting values.
type PlayerConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Speed      float64 `yaml:"speed"` // Horizontal pixels per tick
	StartLives int     `yaml:"start_lives"`
	StartLevel int     `yaml:"start_level"`
	NamePrefix string  `yaml:"name_prefix"`
}

// PhysicsConfig defines vertical motion parameters.
type PhysicsConfig struct {
	Gravity   float64 `yaml:"gravity"`
	JumpForce float64 `yaml:"jump_force"`
}

// HazardConfig defines the mushroom.
type HazardConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Speed      float64 `yaml:"speed"`
	EdgeMargin float64 `yaml:"edge_margin"` // Bounce distance from the screen edges
}

// ScoringConfig defines collision rewards.
type ScoringConfig struct {
	HazardBonus       int     `yaml:"hazard_bonus"`
	StompBonus        int     `yaml:"stomp_bonus"`
	StompBounceFactor float64 `yaml:"stomp_bounce_factor"` // Fraction of jump force given to a stomping player
}

// ServerConfig defines network endpoints and tick cadence.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	SSHAddr      string        `yaml:"ssh_addr"` // Empty disables the SSH server
	DBPath       string        `yaml:"db_path"`
	StaticDir    string        `yaml:"static_dir"`
	TickRate     int           `yaml:"tick_rate"`
	SendBuffer   int           `yaml:"send_buffer"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PongTimeout  time.Duration `yaml:"pong_timeout"`
}

// TickInterval returns the duration of one simulation tick.
func (s ServerConfig) TickInterval() time.Duration {
	if s.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(s.TickRate)
}

// Validate reports the first setting that would break the simulation.
func (c ArenaConfig) Validate() error {
	switch {
	case c.World.ScreenWidth <= 0 || c.World.ScreenHeight <= 0:
		return fmt.Errorf("config: world dimensions must be positive, got %vx%v", c.World.ScreenWidth, c.World.ScreenHeight)
	case c.World.GroundOffset < 0 || c.World.GroundOffset >= c.World.ScreenHeight:
		return fmt.Errorf("config: ground_offset %v outside screen height %v", c.World.GroundOffset, c.World.ScreenHeight)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("config: player dimensions must be positive, got %vx%v", c.Player.Width, c.Player.Height)
	case c.Player.Width >= c.World.ScreenWidth:
		return fmt.Errorf("config: player width %v does not fit screen width %v", c.Player.Width, c.World.ScreenWidth)
	case c.Player.StartLives <= 0:
		return fmt.Errorf("config: start_lives must be positive, got %d", c.Player.StartLives)
	case c.Physics.Gravity <= 0:
		return fmt.Errorf("config: gravity must be positive, got %v", c.Physics.Gravity)
	case c.Hazard.EdgeMargin*2 >= c.World.ScreenWidth:
		return fmt.Errorf("config: hazard edge_margin %v leaves no room to move", c.Hazard.EdgeMargin)
	case c.Server.TickRate <= 0:
		return fmt.Errorf("config: tick_rate must be positive, got %d", c.Server.TickRate)
	}
	return nil
}
