// Package physics applies movement, gravity and jumps to players and moves
// the hazard. Every function mutates only the entity it is given and never
// fails: out-of-range results are clamped.
package physics

import (
	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/core"
	"github.com/vovakirdan/mushroom-arena/internal/world"
)

// GroundY returns the y coordinate of a player standing on the ground.
func GroundY(cfg config.ArenaConfig) float64 {
	return cfg.World.GroundLevel() - cfg.Player.Height
}

// MinX and MaxX bound a player's horizontal position.
func MinX(cfg config.ArenaConfig) float64 {
	return cfg.Player.Width / 2
}

func MaxX(cfg config.ArenaConfig) float64 {
	return cfg.World.ScreenWidth - cfg.Player.Width/2
}

// ApplyMovement moves the player one tick along its intent. Left is applied
// before right, so pressing both cancels out and leaves the player facing right.
func ApplyMovement(p *world.Player, in core.Intent, cfg config.ArenaConfig) {
	if in.Left {
		p.X -= cfg.Player.Speed
		p.FacingLeft = true
	}
	if in.Right {
		p.X += cfg.Player.Speed
		p.FacingLeft = false
	}
	p.X = core.ClampF(p.X, MinX(cfg), MaxX(cfg))
}

// ApplyGravity advances the vertical motion of an airborne player and lands
// it on the ground once it reaches or passes ground level. A landing keeps
// the fall speed in ImpactSpeed for the collision pass of the same tick.
func ApplyGravity(p *world.Player, cfg config.ArenaConfig) {
	ground := GroundY(cfg)
	p.ImpactSpeed = 0

	if p.CanJump {
		// Grounded players rest exactly on the ground line.
		p.Y = ground
		p.VelocityY = 0
		return
	}

	p.VelocityY += cfg.Physics.Gravity
	p.Y += p.VelocityY

	if p.Y >= ground {
		impact := p.VelocityY
		Land(p, cfg)
		p.ImpactSpeed = impact
		return
	}
	if p.Y < 0 {
		p.Y = 0
		if p.VelocityY < 0 {
			p.VelocityY = 0
		}
	}
}

// Land puts the player on the ground with no vertical motion.
func Land(p *world.Player, cfg config.ArenaConfig) {
	p.Y = GroundY(cfg)
	p.VelocityY = 0
	p.ImpactSpeed = 0
	p.CanJump = true
}

// ApplyJump launches a grounded player. It reports false, changing nothing,
// when the player is airborne.
func ApplyJump(p *world.Player, cfg config.ArenaConfig) bool {
	if !p.CanJump {
		return false
	}
	p.VelocityY = -cfg.Physics.JumpForce
	p.CanJump = false
	return true
}

// AdvanceHazard moves a moving hazard and bounces it off the edge margins.
func AdvanceHazard(h *world.Hazard, cfg config.ArenaConfig) {
	if !h.IsMoving {
		return
	}
	h.X += h.Direction * h.Speed

	left := cfg.Hazard.EdgeMargin
	right := cfg.World.ScreenWidth - cfg.Hazard.EdgeMargin
	if h.X <= left {
		h.X = left
		h.Direction = 1
	} else if h.X >= right {
		h.X = right
		h.Direction = -1
	}
}

// SpawnPosition picks a random valid ground position.
func SpawnPosition(rng core.Rand, cfg config.ArenaConfig) (x, y float64) {
	x = rng.Float64()*(cfg.World.ScreenWidth-cfg.Player.Width) + cfg.Player.Width/2
	return core.ClampF(x, MinX(cfg), MaxX(cfg)), GroundY(cfg)
}

// Respawn moves the player to a new random ground position. Score, lives
// and facing are left alone.
func Respawn(p *world.Player, rng core.Rand, cfg config.ArenaConfig) {
	p.X, _ = SpawnPosition(rng, cfg)
	Land(p, cfg)
}
