// Package collision detects and resolves player-vs-hazard and
// player-vs-player contacts, awarding score and taking lives.
//
// Contacts are edge-triggered: a pair that is resolved stays marked until
// its bounding boxes separate, so a persisting overlap scores only once.
package collision

import (
	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/core"
	"github.com/vovakirdan/mushroom-arena/internal/physics"
	"github.com/vovakirdan/mushroom-arena/internal/world"
)

// EventKind classifies a collision outcome.
type EventKind int

const (
	// HazardBounced: Player landed on the mushroom and toggled it.
	HazardBounced EventKind = iota
	// PlayerKilled: Player landed on Target, who lost a life.
	PlayerKilled
	// PlayerEliminated: Target ran out of lives and left the world.
	PlayerEliminated
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case HazardBounced:
		return "hazard_bounced"
	case PlayerKilled:
		return "player_killed"
	case PlayerEliminated:
		return "player_eliminated"
	default:
		return "unknown"
	}
}

// Event is one collision outcome within a tick.
type Event struct {
	Kind   EventKind
	Player world.PlayerID // Acting player
	Target world.PlayerID // Player landed on, for PlayerKilled/PlayerEliminated

	// HazardMoving is the hazard state after a HazardBounced event.
	HazardMoving bool

	// Final is the state of an eliminated player at removal time.
	Final world.Player
}

type pairKey struct {
	a, b world.PlayerID
}

// makePair orders the ids so (p, q) and (q, p) share a key.
func makePair(p, q world.PlayerID) pairKey {
	if q < p {
		p, q = q, p
	}
	return pairKey{a: p, b: q}
}

// Engine resolves collisions once per tick. It remembers which overlaps
// have already been resolved, so it must be reused across ticks.
type Engine struct {
	hazardContacts map[world.PlayerID]struct{}
	playerContacts map[pairKey]struct{}
}

// NewEngine creates an engine with no remembered contacts.
func NewEngine() *Engine {
	return &Engine{
		hazardContacts: make(map[world.PlayerID]struct{}),
		playerContacts: make(map[pairKey]struct{}),
	}
}

// Forget drops every contact involving the player. Call it when a player
// leaves the world outside of Resolve.
func (e *Engine) Forget(id world.PlayerID) {
	delete(e.hazardContacts, id)
	for k := range e.playerContacts {
		if k.a == id || k.b == id {
			delete(e.playerContacts, k)
		}
	}
}

// Resolve runs collision detection over all players in join order and
// applies the outcomes. A player eliminated earlier in the same call is
// neither evaluated nor targeted again.
func (e *Engine) Resolve(w *world.World, rng core.Rand, cfg config.ArenaConfig) []Event {
	if w.Hazard == nil {
		panic("collision: world has no hazard")
	}

	var events []Event
	order := w.Order()

	for _, id := range order {
		p, ok := w.Get(id)
		if !ok {
			continue
		}

		if evt, hit := e.resolveHazard(p, w.Hazard, cfg); hit {
			events = append(events, evt)
		}

		for _, otherID := range order {
			if otherID == id {
				continue
			}
			q, ok := w.Get(otherID)
			if !ok {
				continue
			}
			events = append(events, e.resolvePlayers(w, p, q, rng, cfg)...)
		}
	}

	return events
}

func (e *Engine) resolveHazard(p *world.Player, h *world.Hazard, cfg config.ArenaConfig) (Event, bool) {
	if !playerBox(p, cfg).Overlaps(hazardBox(h, cfg)) {
		delete(e.hazardContacts, p.ID)
		return Event{}, false
	}
	if _, done := e.hazardContacts[p.ID]; done {
		return Event{}, false
	}
	if !falling(p) {
		return Event{}, false
	}

	e.hazardContacts[p.ID] = struct{}{}
	p.VelocityY = -cfg.Physics.JumpForce
	p.ImpactSpeed = 0
	p.CanJump = false
	p.Score += cfg.Scoring.HazardBonus
	h.SetMoving(!h.IsMoving)

	return Event{Kind: HazardBounced, Player: p.ID, HazardMoving: h.IsMoving}, true
}

func (e *Engine) resolvePlayers(w *world.World, p, q *world.Player, rng core.Rand, cfg config.ArenaConfig) []Event {
	key := makePair(p.ID, q.ID)
	if !playerBox(p, cfg).Overlaps(playerBox(q, cfg)) {
		delete(e.playerContacts, key)
		return nil
	}
	if _, done := e.playerContacts[key]; done {
		return nil
	}
	if !falling(p) || p.Y >= q.Y-cfg.Player.Height/2 {
		return nil
	}

	e.playerContacts[key] = struct{}{}
	p.VelocityY = -cfg.Physics.JumpForce * cfg.Scoring.StompBounceFactor
	p.ImpactSpeed = 0
	p.CanJump = false
	p.Score += cfg.Scoring.StompBonus
	q.Lives--

	events := []Event{{Kind: PlayerKilled, Player: p.ID, Target: q.ID}}

	if q.Lives <= 0 {
		q.Lives = 0
		w.Remove(q.ID)
		e.Forget(q.ID)
		events = append(events, Event{Kind: PlayerEliminated, Player: p.ID, Target: q.ID, Final: *q})
		return events
	}

	physics.Respawn(q, rng, cfg)
	return events
}

// falling reports whether the player moves down this tick, including a
// player that was snapped onto the ground by gravity.
func falling(p *world.Player) bool {
	return p.VelocityY > 0 || p.ImpactSpeed > 0
}

func playerBox(p *world.Player, cfg config.ArenaConfig) core.Box {
	return core.NewBox(p.X, p.Y, cfg.Player.Width, cfg.Player.Height)
}

// hazardBox uses the player extents: the mushroom sprite is player sized.
func hazardBox(h *world.Hazard, cfg config.ArenaConfig) core.Box {
	return core.NewBox(h.X, h.Y, cfg.Player.Width, cfg.Player.Height)
}
