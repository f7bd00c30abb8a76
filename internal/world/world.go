// Package world holds the authoritative entity model: players, the
// mushroom hazard and the world aggregate that owns them. It contains no
// simulation logic; physics and collision mutate these types during a tick.
package world

import "github.com/vovakirdan/mushroom-arena/internal/config"

// PlayerID identifies a player. It is derived from the owning connection.
type PlayerID string

// Player is a participant in the arena.
type Player struct {
	ID         PlayerID
	Name       string
	X, Y       float64
	VelocityY  float64
	CanJump    bool // Grounded
	FacingLeft bool
	Score      int
	Lives      int
	Level      int
	Powerup    string

	// ImpactSpeed is the downward speed the player had when it reached the
	// ground this tick, zero otherwise. Collision treats it as falling.
	ImpactSpeed float64
}

// NoPowerup is the powerup tag of a player without one.
const NoPowerup = "-"

// Mood is the display attribute of the mushroom.
type Mood string

const (
	MoodHappy Mood = "happy"
	MoodSad   Mood = "sad"
)

// Hazard is the bouncing mushroom.
type Hazard struct {
	X, Y      float64
	Direction float64 // +1 right, -1 left
	Speed     float64
	IsMoving  bool
	Mood      Mood
}

// SetMoving updates the moving flag and the mood derived from it.
func (h *Hazard) SetMoving(moving bool) {
	h.IsMoving = moving
	if moving {
		h.Mood = MoodHappy
	} else {
		h.Mood = MoodSad
	}
}

// World is the single-writer aggregate of the arena. Players are kept in
// join order so every tick iterates them deterministically.
type World struct {
	Hazard *Hazard

	players map[PlayerID]*Player
	order   []PlayerID
}

// New creates a world with the hazard placed as configured.
func New(cfg config.ArenaConfig) *World {
	h := &Hazard{
		X:         cfg.Hazard.X,
		Y:         cfg.Hazard.Y,
		Direction: 1,
		Speed:     cfg.Hazard.Speed,
	}
	h.SetMoving(true)

	return &World{
		Hazard:  h,
		players: make(map[PlayerID]*Player),
	}
}

// Add inserts a player. Adding an existing id replaces the entity but keeps
// its position in the iteration order.
func (w *World) Add(p *Player) {
	if _, ok := w.players[p.ID]; !ok {
		w.order = append(w.order, p.ID)
	}
	w.players[p.ID] = p
}

// Remove deletes a player. It reports whether the player was present.
func (w *World) Remove(id PlayerID) bool {
	if _, ok := w.players[id]; !ok {
		return false
	}
	delete(w.players, id)
	for i, pid := range w.order {
		if pid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the player with the given id.
func (w *World) Get(id PlayerID) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// Len returns the number of players.
func (w *World) Len() int {
	return len(w.order)
}

// Order returns a copy of the player ids in join order. Callers may mutate
// the world while ranging over the result.
func (w *World) Order() []PlayerID {
	out := make([]PlayerID, len(w.order))
	copy(out, w.order)
	return out
}

// Players returns the players in join order.
func (w *World) Players() []*Player {
	out := make([]*Player, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.players[id])
	}
	return out
}
