// Package multiplayer runs the shared arena: it owns the world, turns
// session messages into player state changes and steps the simulation at a
// fixed rate, broadcasting the result to every connected session.
package multiplayer

import (
	"time"

	"github.com/vovakirdan/mushroom-arena/internal/world"
)

// SessionID uniquely identifies a connection (WebSocket or SSH).
// A connection's player, when it has one, shares its id.
type SessionID string

// PlayerID returns the id the connection's player uses in the world.
func (id SessionID) PlayerID() world.PlayerID {
	return world.PlayerID(id)
}

// ResultReason describes why a run ended.
type ResultReason int

const (
	ResultEliminated ResultReason = iota // Lost the last life
	ResultDisconnect                     // Connection closed while playing
)

func (r ResultReason) String() string {
	switch r {
	case ResultEliminated:
		return "eliminated"
	case ResultDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Result is the final state of one finished run.
type Result struct {
	PlayerID string
	Name     string
	Score    int
	Level    int
	Reason   ResultReason
	EndedAt  time.Time
}

// ResultSaver records finished runs.
// This allows the arena to save results without depending on the storage package.
type ResultSaver interface {
	SaveResult(result Result) error
}
