package multiplayer

import (
	"fmt"

	"github.com/vovakirdan/mushroom-arena/internal/core"
	"github.com/vovakirdan/mushroom-arena/internal/physics"
	"github.com/vovakirdan/mushroom-arena/internal/protocol"
	"github.com/vovakirdan/mushroom-arena/internal/world"
)

// connection is the arena-side state of one session. A connection is idle
// while player is empty and playing otherwise.
type connection struct {
	handle SessionHandle
	input  core.InputBuffer
	player world.PlayerID
}

func (c *connection) playing() bool {
	return c.player != ""
}

// leaveWorld returns the connection to idle. The session stays registered.
func (c *connection) leaveWorld() {
	c.player = ""
	c.input.Reset()
}

// stateFor resolves the current player of base for this connection.
func (c *connection) stateFor(base protocol.GameState) protocol.GameState {
	base.CurrentPlayer = string(c.player)
	return base
}

func (a *Arena) handleConnect(m ConnectMsg) {
	id := m.Session.ID()
	if _, exists := a.conns[id]; exists {
		a.logger.Warn("duplicate session", "session", id)
		return
	}

	a.conns[id] = &connection{handle: m.Session}
	a.connOrder = append(a.connOrder, id)
	a.metrics.SetSessions(len(a.conns))

	a.logger.Info("session connected", "session", id, "sessions", len(a.conns))
}

func (a *Arena) handleStartGame(m StartGameMsg) {
	c, ok := a.conns[m.SessionID]
	if !ok {
		a.logger.Debug("start from unknown session", "session", m.SessionID)
		return
	}
	if c.playing() {
		a.logger.Debug("session already playing", "session", m.SessionID)
		return
	}

	p := a.newPlayer(m.SessionID.PlayerID())
	a.world.Add(p)
	a.engine.Forget(p.ID)
	c.player = p.ID
	c.input.Reset()
	a.metrics.SetPlayers(a.world.Len())

	a.logger.Info("player joined", "player", p.ID, "name", p.Name, "x", p.X)

	base := a.baseState()
	if !a.deliver(c, GameStateEvent{State: c.stateFor(base)}) {
		a.handleDisconnect(m.SessionID, "send failed")
	}
}

func (a *Arena) handleMove(m MoveMsg) {
	c, ok := a.conns[m.SessionID]
	if !ok {
		a.metrics.IncIgnored()
		return
	}
	c.input.SetIntent(core.Intent{Left: m.Left, Right: m.Right})
	a.metrics.IncAccepted()
}

func (a *Arena) handleJump(m JumpMsg) {
	c, ok := a.conns[m.SessionID]
	if !ok || !c.playing() {
		a.metrics.IncIgnored()
		return
	}
	c.input.RequestJump()
	a.metrics.IncAccepted()
}

// handleDisconnect forgets the session and removes its player, recording the
// run as finished. Unknown sessions are ignored.
func (a *Arena) handleDisconnect(id SessionID, reason string) {
	c, ok := a.conns[id]
	if !ok {
		return
	}

	if c.playing() {
		if p, inWorld := a.world.Get(c.player); inWorld {
			final := *p
			a.world.Remove(p.ID)
			a.engine.Forget(p.ID)
			a.recordResult(final, ResultDisconnect)
		}
	}

	delete(a.conns, id)
	for i, sid := range a.connOrder {
		if sid == id {
			a.connOrder = append(a.connOrder[:i], a.connOrder[i+1:]...)
			break
		}
	}
	a.metrics.SetSessions(len(a.conns))
	a.metrics.SetPlayers(a.world.Len())

	a.logger.Info("session disconnected", "session", id, "reason", reason, "sessions", len(a.conns))
}

// newPlayer creates a player at a random ground position with the starting
// values from the config.
func (a *Arena) newPlayer(id world.PlayerID) *world.Player {
	x, y := physics.SpawnPosition(a.rng, a.cfg)
	return &world.Player{
		ID:      id,
		Name:    fmt.Sprintf("%s %d", a.cfg.Player.NamePrefix, a.rng.Intn(1000)),
		X:       x,
		Y:       y,
		CanJump: true,
		Score:   0,
		Lives:   a.cfg.Player.StartLives,
		Level:   a.cfg.Player.StartLevel,
		Powerup: world.NoPowerup,
	}
}
