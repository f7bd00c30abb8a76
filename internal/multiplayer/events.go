package multiplayer

import (
	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/protocol"
)

// SessionEvent represents an event sent from the arena to a session.
type SessionEvent interface {
	sessionEvent()
}

// GameStateEvent carries the world snapshot of one tick. State.CurrentPlayer
// is already resolved for the receiving session.
type GameStateEvent struct {
	State protocol.GameState
}

func (GameStateEvent) sessionEvent() {}

// PlayerKilledEvent announces that Killer landed on Killed.
type PlayerKilledEvent struct {
	Killer string
	Killed string
}

func (PlayerKilledEvent) sessionEvent() {}

// CoordinatorMessage represents a message from a session (or the server)
// to the arena.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// ConnectMsg registers a new session. It has no player until StartGameMsg.
type ConnectMsg struct {
	Session SessionHandle
}

func (ConnectMsg) coordinatorMessage() {}

// StartGameMsg asks for a player for the session.
type StartGameMsg struct {
	SessionID SessionID
}

func (StartGameMsg) coordinatorMessage() {}

// MoveMsg replaces the session's movement intent.
type MoveMsg struct {
	SessionID SessionID
	Left      bool
	Right     bool
}

func (MoveMsg) coordinatorMessage() {}

// JumpMsg requests one jump at the next tick.
type JumpMsg struct {
	SessionID SessionID
}

func (JumpMsg) coordinatorMessage() {}

// DisconnectMsg is sent when a session's transport closes.
type DisconnectMsg struct {
	SessionID SessionID
}

func (DisconnectMsg) coordinatorMessage() {}

// ReloadConfigMsg swaps the tuning values between two ticks.
type ReloadConfigMsg struct {
	Config config.ArenaConfig
}

func (ReloadConfigMsg) coordinatorMessage() {}
