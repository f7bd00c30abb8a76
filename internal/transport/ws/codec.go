// Package ws carries arena sessions over WebSocket: a server handler that
// turns each connection into a multiplayer.SessionHandle, and a client used
// by the terminal player.
package ws

import (
	"fmt"

	"github.com/vovakirdan/mushroom-arena/internal/multiplayer"
	"github.com/vovakirdan/mushroom-arena/internal/protocol"
)

// encodeEvent turns an arena event into a wire frame.
func encodeEvent(evt multiplayer.SessionEvent) ([]byte, error) {
	switch e := evt.(type) {
	case multiplayer.GameStateEvent:
		return protocol.Encode(protocol.MsgGameState, e.State)
	case multiplayer.PlayerKilledEvent:
		return protocol.Encode(protocol.MsgPlayerKilled, protocol.PlayerKilled{Killer: e.Killer, Killed: e.Killed})
	default:
		return nil, fmt.Errorf("ws: cannot encode event %T", evt)
	}
}

// decodeEvent is the client-side inverse of encodeEvent. Unknown types
// decode to nil.
func decodeEvent(frame []byte) (multiplayer.SessionEvent, error) {
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		return nil, err
	}
	switch env.T {
	case protocol.MsgGameState:
		st, err := protocol.DecodePayload[protocol.GameState](env)
		if err != nil {
			return nil, err
		}
		return multiplayer.GameStateEvent{State: st}, nil
	case protocol.MsgPlayerKilled:
		pk, err := protocol.DecodePayload[protocol.PlayerKilled](env)
		if err != nil {
			return nil, err
		}
		return multiplayer.PlayerKilledEvent{Killer: pk.Killer, Killed: pk.Killed}, nil
	default:
		return nil, nil
	}
}

// decodeMessage turns a client frame into an arena message for session id.
// A malformed frame is an error. A well-formed frame of unknown type
// decodes to nil and is ignored.
func decodeMessage(id multiplayer.SessionID, frame []byte) (multiplayer.CoordinatorMessage, error) {
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		return nil, err
	}
	switch env.T {
	case protocol.MsgStartGame:
		return multiplayer.StartGameMsg{SessionID: id}, nil
	case protocol.MsgJump:
		return multiplayer.JumpMsg{SessionID: id}, nil
	case protocol.MsgMove:
		mv, err := protocol.DecodePayload[protocol.Move](env)
		if err != nil {
			return nil, err
		}
		return multiplayer.MoveMsg{SessionID: id, Left: mv.Left, Right: mv.Right}, nil
	default:
		return nil, nil
	}
}

// encodeMessage is the client-side inverse of decodeMessage.
func encodeMessage(msg multiplayer.CoordinatorMessage) ([]byte, error) {
	switch m := msg.(type) {
	case multiplayer.StartGameMsg:
		return protocol.Encode(protocol.MsgStartGame, nil)
	case multiplayer.JumpMsg:
		return protocol.Encode(protocol.MsgJump, nil)
	case multiplayer.MoveMsg:
		return protocol.Encode(protocol.MsgMove, protocol.Move{Left: m.Left, Right: m.Right})
	default:
		return nil, fmt.Errorf("ws: cannot encode message %T", msg)
	}
}
