// Package protocol defines the JSON messages exchanged between arena clients
// and the server. Every frame is an Envelope: a type tag plus a raw payload
// decoded on demand.
package protocol

import "encoding/json"

// Client to server.
const (
	MsgStartGame = "startGame"
	MsgMove      = "move"
	MsgJump      = "jump"
)

// Server to client.
const (
	MsgGameState    = "gameState"
	MsgPlayerKilled = "playerKilled"
)

// Envelope is the outer frame of every message.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"` // raw payload bytes
}
