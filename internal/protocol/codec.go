package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyFrame is returned when decoding a zero-length frame.
var ErrEmptyFrame = errors.New("protocol: empty frame")

// Encode wraps payload in an envelope of type t. A nil payload produces a
// bare envelope, which is how startGame and jump travel.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("protocol: encode: empty message type")
	}

	e := Envelope{T: t}
	if payload != nil {
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("protocol: encode %s: %w", t, err)
		}
		e.P = pb
	}

	return json.Marshal(e)
}

// DecodeEnvelope parses the outer frame. The payload stays raw.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("protocol: decode envelope: missing type")
	}
	return e, nil
}

// DecodePayload unmarshals the payload of env into a T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("protocol: empty payload for type %q", env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("protocol: decode %s payload: %w", env.T, err)
	}
	return out, nil
}
