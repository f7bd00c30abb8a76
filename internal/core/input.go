package core

// Action represents a semantic client action, abstracted from physical key presses.
type Action int

const (
	ActionNone  Action = iota
	ActionLeft         // A, Left arrow
	ActionRight        // D, Right arrow
	ActionJump         // Space, W, Up
	ActionStart        // Enter - join the arena
	ActionQuit         // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionStart:
		return "Start"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Intent is the latest horizontal movement request of a player.
type Intent struct {
	Left  bool
	Right bool
}

// Idle reports whether the intent requests no movement.
func (i Intent) Idle() bool {
	return !i.Left && !i.Right
}

// InputBuffer holds the input of one connection between two ticks.
// Movement is level-triggered: the last written intent stays in effect.
// Jump is edge-triggered: one request is consumed by at most one tick.
type InputBuffer struct {
	intent Intent
	jump   bool
}

// SetIntent overwrites the movement intent.
func (b *InputBuffer) SetIntent(in Intent) {
	b.intent = in
}

// Intent returns the current movement intent.
func (b *InputBuffer) Intent() Intent {
	return b.intent
}

// RequestJump records a jump press.
func (b *InputBuffer) RequestJump() {
	b.jump = true
}

// TakeJump returns the pending jump press and clears it.
func (b *InputBuffer) TakeJump() bool {
	j := b.jump
	b.jump = false
	return j
}

// Reset drops all buffered input.
func (b *InputBuffer) Reset() {
	b.intent = Intent{}
	b.jump = false
}
