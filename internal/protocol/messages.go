package protocol

// Move carries the client's current horizontal intent. It replaces the
// previous intent until the next move arrives.
type Move struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// PlayerSnapshot is one player as seen by clients.
type PlayerSnapshot struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	VelocityY  float64 `json:"velocityY"`
	CanJump    bool    `json:"canJump"`
	FacingLeft bool    `json:"facingLeft"`
	Score      int     `json:"score"`
	Lives      int     `json:"lives"`
	Level      int     `json:"level"`
	Powerup    string  `json:"powerup"`
}

// MushroomSnapshot is the hazard as seen by clients.
type MushroomSnapshot struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction float64 `json:"direction"`
	Speed     float64 `json:"speed"`
	IsMoving  bool    `json:"isMoving"`
	Mood      string  `json:"mood"`
}

// GameState is the full world broadcast once per tick. CurrentPlayer is the
// receiving connection's own player id, empty while it is not playing.
type GameState struct {
	Tick          uint64                    `json:"tick"`
	Players       map[string]PlayerSnapshot `json:"players"`
	Mushroom      MushroomSnapshot          `json:"mushroom"`
	CurrentPlayer string                    `json:"currentPlayer"`
}

// PlayerKilled announces a stomp.
type PlayerKilled struct {
	Killer string `json:"killer"`
	Killed string `json:"killed"`
}
