package core

import (
	"math/rand"
	"time"
)

// Rand is the random source used for spawn positions and player names.
// Tests inject a seeded or scripted implementation.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a math/rand source. A zero seed means seed from the clock.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
