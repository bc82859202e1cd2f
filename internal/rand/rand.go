package rand

import (
	"math/rand"
	"time"
)

// NewSeeded returns a new pseudo-random number generator seeded with the
// current time. Callers that require cryptographically secure randomness
// should NOT use this.
func NewSeeded() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
