package world

import (
	"math/rand"
	"time"
)

// RandomSource supplies uniformly distributed integers. Generation draws every
// random value from a single RandomSource so that a seeded source reproduces
// the same dungeon.
type RandomSource interface {
	// IntRange returns a value in [min, maxExclusive). It returns min when
	// the range is empty.
	IntRange(min, maxExclusive int) int
}

// Random is the math/rand backed RandomSource.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a RandomSource seeded with seed. A seed of 0 means a
// time based seed.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// IntRange implements RandomSource.
func (r *Random) IntRange(min, maxExclusive int) int {
	if maxExclusive <= min {
		return min
	}
	return min + r.rng.Intn(maxExclusive-min)
}
