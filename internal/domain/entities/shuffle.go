package entities

import (
	"math/rand"
	"time"
)

// Randomizer is a uniform random source. *rand.Rand satisfies it.
type Randomizer interface {
	// Intn returns a uniform int in [0, n).
	Intn(n int) int
}

// NewRandomizer returns a time-seeded source. It is not safe for concurrent use,
// so every session gets its own.
func NewRandomizer() Randomizer {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle permutes items in place with the back-to-front Fisher-Yates algorithm.
func Shuffle[T any](r Randomizer, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Shuffled returns a shuffled copy of items and leaves items untouched.
func Shuffled[T any](r Randomizer, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	Shuffle(r, out)
	return out
}
