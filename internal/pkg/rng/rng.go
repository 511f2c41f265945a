// Package rng provides the randomness seam for combat resolution.
//
// Crit rolls, rare-drop trials, and the enemy action heuristic all draw from
// a Roller so tests can pin outcomes deterministically.
package rng

import (
	"math/rand/v2"
	"sync"
)

//go:generate mockgen -destination=mock/mock.go -package=rngmock github.com/habitquest/combat-api/internal/pkg/rng Roller

// Roller is the source of randomness for combat resolution
type Roller interface {
	// Chance returns true with probability p (0 <= p <= 1)
	Chance(p float64) bool
	// IntN returns a uniform int in [0, n)
	IntN(n int) int
}

type defaultRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Roller backed by a seeded PCG source
func New() Roller {
	return &defaultRoller{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeeded returns a Roller with a fixed seed for reproducible runs
func NewSeeded(seed uint64) Roller {
	return &defaultRoller{
		rng: rand.New(rand.NewPCG(seed, seed)),
	}
}

func (r *defaultRoller) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < p
}

func (r *defaultRoller) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// Fixed is a Roller with scripted outcomes for tests. Chance pops from
// Chances (defaulting to false when exhausted); IntN always returns Ints[i]
// modulo n, advancing through Ints.
type Fixed struct {
	mu      sync.Mutex
	Chances []bool
	Ints    []int
	ci, ii  int
}

// Chance pops the next scripted outcome
func (f *Fixed) Chance(_ float64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ci >= len(f.Chances) {
		return false
	}
	v := f.Chances[f.ci]
	f.ci++
	return v
}

// IntN pops the next scripted int, reduced modulo n
func (f *Fixed) IntN(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n <= 1 || f.ii >= len(f.Ints) {
		return 0
	}
	v := f.Ints[f.ii] % n
	f.ii++
	return v
}
