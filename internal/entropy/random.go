// Package entropy provides the injectable random sources used for travel
// time, restock variance and travel events. Core code never touches a global
// generator, so a seeded or scripted source pins every outcome under test.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source yields random draws.
type Source interface {
	// IntRange returns an integer in [lo, hi], both inclusive.
	IntRange(lo, hi int) int
	// Float returns a float64 in [0, 1).
	Float() float64
}

// Seeded is a reproducible source backed by math/rand.
type Seeded struct {
	rng *mrand.Rand
}

// NewSeeded creates a reproducible source.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *Seeded) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *Seeded) Float() float64 {
	return s.rng.Float64()
}

// Crypto draws from crypto/rand. Not reproducible; for live play only.
type Crypto struct{}

func (Crypto) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := int(cryptoRandFloat() * float64(hi-lo+1))
	if n > hi-lo {
		n = hi - lo
	}
	return lo + n
}

func (Crypto) Float() float64 {
	return cryptoRandFloat()
}

// cryptoRandFloat generates a random float64 using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// Scripted replays queued draws, clamped into the requested range. When a
// queue runs dry it falls back to the low bound (ints) or 0.99 (floats,
// i.e. "no event").
type Scripted struct {
	Ints   []int
	Floats []float64
}

func (s *Scripted) IntRange(lo, hi int) int {
	if len(s.Ints) == 0 {
		return lo
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return min(max(v, lo), hi)
}

func (s *Scripted) Float() float64 {
	if len(s.Floats) == 0 {
		return 0.99
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}
