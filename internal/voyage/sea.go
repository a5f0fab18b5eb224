// Package voyage resolves sea travel: how long a crossing takes, how rough
// the sea is on a given day, and which mishap (if any) befalls the ship.
package voyage

import (
	"hash/fnv"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Lunthu/Surreal-Phoenicians/internal/economy"
	"github.com/Lunthu/Surreal-Phoenicians/internal/entropy"
)

// Sea produces smooth day-to-day sea roughness per lane from layered
// simplex noise. The same seed always yields the same weather.
type Sea struct {
	noise opensimplex.Noise
}

// NewSea creates a sea seeded for reproducible weather.
func NewSea(seed int64) *Sea {
	return &Sea{noise: opensimplex.NewNormalized(seed)}
}

// Roughness returns how rough the lane is on day, in [0, 1].
func (s *Sea) Roughness(day int, r economy.Route) float64 {
	if s == nil {
		return 0.5
	}
	return octaveNoise(s.noise, float64(day), laneCoord(r), 3, 0.08, 0.5)
}

// EffectiveRisk scales a route's base risk by the sea state: calm seas
// cut it to 75%, storms raise it to 125%.
func (s *Sea) EffectiveRisk(day int, r economy.Route) float64 {
	return r.BaseRisk * (0.75 + 0.5*s.Roughness(day, r))
}

// TravelDays draws a crossing time in [MinDays, MaxDays].
func TravelDays(r economy.Route, rng entropy.Source) int {
	return rng.IntRange(r.MinDays, r.MaxDays)
}

func laneCoord(r economy.Route) float64 {
	h := fnv.New32a()
	h.Write([]byte(r.From))
	h.Write([]byte{0})
	h.Write([]byte(r.To))
	return float64(h.Sum32()%1024) * 7.3
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
