package ride

import (
	"math/rand/v2"
	"sync"

	"taxifare/internal/types"
)

// Bounding box sampled by the randomize button (lower Manhattan).
const (
	RandomLatMin = 40.7
	RandomLatMax = 40.8
	RandomLngMin = -74.0
	RandomLngMax = -73.9
)

// Randomizer draws pickup/dropoff pairs inside the sampling box. Safe for
// concurrent use.
type Randomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomizer returns a Randomizer over src; nil means a randomly seeded PCG.
func NewRandomizer(src rand.Source) *Randomizer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Randomizer{rng: rand.New(src)}
}

// Randomize samples both points independently.
func (r *Randomizer) Randomize() (pickup, dropoff types.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.point(), r.point()
}

func (r *Randomizer) point() types.Point {
	return types.Point{
		Lat: uniform(r.rng, RandomLatMin, RandomLatMax),
		Lng: uniform(r.rng, RandomLngMin, RandomLngMax),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	v := lo + rng.Float64()*(hi-lo)
	if v > hi {
		return hi
	}
	return v
}
