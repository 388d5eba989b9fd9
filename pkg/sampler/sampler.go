// Package sampler implements the per-worker Monte Carlo loop: draw points in
// the positive quadrant of the unit square and count those inside the unit
// circle.
//
// Coordinates are float64. There is no extended-precision float in Go, and
// float64 keeps the per-draw bias far below the sampling error for any count
// that fits in an int64.
package sampler

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
)

// Source yields uniform values in [0.0, 1.0).
// A Source is owned by exactly one Count call at a time.
type Source interface {
	Float64() float64
}

// Count draws n points from r and returns how many have norm <= 1.
// The result is always in [0, n]; n <= 0 yields 0.
func Count(n int64, r Source) int64 {
	var inside int64
	for i := int64(0); i < n; i++ {
		x, y := r.Float64(), r.Float64()
		if math.Sqrt(x*x+y*y) <= 1.0 {
			inside++
		}
	}
	return inside
}

// NewStream returns a generator for one worker, seeded from OS entropy.
func NewStream(worker int) (*rand.Rand, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("read entropy for worker %d: %w", worker, err)
	}
	return NewSeededStream(binary.LittleEndian.Uint64(buf[:]), worker), nil
}

// NewSeededStream returns a deterministic generator for worker. Distinct
// workers sharing one seed still get distinct PCG states.
func NewSeededStream(seed uint64, worker int) *rand.Rand {
	hi := hash64(seed + uint64(worker))
	lo := hash64(hi ^ 0xe1cf322879493bf1)
	return rand.New(rand.NewPCG(hi, lo))
}

// hash64 is the splitmix64 finalizer.
func hash64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
