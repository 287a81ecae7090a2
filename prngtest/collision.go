package prngtest

import (
	"context"
	"fmt"
	"math"

	"randbattery/generator"
	"randbattery/specfuncs"
)

// collisionMaxBits caps the composite keyspace so the occupancy bitset
// (2^B bits) stays addressable; callers must keep B <= 26 (8 MiB of
// bitset at the cap).
const collisionMaxBits = 26

// CollisionOverParams reuses the same composite-key construction as
// BirthdaySpacingsND; see BirthdaySpacingsParams for field meaning.
type CollisionOverParams = BirthdaySpacingsParams

// validateCollision enforces the shared birthday-spacings constraints plus the
// collision test's tighter B <= 26 bitset bound.
func validateCollision(p CollisionOverParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.effectiveBits() > collisionMaxBits {
		return fmt.Errorf("%w: collision_over requires B<=%d, got %d", ErrConfig, collisionMaxBits, p.effectiveBits())
	}
	return nil
}

// CollisionOver runs the collision-over test: across p.NSamples
// repetitions of birthdaySampleSize composite keys each, it places keys
// into a 2^B-cell table and counts the number of occupied cells that
// receive a further insertion, against the Poisson-tail null.
func CollisionOver(ctx context.Context, st generator.State, p CollisionOverParams) Result {
	const name = "collision_over"
	penalty := penaltyForWidth(p.effectiveBits())
	if err := validateCollision(p); err != nil {
		return inconclusive(name, penalty)
	}

	b := p.effectiveBits()
	cells := newBitset(uint64(1) << uint(b))
	var collisions int64
	for rep := 0; rep < p.NSamples; rep++ {
		select {
		case <-ctx.Done():
			return inconclusive(name, penalty)
		default:
		}
		cells.clear()
		for i := 0; i < birthdaySampleSize; i++ {
			key := drawCompositeKey(st, p)
			if cells.testAndSet(key) {
				collisions++
			}
		}
	}

	n := float64(birthdaySampleSize)
	twoB := math2(b)
	mu := float64(p.NSamples) * (n - twoB*(1-math.Pow(1-1/twoB, n)))
	x := float64(collisions)
	return Result{
		Name:    name,
		X:       x,
		P:       specfuncs.PoissonPValue(x, mu),
		Alpha:   specfuncs.PoissonCDF(x, mu),
		Penalty: penalty,
	}
}

// bitset is a fixed-size occupancy table addressed by key, used to find
// collisions without allocating one bool per cell.
type bitset struct {
	words []uint64
}

func newBitset(nbits uint64) *bitset {
	return &bitset{words: make([]uint64, (nbits+63)/64)}
}

func (b *bitset) clear() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// testAndSet reports whether bit k was already set, then sets it.
func (b *bitset) testAndSet(k uint64) bool {
	w, bit := k/64, k%64
	mask := uint64(1) << bit
	was := b.words[w]&mask != 0
	b.words[w] |= mask
	return was
}
