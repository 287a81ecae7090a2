package prngtest

import (
	"context"
	"fmt"
	"slices"

	"randbattery/generator"
	"randbattery/specfuncs"
)

// birthdaySampleSize is the fixed number of points drawn per repetition
// for BirthdaySpacingsND and CollisionOver, regardless of how many
// repetitions the caller asks for.
const birthdaySampleSize = 4096

// BirthdaySpacingsParams configures BirthdaySpacingsND and CollisionOver,
// which share the same composite-key construction.
type BirthdaySpacingsParams struct {
	// NBitsPerDim is the slice width taken from each sampled word, in
	// [4, 64].
	NBitsPerDim int
	// NDims is the number of words combined into one composite key.
	NDims int
	// NSamples is the number of independent repetitions to accumulate.
	NSamples int
	// UseLowBits selects the low NBitsPerDim bits of each draw; otherwise
	// the high bits are used.
	UseLowBits bool
}

// effectiveBits returns the composite keyspace width B = NBitsPerDim *
// NDims.
func (p BirthdaySpacingsParams) effectiveBits() int {
	return p.NBitsPerDim * p.NDims
}

// Validate enforces B <= 64 and the basic positivity constraints on
// every field.
func (p BirthdaySpacingsParams) Validate() error {
	if p.NBitsPerDim < 4 || p.NBitsPerDim > 64 {
		return fmt.Errorf("%w: nbits_per_dim %d out of [4,64]", ErrConfig, p.NBitsPerDim)
	}
	if p.NDims < 1 {
		return fmt.Errorf("%w: ndims must be >= 1, got %d", ErrConfig, p.NDims)
	}
	if p.NSamples < 1 {
		return fmt.Errorf("%w: nsamples must be >= 1, got %d", ErrConfig, p.NSamples)
	}
	if p.effectiveBits() > 64 {
		return fmt.Errorf("%w: nbits_per_dim*ndims = %d exceeds 64", ErrConfig, p.effectiveBits())
	}
	return nil
}

// penaltyForWidth scales a test's penalty weight with its effective
// keyspace width: wider keys isolate rarer structural flaws, so a
// failure there is weighted more heavily in the battery's aggregate
// verdict.
func penaltyForWidth(bits int) uint32 {
	switch {
	case bits >= 48:
		return 8
	case bits >= 32:
		return 4
	case bits >= 20:
		return 2
	default:
		return 1
	}
}

// drawCompositeKey samples p.NDims words from st and packs the selected
// bit slice of each into a single composite key k_d || ... || k_1.
func drawCompositeKey(st generator.State, p BirthdaySpacingsParams) uint64 {
	var key uint64
	for d := 0; d < p.NDims; d++ {
		word := st.Draw()
		slice := generator.BitSlice(word, st.Width(), p.NBitsPerDim, !p.UseLowBits)
		key |= slice << uint(d*p.NBitsPerDim)
	}
	return key
}

// BirthdaySpacingsND runs the N-dimensional birthday-spacings test
// (bspace_nd): across p.NSamples repetitions of birthdaySampleSize
// composite keys each, it counts duplicate adjacent sorted spacings and
// compares the total against its Poisson null distribution.
func BirthdaySpacingsND(ctx context.Context, st generator.State, p BirthdaySpacingsParams) Result {
	const name = "bspace_nd"
	penalty := penaltyForWidth(p.effectiveBits())
	if err := p.Validate(); err != nil {
		return inconclusive(name, penalty)
	}

	var duplicates int64
	keys := make([]uint64, birthdaySampleSize)
	spacings := make([]uint64, birthdaySampleSize-1)
	for rep := 0; rep < p.NSamples; rep++ {
		select {
		case <-ctx.Done():
			return inconclusive(name, penalty)
		default:
		}
		for i := range keys {
			keys[i] = drawCompositeKey(st, p)
		}
		slices.Sort(keys)
		for i := 0; i < len(keys)-1; i++ {
			spacings[i] = keys[i+1] - keys[i]
		}
		slices.Sort(spacings)
		for i := 0; i < len(spacings)-1; i++ {
			if spacings[i] == spacings[i+1] {
				duplicates++
			}
		}
	}

	b := p.effectiveBits()
	lambda := float64(p.NSamples) * math3(birthdaySampleSize) / (4 * math2(b))
	x := float64(duplicates)
	return Result{
		Name:    name,
		X:       x,
		P:       specfuncs.PoissonPValue(x, lambda),
		Alpha:   specfuncs.PoissonCDF(x, lambda),
		Penalty: penalty,
	}
}

// math3 returns n^3 as a float64 without overflowing an int64 for the
// sample sizes this package uses.
func math3(n int) float64 {
	f := float64(n)
	return f * f * f
}

// math2 returns 2^b as a float64 for b in [0, 64].
func math2(b int) float64 {
	if b >= 64 {
		return 18446744073709551616.0 // 2^64, beyond uint64 range
	}
	return float64(uint64(1) << uint(b))
}
