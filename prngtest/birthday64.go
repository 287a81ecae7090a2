package prngtest

import (
	"context"
	"fmt"
	"slices"

	"randbattery/generator"
	"randbattery/specfuncs"
)

// Birthday64Params configures Birthday64 (bspace64_1d_ns): one-dimensional
// birthday spacings over the full 64-bit output.
type Birthday64Params struct {
	// NSamples is the number of repetitions.
	NSamples int
	// SampleSizeLog2 sets n = 2^SampleSizeLog2 points per repetition;
	// default is 22, configurable up to 26.
	SampleSizeLog2 int
}

// Validate enforces the [22,26] range this test allows, since it is
// memory-intensive enough that a runaway value would exhaust a worker's
// scratch budget.
func (p Birthday64Params) Validate() error {
	if p.NSamples < 1 {
		return fmt.Errorf("%w: nsamples must be >= 1, got %d", ErrConfig, p.NSamples)
	}
	if p.SampleSizeLog2 < 22 || p.SampleSizeLog2 > 26 {
		return fmt.Errorf("%w: sample_size_log2 %d out of [22,26]", ErrConfig, p.SampleSizeLog2)
	}
	return nil
}

// Birthday64 runs the one-dimensional, full-width birthday-spacings test
// (bspace64_1d_ns). It is reserved for the full/extra battery tiers
// because each repetition sorts up to 2^26 64-bit keys.
func Birthday64(ctx context.Context, st generator.State, p Birthday64Params) Result {
	const name = "bspace64_1d_ns"
	const penalty = 16
	if err := p.Validate(); err != nil {
		return inconclusive(name, penalty)
	}

	n := 1 << uint(p.SampleSizeLog2)
	keys := make([]uint64, n)
	spacings := make([]uint64, n-1)
	var duplicates int64
	for rep := 0; rep < p.NSamples; rep++ {
		select {
		case <-ctx.Done():
			return inconclusive(name, penalty)
		default:
		}
		for i := range keys {
			keys[i] = st.Draw()
		}
		slices.Sort(keys)
		for i := 0; i < n-1; i++ {
			spacings[i] = keys[i+1] - keys[i]
		}
		slices.Sort(spacings)
		for i := 0; i < n-2; i++ {
			if spacings[i] == spacings[i+1] {
				duplicates++
			}
		}
	}

	lambda := float64(p.NSamples) * math3(n) / (4 * math2(64))
	x := float64(duplicates)
	return Result{
		Name:    name,
		X:       x,
		P:       specfuncs.PoissonPValue(x, lambda),
		Alpha:   specfuncs.PoissonCDF(x, lambda),
		Penalty: penalty,
	}
}
