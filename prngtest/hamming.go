package prngtest

import (
	"context"
	"fmt"
	"math"
	"math/bits"

	"randbattery/generator"
	"randbattery/specfuncs"
)

// HammingMode selects which bytes of the draw stream HammingDC6 counts
// set bits over.
type HammingMode int

const (
	// HammingWholeBytes counts every byte drawn ("whole_bytes").
	HammingWholeBytes HammingMode = iota
	// HammingValues counts the popcount of the full native word, taken as
	// one observation per draw rather than per byte ("values").
	HammingValues
	// HammingLow1Byte counts only the single low byte of each draw
	// ("low1_bytes").
	HammingLow1Byte
	// HammingLow8Bytes counts the low 8 bytes of a 64-bit draw, or falls
	// back to the single low word for a 32-bit generator ("low8_bytes").
	HammingLow8Bytes
)

// HammingParams configures the Hamming-weight dispersion test (DC6):
// NSamples observations are accumulated, each an 8-bit-weight count (or
// a word popcount for HammingValues) and scored as a z-score against the
// binomial mean/variance of the bit count per observation.
type HammingParams struct {
	Mode     HammingMode
	NSamples int
}

func (p HammingParams) Validate() error {
	if p.NSamples < 1 {
		return fmt.Errorf("%w: hamming nsamples must be >= 1, got %d", ErrConfig, p.NSamples)
	}
	return nil
}

// HammingDC6 runs the Hamming-weight dispersion test: it draws NSamples
// observations in the configured mode, sums their popcounts, and
// compares the total against Normal(4*nbytes, 2*nbytes) where nbytes is
// the total number of 8-bit groups counted.
func HammingDC6(ctx context.Context, st generator.State, p HammingParams) Result {
	const name = "hamming_dc6"
	const penalty = 2
	if err := p.Validate(); err != nil {
		return inconclusive(name, penalty)
	}

	var total int64
	var nbytes int64
	for i := 0; i < p.NSamples; i++ {
		select {
		case <-ctx.Done():
			return inconclusive(name, penalty)
		default:
		}
		word := st.Draw()
		switch p.Mode {
		case HammingValues:
			total += int64(bits.OnesCount64(word))
			nbytes += int64(st.Width()) / 8
		case HammingLow1Byte:
			total += int64(bits.OnesCount8(byte(word)))
			nbytes++
		case HammingLow8Bytes:
			n := int(st.Width()) / 8
			if n > 8 {
				n = 8
			}
			for b := 0; b < n; b++ {
				total += int64(bits.OnesCount8(byte(word >> uint(8*b))))
			}
			nbytes += int64(n)
		default: // HammingWholeBytes
			n := int(st.Width()) / 8
			for b := 0; b < n; b++ {
				total += int64(bits.OnesCount8(byte(word >> uint(8*b))))
			}
			nbytes += int64(n)
		}
	}

	mean := 4 * float64(nbytes)
	std := math.Sqrt(2 * float64(nbytes))
	z := (float64(total) - mean) / std
	return Result{Name: name, X: z, P: specfuncs.StdNormPValue(z), Alpha: specfuncs.StdNormCDF(z), Penalty: penalty}
}
