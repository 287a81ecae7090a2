package prngtest

import (
	"context"
	"fmt"
	"math"

	"randbattery/generator"
	"randbattery/specfuncs"
)

// GapParams configures the inverted-distribution gap test: Shl selects
// how many high bits of each draw form the tag, NGaps is the number of
// observed gaps to accumulate before scoring.
type GapParams struct {
	Shl   int
	NGaps int
}

func (p GapParams) Validate() error {
	if p.Shl < 1 || p.Shl > 32 {
		return fmt.Errorf("%w: shl %d out of [1,32]", ErrConfig, p.Shl)
	}
	if p.NGaps < 1 {
		return fmt.Errorf("%w: ngaps must be >= 1, got %d", ErrConfig, p.NGaps)
	}
	return nil
}

// gapHistogramOrder picks the largest K such that every one of the K+1
// geometric-distribution bins {1,...,K,>=K+1} has an expected count above
// 5 under p=1/2^shl, so the resulting chi2 approximation stays valid.
func gapHistogramOrder(ngaps, shl int) int {
	p := 1.0 / math.Pow(2, float64(shl))
	k := 1
	for k < 100000 {
		nextBinExpected := float64(ngaps) * p * math.Pow(1-p, float64(k))
		if nextBinExpected < 5 {
			break
		}
		k++
	}
	return k
}

// GapTest runs the gap test (gap_test): it extracts a Shl-bit tag from
// each draw, tracks the index of the tag's last occurrence, and records
// the gap between repeats until NGaps gaps have been observed. The gap
// lengths follow Geometric(1/2^Shl) under the null and are scored with a
// chi2 test against a coarse histogram.
func GapTest(ctx context.Context, st generator.State, p GapParams) Result {
	const name = "gap_test"
	penalty := penaltyForWidth(p.Shl)
	if err := p.Validate(); err != nil {
		return inconclusive(name, penalty)
	}

	k := gapHistogramOrder(p.NGaps, p.Shl)
	hist := make([]int64, k+1) // hist[i] for gap=i+1 (i<k), hist[k] for gap>=k+1

	lastSeen := make(map[uint64]int64, p.NGaps*2)
	var index int64
	var recorded int
	for recorded < p.NGaps {
		select {
		case <-ctx.Done():
			return inconclusive(name, penalty)
		default:
		}
		word := st.Draw()
		key := generator.BitSlice(word, st.Width(), p.Shl, true)
		index++
		if last, ok := lastSeen[key]; ok {
			gap := index - last
			bin := gap - 1
			if bin >= int64(k) {
				bin = int64(k)
			}
			hist[bin]++
			recorded++
		}
		lastSeen[key] = index
	}

	pr := 1.0 / math.Pow(2, float64(p.Shl))
	var x float64
	for i := 0; i <= k; i++ {
		var expected float64
		if i < k {
			expected = float64(p.NGaps) * pr * math.Pow(1-pr, float64(i))
		} else {
			expected = float64(p.NGaps) * math.Pow(1-pr, float64(k))
		}
		d := float64(hist[i]) - expected
		x += d * d / expected
	}
	df := float64(k)
	return Result{Name: name, X: x, P: specfuncs.Chi2PValue(x, df), Alpha: specfuncs.Chi2CDF(x, df), Penalty: penalty}
}
