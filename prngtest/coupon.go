package prngtest

import (
	"context"
	"fmt"
	"math"

	"randbattery/generator"
	"randbattery/specfuncs"
)

// couponHistBins is the fixed number of equal-probability bins the
// waiting times are sorted into before scoring; Validate requires at
// least 5*couponHistBins trials so every bin's expected count is at
// least 5.
const couponHistBins = 10

// CouponCollectorParams configures the coupon-collector waiting-time
// test: TagBits selects the size of the tag alphabet (2^TagBits distinct
// values to collect), NTrials is the number of independent
// collect-the-whole-set runs to accumulate.
type CouponCollectorParams struct {
	TagBits int
	NTrials int
}

func (p CouponCollectorParams) Validate() error {
	if p.TagBits < 1 || p.TagBits > 20 {
		return fmt.Errorf("%w: coupon tag_bits=%d must be in [1,20]", ErrConfig, p.TagBits)
	}
	if p.NTrials < couponHistBins*5 {
		return fmt.Errorf("%w: coupon ntrials=%d too small for %d histogram bins", ErrConfig, p.NTrials, couponHistBins)
	}
	return nil
}

// CouponCollectorTest runs the coupon-collector test: each trial draws
// tags until every one of the 2^TagBits possible values has appeared at
// least once, recording the number of draws needed. The waiting times
// are standardised against the classical coupon-collector mean and
// variance, sorted into couponHistBins equal-probability bins under the
// resulting normal approximation, and scored with chi2.
func CouponCollectorTest(ctx context.Context, st generator.State, p CouponCollectorParams) Result {
	const name = "coupon_collector"
	penalty := penaltyForWidth(p.TagBits)
	if err := p.Validate(); err != nil {
		return inconclusive(name, penalty)
	}

	d := uint64(1) << uint(p.TagBits)
	mean, variance := couponMeanVariance(d)
	std := math.Sqrt(variance)

	seen := newBitset(d)
	hist := make([]int64, couponHistBins)
	for trial := 0; trial < p.NTrials; trial++ {
		select {
		case <-ctx.Done():
			return inconclusive(name, penalty)
		default:
		}
		seen.clear()
		var distinct uint64
		var waiting int64
		for distinct < d {
			tag := generator.BitSlice(st.Draw(), st.Width(), p.TagBits, false)
			waiting++
			if !seen.testAndSet(tag) {
				distinct++
			}
		}
		z := (float64(waiting) - mean) / std
		bin := int(specfuncs.StdNormCDF(z) * float64(couponHistBins))
		if bin < 0 {
			bin = 0
		}
		if bin >= couponHistBins {
			bin = couponHistBins - 1
		}
		hist[bin]++
	}

	expected := float64(p.NTrials) / float64(couponHistBins)
	x := chiSquareStat(hist, expected)
	df := float64(couponHistBins - 1)
	return Result{Name: name, X: x, P: specfuncs.Chi2PValue(x, df), Alpha: specfuncs.Chi2CDF(x, df), Penalty: penalty}
}

// couponMeanVariance returns the mean and variance of the waiting time
// to collect all d distinct values under uniform sampling with
// replacement (the classical coupon-collector distribution).
func couponMeanVariance(d uint64) (mean, variance float64) {
	var harmonic, harmonicSq float64
	for k := uint64(1); k <= d; k++ {
		harmonic += 1 / float64(k)
		harmonicSq += 1 / (float64(k) * float64(k))
	}
	fd := float64(d)
	mean = fd * harmonic
	variance = fd*fd*harmonicSq - fd*harmonic
	return mean, variance
}
