package prngtest

import (
	"context"
	"math"

	"randbattery/generator"
	"randbattery/specfuncs"
)

// FrequencyParams configures Monobit and ByteFrequency by the number of
// bytes to draw.
type FrequencyParams struct {
	NBytes int
}

func (p FrequencyParams) Validate() error {
	if p.NBytes < 1 {
		return ErrConfig
	}
	return nil
}

// Monobit counts ones across 8*NBytes bit positions. Under uniformity
// the count is Binomial(8N, 0.5), approximated by Normal(4N, 2N); the
// z-score against that approximation is the statistic.
func Monobit(ctx context.Context, st generator.State, p FrequencyParams) Result {
	const name = "monobit"
	const penalty = 1
	if err := p.Validate(); err != nil {
		return inconclusive(name, penalty)
	}
	buf := streamBytes(st, p.NBytes)
	ones := popcountBytes(buf)
	n := float64(8 * p.NBytes)
	z := (float64(ones) - n/2) / math.Sqrt(n/4)
	return Result{Name: name, X: z, P: specfuncs.StdNormPValue(z), Alpha: specfuncs.StdNormCDF(z), Penalty: penalty}
}

// ByteFrequency histograms p.NBytes bytes into 256 bins and reports chi2
// with 255 degrees of freedom.
func ByteFrequency(ctx context.Context, st generator.State, p FrequencyParams) Result {
	const name = "byte_frequency"
	const penalty = 1
	if err := p.Validate(); err != nil {
		return inconclusive(name, penalty)
	}
	buf := streamBytes(st, p.NBytes)
	var hist [256]int64
	for _, b := range buf {
		hist[b]++
	}
	x := chiSquareStat(hist[:], float64(p.NBytes)/256)
	const df = 255
	return Result{Name: name, X: x, P: specfuncs.Chi2PValue(x, df), Alpha: specfuncs.Chi2CDF(x, df), Penalty: penalty}
}

// Frequency16Params configures Frequency16 by the number of 16-bit words
// to draw (each consuming 2 bytes of stream).
type Frequency16Params struct {
	NWords int
}

func (p Frequency16Params) Validate() error {
	if p.NWords < 1 {
		return ErrConfig
	}
	return nil
}

// Frequency16 histograms p.NWords 16-bit values into 65536 bins and
// reports chi2 with 65535 degrees of freedom.
func Frequency16(ctx context.Context, st generator.State, p Frequency16Params) Result {
	const name = "frequency16"
	const penalty = 2
	if err := p.Validate(); err != nil {
		return inconclusive(name, penalty)
	}
	buf := streamBytes(st, p.NWords*2)
	hist := make([]int64, 65536)
	for i := 0; i < p.NWords; i++ {
		v := uint16(buf[2*i]) | uint16(buf[2*i+1])<<8
		hist[v]++
	}
	x := chiSquareStat(hist, float64(p.NWords)/65536)
	const df = 65535
	return Result{Name: name, X: x, P: specfuncs.Chi2PValue(x, df), Alpha: specfuncs.Chi2CDF(x, df), Penalty: penalty}
}

// chiSquareStat returns Sum (obs-exp)^2/exp over the given histogram
// against a uniform expected count per bin.
func chiSquareStat(hist []int64, expected float64) float64 {
	var x float64
	for _, obs := range hist {
		d := float64(obs) - expected
		x += d * d / expected
	}
	return x
}
