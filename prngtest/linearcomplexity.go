package prngtest

import (
	"context"
	"fmt"

	"randbattery/generator"
	"randbattery/specfuncs"
)

// PenaltyLinearComp is the fixed penalty weight assigned to the linear
// complexity test.
const PenaltyLinearComp = 4

// bitPosKind distinguishes the symbolic bit positions from an absolute
// one.
type bitPosKind int

const (
	bitPosLow bitPosKind = iota
	bitPosMid
	bitPosHigh
	bitPosAbsolute
)

// BitPosition names which bit of a drawn word LinearComplexity extracts.
// The symbolic positions resolve relative to the generator's width: LOW
// is bit 0, HIGH is the top bit, MID is the middle bit.
type BitPosition struct {
	kind bitPosKind
	abs  int
}

// LOW resolves to bit 0.
func LOW() BitPosition { return BitPosition{kind: bitPosLow} }

// MID resolves to bit W/2-1 for a W-bit generator.
func MID() BitPosition { return BitPosition{kind: bitPosMid} }

// HIGH resolves to bit W-1 for a W-bit generator.
func HIGH() BitPosition { return BitPosition{kind: bitPosHigh} }

// Absolute names a fixed bit index regardless of generator width.
func Absolute(n int) BitPosition { return BitPosition{kind: bitPosAbsolute, abs: n} }

func (b BitPosition) resolve(width uint8) int {
	switch b.kind {
	case bitPosLow:
		return 0
	case bitPosMid:
		return int(width)/2 - 1
	case bitPosHigh:
		return int(width) - 1
	default:
		return b.abs
	}
}

// LinearCompParams configures the Berlekamp-Massey linear complexity
// test: NBits is the sequence length to draw, BitPos names which bit of
// each draw to extract.
type LinearCompParams struct {
	NBits  int
	BitPos BitPosition
}

func (p LinearCompParams) Validate() error {
	if p.NBits < 2 {
		return fmt.Errorf("%w: linearcomp nbits must be >= 2, got %d", ErrConfig, p.NBits)
	}
	return nil
}

// LinearComplexity runs the linear-complexity test: it extracts one bit
// per draw from NBits draws, computes the shortest LFSR producing that
// sequence via Berlekamp-Massey, and scores the deviation of its length
// from n/2 against the discrete T distribution of specfuncs.LinearCompTCDF.
func LinearComplexity(ctx context.Context, st generator.State, p LinearCompParams) Result {
	const name = "linearcomp"
	if err := p.Validate(); err != nil {
		return inconclusive(name, PenaltyLinearComp)
	}

	pos := p.BitPos.resolve(st.Width())
	seq := make([]byte, p.NBits)
	for i := 0; i < p.NBits; i++ {
		select {
		case <-ctx.Done():
			return inconclusive(name, PenaltyLinearComp)
		default:
		}
		word := st.Draw()
		seq[i] = byte(generator.Bit(word, pos))
	}

	l := berlekampMassey(seq)
	n := p.NBits
	var t float64
	if n%2 == 0 {
		t = float64(l) - float64(n)/2
	} else {
		t = float64(n+1)/2 - float64(l)
	}

	return Result{
		Name:    name,
		X:       float64(l),
		P:       specfuncs.LinearCompTCCDF(t),
		Alpha:   specfuncs.LinearCompTCDF(t),
		Penalty: PenaltyLinearComp,
	}
}

// berlekampMassey returns the linear complexity (shortest LFSR length)
// of the GF(2) sequence s. Canonical reference: E.R. Berlekamp & J.L.
// Massey, IEEE Trans. Inf. Theory 15(1), 1969.
func berlekampMassey(s []byte) int {
	n := len(s)
	c := make([]byte, n)
	b := make([]byte, n)
	t := make([]byte, n)
	c[0] = 1
	b[0] = 1

	l := 0
	m := 1
	for nn := 0; nn < n; nn++ {
		d := s[nn]
		for i := 1; i <= l; i++ {
			d ^= c[i] & s[nn-i]
		}
		if d == 0 {
			m++
			continue
		}
		copy(t, c)
		for j := 0; j+m < n; j++ {
			c[j+m] ^= b[j]
		}
		if l <= nn/2 {
			l = nn + 1 - l
			copy(b, t)
			m = 1
		} else {
			m++
		}
	}
	return l
}
