package prngtest

import (
	"context"
	"fmt"

	"randbattery/generator"
	"randbattery/specfuncs"
)

// SerialParams configures the overlapping n-tuple serial test: each draw
// contributes a SymbolBits-wide symbol, and every window of Order
// consecutive symbols is tallied as one cell of a 2^(SymbolBits*Order)
// histogram. NSymbols is the number of symbols to draw, so the number of
// overlapping windows tallied is NSymbols-Order+1.
type SerialParams struct {
	SymbolBits int
	Order      int
	NSymbols   int
}

func (p SerialParams) Validate() error {
	if p.SymbolBits < 1 || p.SymbolBits > 8 {
		return fmt.Errorf("%w: serial symbol_bits=%d must be in [1,8]", ErrConfig, p.SymbolBits)
	}
	if p.Order < 1 || p.SymbolBits*p.Order > 24 {
		return fmt.Errorf("%w: serial order=%d too large for symbol_bits=%d (cell count would exceed 2^24)", ErrConfig, p.Order, p.SymbolBits)
	}
	if p.NSymbols <= p.Order {
		return fmt.Errorf("%w: serial nsymbols=%d must exceed order=%d", ErrConfig, p.NSymbols, p.Order)
	}
	return nil
}

// SerialTest runs the overlapping-tuple serial test: it extracts one
// SymbolBits-wide symbol per draw, slides a window of Order symbols
// across the resulting stream, and scores the window-value histogram
// with chi2 against a uniform null over 2^(SymbolBits*Order) cells. It
// generalises the histogram-then-chi2 shape of ByteFrequency to
// overlapping tuples; symbols are at most 8 bits wide and only the low
// SymbolBits of each draw are used.
func SerialTest(ctx context.Context, st generator.State, p SerialParams) Result {
	const name = "serial"
	penalty := penaltyForWidth(p.SymbolBits * p.Order)
	if err := p.Validate(); err != nil {
		return inconclusive(name, penalty)
	}

	symbols := make([]uint64, p.NSymbols)
	for i := range symbols {
		select {
		case <-ctx.Done():
			return inconclusive(name, penalty)
		default:
		}
		symbols[i] = generator.BitSlice(st.Draw(), st.Width(), p.SymbolBits, false)
	}

	cells := uint64(1) << uint(p.SymbolBits*p.Order)
	hist := make([]int64, cells)
	windows := p.NSymbols - p.Order + 1
	for i := 0; i < windows; i++ {
		var v uint64
		for j := 0; j < p.Order; j++ {
			v = (v << uint(p.SymbolBits)) | symbols[i+j]
		}
		hist[v]++
	}

	expected := float64(windows) / float64(cells)
	x := chiSquareStat(hist, expected)
	df := float64(cells - 1)
	return Result{Name: name, X: x, P: specfuncs.Chi2PValue(x, df), Alpha: specfuncs.Chi2CDF(x, df), Penalty: penalty}
}
