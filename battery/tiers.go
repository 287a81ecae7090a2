package battery

import "randbattery/prngtest"

// descMonobit, descByteFrequency, ... wire one prngtest algorithm with
// fixed parameters into a TestDescriptor. CostUnits is a rough measure
// of work (bytes or draws touched) used only to order the scheduler's
// queue, not to predict wall-clock time precisely.

func descMonobit(nbytes int) TestDescriptor {
	p := prngtest.FrequencyParams{NBytes: nbytes}
	return TestDescriptor{
		Name:      "monobit",
		CostUnits: nbytes,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.Monobit(rc.Context, rc.State, p) },
	}
}

func descByteFrequency(nbytes int) TestDescriptor {
	p := prngtest.FrequencyParams{NBytes: nbytes}
	return TestDescriptor{
		Name:      "byte_frequency",
		CostUnits: nbytes,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.ByteFrequency(rc.Context, rc.State, p) },
	}
}

func descFrequency16(nwords int) TestDescriptor {
	p := prngtest.Frequency16Params{NWords: nwords}
	return TestDescriptor{
		Name:      "frequency16",
		CostUnits: 2 * nwords,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.Frequency16(rc.Context, rc.State, p) },
	}
}

func descGapTest(shl, ngaps int) TestDescriptor {
	p := prngtest.GapParams{Shl: shl, NGaps: ngaps}
	return TestDescriptor{
		Name:      "gap_test",
		CostUnits: ngaps * 8,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.GapTest(rc.Context, rc.State, p) },
	}
}

func descRunsTest(nbits int) TestDescriptor {
	p := prngtest.RunsParams{NBits: nbits}
	return TestDescriptor{
		Name:      "runs",
		CostUnits: nbits,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.RunsTest(rc.Context, rc.State, p) },
	}
}

func descBirthdaySpacingsND(bitsPerDim, ndims, nsamples int) TestDescriptor {
	p := prngtest.BirthdaySpacingsParams{NBitsPerDim: bitsPerDim, NDims: ndims, NSamples: nsamples, UseLowBits: true}
	return TestDescriptor{
		Name:      "bspace_nd",
		CostUnits: nsamples * 4096 * 20,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.BirthdaySpacingsND(rc.Context, rc.State, p) },
	}
}

func descBirthday64(nsamples, sampleSizeLog2 int) TestDescriptor {
	p := prngtest.Birthday64Params{NSamples: nsamples, SampleSizeLog2: sampleSizeLog2}
	return TestDescriptor{
		Name:      "bspace64_1d_ns",
		CostUnits: nsamples * (1 << uint(sampleSizeLog2)) * 20,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.Birthday64(rc.Context, rc.State, p) },
	}
}

func descCollisionOver(bitsPerDim, ndims, nsamples int) TestDescriptor {
	p := prngtest.CollisionOverParams{NBitsPerDim: bitsPerDim, NDims: ndims, NSamples: nsamples, UseLowBits: true}
	return TestDescriptor{
		Name:      "collision_over",
		CostUnits: nsamples * 4096,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.CollisionOver(rc.Context, rc.State, p) },
	}
}

func descMatrixRank(n, maxNBits int) TestDescriptor {
	p := prngtest.MatrixRankParams{N: n, MaxNBits: maxNBits}
	return TestDescriptor{
		Name:      "matrixrank",
		CostUnits: 64 * n * n / 64,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.MatrixRank(rc.Context, rc.State, p) },
	}
}

func descLinearComplexity(nbits int, pos prngtest.BitPosition) TestDescriptor {
	p := prngtest.LinearCompParams{NBits: nbits, BitPos: pos}
	return TestDescriptor{
		Name:      "linearcomp",
		CostUnits: nbits * nbits / 64,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.LinearComplexity(rc.Context, rc.State, p) },
	}
}

func descHammingDC6(mode prngtest.HammingMode, nsamples int) TestDescriptor {
	p := prngtest.HammingParams{Mode: mode, NSamples: nsamples}
	return TestDescriptor{
		Name:      "hamming_dc6",
		CostUnits: nsamples * 8,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.HammingDC6(rc.Context, rc.State, p) },
	}
}

func descSerialTest(symbolBits, order, nsymbols int) TestDescriptor {
	p := prngtest.SerialParams{SymbolBits: symbolBits, Order: order, NSymbols: nsymbols}
	return TestDescriptor{
		Name:      "serial",
		CostUnits: nsymbols,
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.SerialTest(rc.Context, rc.State, p) },
	}
}

func descCouponCollector(tagBits, ntrials int) TestDescriptor {
	p := prngtest.CouponCollectorParams{TagBits: tagBits, NTrials: ntrials}
	return TestDescriptor{
		Name:      "coupon_collector",
		CostUnits: ntrials * (1 << uint(tagBits)),
		Validate:  func() error { return p.Validate() },
		Run:       func(rc RunContext) prngtest.Result { return prngtest.CouponCollectorTest(rc.Context, rc.State, p) },
	}
}

// Brief is a fast suite suitable for a pre-commit sanity check: a
// handful of cheap tests at modest sample sizes.
func Brief() (*Battery, error) {
	tests := []TestDescriptor{
		descMonobit(1 << 17),
		descByteFrequency(1 << 16),
		descGapTest(8, 2000),
		descRunsTest(1 << 17),
	}
	return New("brief", tests, DefaultPolicy())
}

// Default is the standard suite for routine generator validation: every
// core algorithm at moderate sample sizes, excluding the memory-heavy
// 64-bit birthday test (bspace64_1d_ns).
func Default() (*Battery, error) {
	tests := []TestDescriptor{
		descMonobit(1 << 20),
		descByteFrequency(1 << 18),
		descFrequency16(1 << 18),
		descGapTest(8, 20000),
		descRunsTest(1 << 20),
		descBirthdaySpacingsND(16, 2, 20),
		descCollisionOver(16, 2, 20),
		descMatrixRank(64, 64),
		descHammingDC6(prngtest.HammingWholeBytes, 1<<16),
		descSerialTest(4, 2, 1<<16),
		descCouponCollector(8, 2000),
		descLinearComplexity(8000, prngtest.LOW()),
	}
	return New("default", tests, DefaultPolicy())
}

// Full is the exhaustive suite: every core algorithm at large sample
// sizes, including the 64-bit birthday test and deeper linear
// complexity runs at multiple bit positions.
func Full() (*Battery, error) {
	tests := []TestDescriptor{
		descMonobit(1 << 24),
		descByteFrequency(1 << 22),
		descFrequency16(1 << 22),
		descGapTest(8, 200000),
		descGapTest(16, 50000),
		descRunsTest(1 << 24),
		descBirthdaySpacingsND(16, 2, 200),
		descBirthdaySpacingsND(10, 3, 100),
		descCollisionOver(16, 2, 200),
		descMatrixRank(64, 64),
		descMatrixRank(64, 32),
		descMatrixRank(64, 8),
		descBirthday64(5, 22),
		descHammingDC6(prngtest.HammingWholeBytes, 1<<20),
		descHammingDC6(prngtest.HammingLow8Bytes, 1<<18),
		descSerialTest(4, 3, 1<<18),
		descCouponCollector(8, 20000),
		descLinearComplexity(50000, prngtest.LOW()),
		descLinearComplexity(50000, prngtest.HIGH()),
		descLinearComplexity(50000, prngtest.MID()),
	}
	return New("full", tests, DefaultPolicy())
}
