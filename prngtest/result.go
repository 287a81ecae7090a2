// Package prngtest implements the statistical tests the battery runs
// against a generator.State: birthday-spacings, collision-over,
// frequency, gap, matrix-rank, linear-complexity, and Hamming-weight
// dispersion tests, plus a handful of supplemental tests from the same
// family. Every test is a deterministic function of its generator's seed
// and its own parameters.
package prngtest

import (
	"errors"
	"math"
)

// Result is the outcome of one test invocation: the raw statistic X, its
// p-value and complementary alpha (P+Alpha ~= 1 up to rounding, both in
// [0,1] or NaN if the test could not complete), the test's name, and its
// penalty weight for the battery's aggregate verdict.
type Result struct {
	Name         string
	X            float64
	P            float64
	Alpha        float64
	Penalty      uint32
	Inconclusive bool
}

// inconclusive builds the standard Result shape for a test that could not
// run to completion (timeout or allocation failure): NaN statistic and
// p-value, Inconclusive set, so resultsink formatting and the battery
// verdict both treat it as neither a pass nor a statistical failure.
func inconclusive(name string, penalty uint32) Result {
	return Result{Name: name, X: math.NaN(), P: math.NaN(), Alpha: math.NaN(), Penalty: penalty, Inconclusive: true}
}

// ErrConfig is returned by a parameter Validate method when the
// parameters are internally inconsistent (e.g. a keyspace wider than 64
// bits). battery.New checks every test's Validate before any test runs,
// so an ErrConfig aborts the whole battery rather than just one test.
var ErrConfig = errors.New("prngtest: invalid test configuration")

// ErrOutOfMemory marks a scratch allocation failure mid-test; the caller
// converts it into an Inconclusive Result rather than aborting the run.
var ErrOutOfMemory = errors.New("prngtest: scratch allocation failed")
