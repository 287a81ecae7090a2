// Package battery assembles prngtest algorithms into named, ordered
// suites and scores their results into a single pass/fail verdict. A
// Battery is immutable once built; RunContext is the only thing a
// worker hands to a TestDescriptor's Run function.
package battery

import (
	"context"
	"errors"
	"fmt"

	"randbattery/generator"
	"randbattery/prngtest"
)

// ErrConfig wraps a TestDescriptor.Validate failure discovered at
// battery construction time; New returns it before any test runs.
var ErrConfig = errors.New("battery: invalid test configuration")

// ErrGeneratorSelfTest wraps a generator.Descriptor.SelfTest failure;
// RunBattery returns it before any test runs.
var ErrGeneratorSelfTest = errors.New("battery: generator self-test failed")

// RunContext is what a TestDescriptor's Run function is handed: a
// cancellable context and the one generator.State it owns for the
// duration of that single test.
type RunContext struct {
	Context context.Context
	State   generator.State
}

// TestDescriptor names one test invocation: Run executes it and returns
// a prngtest.Result, CostUnits estimates its relative running time (used
// by scheduler.Pool to dequeue longest-first), and Validate, if
// non-nil, is checked once at battery construction time.
type TestDescriptor struct {
	Name      string
	Run       func(RunContext) prngtest.Result
	CostUnits int
	Validate  func() error
}

// VerdictPolicy implements the battery's two-sided p-value/alpha
// threshold: a result crossing FailThreshold on either tail is an
// unambiguous failure (weight 1); crossing SuspiciousThreshold is
// merely suspicious (weight 0.1). An Inconclusive result never
// contributes to the score.
type VerdictPolicy struct {
	FailThreshold       float64
	SuspiciousThreshold float64
}

// DefaultPolicy returns the standard thresholds: p or alpha below 1e-10
// is an unambiguous failure, below 1e-4 is suspicious.
func DefaultPolicy() VerdictPolicy {
	return VerdictPolicy{FailThreshold: 1e-10, SuspiciousThreshold: 1e-4}
}

// Weight returns the verdict weight r contributes: 1, 0.1, or 0.
func (vp VerdictPolicy) Weight(r prngtest.Result) float64 {
	if r.Inconclusive {
		return 0
	}
	if r.P < vp.FailThreshold || r.Alpha < vp.FailThreshold {
		return 1
	}
	if r.P < vp.SuspiciousThreshold || r.Alpha < vp.SuspiciousThreshold {
		return 0.1
	}
	return 0
}

// Score returns penalty*weight for r under vp, the unit the battery's
// aggregate failure score sums.
func (vp VerdictPolicy) Score(r prngtest.Result) float64 {
	return float64(r.Penalty) * vp.Weight(r)
}

// Battery is an immutable, named, ordered set of tests plus the policy
// used to score their results.
type Battery struct {
	Name   string
	Tests  []TestDescriptor
	Policy VerdictPolicy
}

// New validates every test's Validate func (if set) and returns the
// assembled Battery, or the first ErrConfig encountered.
func New(name string, tests []TestDescriptor, policy VerdictPolicy) (*Battery, error) {
	for _, td := range tests {
		if td.Validate == nil {
			continue
		}
		if err := td.Validate(); err != nil {
			return nil, fmt.Errorf("%w: test %q: %v", ErrConfig, td.Name, err)
		}
	}
	return &Battery{Name: name, Tests: tests, Policy: policy}, nil
}
