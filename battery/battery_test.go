package battery

import (
	"context"
	"errors"
	"math"
	"testing"

	"randbattery/generator"
	"randbattery/prngtest"
)

func TestVerdictPolicyWeights(t *testing.T) {
	vp := DefaultPolicy()
	cases := []struct {
		name string
		r    prngtest.Result
		want float64
	}{
		{"pass", prngtest.Result{P: 0.5, Alpha: 0.5}, 0},
		{"suspicious low p", prngtest.Result{P: 1e-5, Alpha: 1 - 1e-5}, 0.1},
		{"suspicious low alpha", prngtest.Result{P: 1 - 1e-5, Alpha: 1e-5}, 0.1},
		{"unambiguous failure", prngtest.Result{P: 1e-12, Alpha: 1 - 1e-12}, 1},
		{"inconclusive never scores", prngtest.Result{P: 1e-12, Inconclusive: true}, 0},
	}
	for _, c := range cases {
		if got := vp.Weight(c.r); got != c.want {
			t.Errorf("%s: Weight=%v, want %v", c.name, got, c.want)
		}
	}
}

func TestScoreIsPenaltyTimesWeight(t *testing.T) {
	vp := DefaultPolicy()
	r := prngtest.Result{P: 1e-12, Alpha: 1 - 1e-12, Penalty: 4}
	if got, want := vp.Score(r), 4.0; got != want {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestNewRejectsInvalidDescriptor(t *testing.T) {
	tests := []TestDescriptor{
		{
			Name:     "bad",
			Validate: func() error { return prngtest.FrequencyParams{NBytes: 0}.Validate() },
			Run:      func(RunContext) prngtest.Result { return prngtest.Result{} },
		},
	}
	_, err := New("bad-battery", tests, DefaultPolicy())
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestStandardTiersBuild(t *testing.T) {
	for name, ctor := range map[string]func() (*Battery, error){
		"brief":   Brief,
		"default": Default,
		"full":    Full,
	} {
		b, err := ctor()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(b.Tests) == 0 {
			t.Fatalf("%s: no tests", name)
		}
		for _, td := range b.Tests {
			if td.Run == nil {
				t.Errorf("%s: test %q has nil Run", name, td.Name)
			}
			if td.CostUnits <= 0 {
				t.Errorf("%s: test %q has non-positive CostUnits", name, td.Name)
			}
		}
	}
}

// splitmix64State is a minimal generator.State fixture, duplicated from
// package prngtest's test file since test-only types are not exported
// across packages.
type splitmix64State struct{ x uint64 }

func (s *splitmix64State) Draw() uint64 {
	s.x += 0x9E3779B97F4A7C15
	z := s.x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
func (s *splitmix64State) Width() uint8          { return 64 }
func (s *splitmix64State) SumBlock(n int) uint64 { return generator.SumBlockDefault(s.Draw, n) }
func (s *splitmix64State) Close()                {}

func TestBriefBatteryRuns(t *testing.T) {
	b, err := Brief()
	if err != nil {
		t.Fatal(err)
	}
	st := &splitmix64State{x: 1}
	for _, td := range b.Tests {
		res := td.Run(RunContext{Context: context.Background(), State: st})
		if math.IsNaN(res.P) && !res.Inconclusive {
			t.Errorf("%s: p-value is NaN but not marked Inconclusive", td.Name)
		}
	}
}
