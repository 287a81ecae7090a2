// Package resultsink collects prngtest.Result values from however many
// workers produced them and renders the final report. Submit is the
// only mutation; Finalize freezes the collected results into a Report.
package resultsink

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"randbattery/battery"
	"randbattery/prngtest"
)

// dblMin is the smallest positive normalised float64, matching the C
// DBL_MIN the formatting rule below is phrased against.
const dblMin = 2.2250738585072014e-308

// Sink is a concurrent-safe append-only log of prngtest.Result values,
// grouped by test name in submission order: one mutex guards one shared
// slice-backed map.
type Sink struct {
	mu      sync.Mutex
	results map[string][]prngtest.Result
	order   []string
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{results: make(map[string][]prngtest.Result)}
}

// Submit appends r under its own Name. Safe for concurrent use by
// multiple scheduler workers.
func (s *Sink) Submit(r prngtest.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[r.Name]; !ok {
		s.order = append(s.order, r.Name)
	}
	s.results[r.Name] = append(s.results[r.Name], r)
}

// Finalize snapshots the Sink's current contents into a Report, scored
// against policy. The Sink remains usable afterwards (a battery run
// never calls Finalize more than once in practice, but nothing here
// forbids it).
func (s *Sink) Finalize(policy battery.VerdictPolicy) Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.order))
	copy(names, s.order)
	rows := make([]resultRow, 0, len(s.results))
	var score float64
	for _, name := range names {
		for _, r := range s.results[name] {
			rows = append(rows, resultRow{result: r, score: policy.Score(r)})
			score += policy.Score(r)
		}
	}
	return Report{rows: rows, totalScore: score, policy: policy}
}

type resultRow struct {
	result prngtest.Result
	score  float64
}

// Report is an immutable, scored snapshot of every result a battery run
// produced.
type Report struct {
	rows       []resultRow
	totalScore float64
	policy     battery.VerdictPolicy
}

// ExitCode returns 0 if every test passed clean (score 0), 1 if any
// test crossed the suspicious or failure threshold. Internal errors
// (config, self-test, panics) are surfaced by RunBattery's own error
// return and map to exit code 2 in cmd/randbattery, outside this type.
func (r Report) ExitCode() int {
	if r.totalScore > 0 {
		return 1
	}
	return 0
}

// FailureScore returns the aggregate Σ penalty*weight across every
// result in the report.
func (r Report) FailureScore() float64 { return r.totalScore }

// RenderBrief returns one line per test: index, name, statistic, and
// formatted p-value.
func (r Report) RenderBrief() string {
	var b strings.Builder
	for i, row := range r.rows {
		fmt.Fprintf(&b, "%3d  %-20s  x=%-14.6g  p=%s\n", i+1, row.result.Name, row.result.X, formatPValue(row.result))
	}
	return b.String()
}

// RenderFull extends RenderBrief with each row's penalty weight, raw
// alpha, inconclusive flag, and the pass/fail decision under the
// report's policy.
func (r Report) RenderFull() string {
	var b strings.Builder
	for i, row := range r.rows {
		verdict := "pass"
		switch {
		case row.result.Inconclusive:
			verdict = "inconclusive"
		case row.score >= float64(row.result.Penalty):
			verdict = "FAIL"
		case row.score > 0:
			verdict = "suspicious"
		}
		fmt.Fprintf(&b, "%3d  %-20s  x=%-14.6g  p=%-10s  alpha=%-10s  penalty=%-3d  score=%-5.2g  %s\n",
			i+1, row.result.Name, row.result.X, formatPValue(row.result), formatAlpha(row.result), row.result.Penalty, row.score, verdict)
	}
	fmt.Fprintf(&b, "total failure score: %.2f\n", r.totalScore)
	return b.String()
}

// formatPValue applies the p-value display rules: "NAN" for a NaN side,
// "???" for an out-of-range value, "0" below DBL_MIN, three decimals in
// [1e-3, 0.999], scientific notation below that, and a "1 - x" form
// above 0.999 when the complementary value is informative.
func formatPValue(r prngtest.Result) string {
	return formatProbability(r.P, r.Alpha)
}

func formatAlpha(r prngtest.Result) string {
	return formatProbability(r.Alpha, r.P)
}

func formatProbability(p, complement float64) string {
	if math.IsNaN(p) || math.IsNaN(complement) {
		return "NAN"
	}
	if p < 0 || p > 1 {
		return "???"
	}
	if p < dblMin {
		return "0"
	}
	if p >= 1e-3 && p <= 0.999 {
		return fmt.Sprintf("%.3f", p)
	}
	if p < 1e-3 {
		return fmt.Sprintf("%.2e", p)
	}
	// p > 0.999: prefer the complementary value when it is informative.
	if !math.IsNaN(complement) && complement > 0 && complement < 1 {
		return fmt.Sprintf("1 - %.2e", complement)
	}
	return "1"
}

// groupedByName returns the report's rows grouped by test name, each
// group in submission order, for callers (e.g. RenderHTML) that want to
// group repeated/parameterised results per test family.
func (r Report) groupedByName() map[string][]resultRow {
	grouped := make(map[string][]resultRow)
	for _, row := range r.rows {
		grouped[row.result.Name] = append(grouped[row.result.Name], row)
	}
	return grouped
}

func sortedKeys(m map[string][]resultRow) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
