package scheduler

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"randbattery/battery"
	"randbattery/entropy"
	"randbattery/generator"
	"randbattery/prngtest"
	"randbattery/resultsink"
)

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

func splitmix64Descriptor() *generator.Descriptor {
	return &generator.Descriptor{
		Name:  "splitmix64-test-fixture",
		Width: 64,
		New: func(seed entropy.Source) (generator.State, error) {
			return &splitmix64State{x: seed.Seed64()}, nil
		},
	}
}

func fixedSeedSource(seed uint64) func(workerIndex int) entropy.Source {
	return func(workerIndex int) entropy.Source { return &fixedSource{v: seed + uint64(workerIndex)} }
}

// fixedSource is a minimal entropy.Source fixture: every Seed32/Seed64
// call derives from an internal counter so concurrent workers each get
// a distinct, reproducible stream.
type fixedSource struct{ v uint64 }

func (f *fixedSource) Seed32() uint32 {
	f.v += 0x9E3779B9
	return uint32(f.v)
}
func (f *fixedSource) Seed64() uint64 {
	f.v += 0x9E3779B97F4A7C15
	return f.v
}
func (f *fixedSource) SeedBytes(n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i += 8 {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], f.Seed64())
		copy(out[i:], b[:])
	}
	return out
}

func TestPoolRunCompletesAllTests(t *testing.T) {
	b, err := battery.Brief()
	if err != nil {
		t.Fatal(err)
	}
	pool := &Pool{Workers: 3}
	sink := resultsink.NewSink()
	pool.Run(context.Background(), b, splitmix64Descriptor(), fixedSeedSource(1), sink)

	report := sink.Finalize(battery.DefaultPolicy())
	lines := report.RenderBrief()
	if lines == "" {
		t.Fatal("expected a non-empty report")
	}
}

func TestPoolRunRespectsContextCancellation(t *testing.T) {
	b, err := battery.Default()
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool := &Pool{Workers: 2}
	sink := resultsink.NewSink()
	done := make(chan struct{})
	go func() {
		pool.Run(ctx, b, splitmix64Descriptor(), fixedSeedSource(2), sink)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Pool.Run did not return promptly after context cancellation")
	}
}

func TestPoolRunCompletesUnderTightMemoryCeiling(t *testing.T) {
	b, err := battery.Brief()
	if err != nil {
		t.Fatal(err)
	}
	pool := &Pool{
		Workers:          4,
		MemoryCeiling:    1,
		EstimatedPeakRSS: func(td battery.TestDescriptor) uint64 { return 1 },
	}
	sink := resultsink.NewSink()
	pool.Run(context.Background(), b, splitmix64Descriptor(), fixedSeedSource(3), sink)
	report := sink.Finalize(battery.DefaultPolicy())
	if report.RenderBrief() == "" {
		t.Fatal("expected results despite a tight memory ceiling")
	}
}

func TestPoolPerTestTimeoutMarksInconclusive(t *testing.T) {
	// The Run closure keeps drawing from rc.State well past the
	// PerTestTimeout deadline, as a genuinely abandoned test goroutine
	// would. runOne must have returned an Inconclusive result to the
	// caller by then without closing rc.State out from under this still
	//-running draw loop.
	slow := battery.TestDescriptor{
		Name:      "slow",
		CostUnits: 1,
		Run: func(rc battery.RunContext) prngtest.Result {
			<-rc.Context.Done()
			for i := 0; i < 1000; i++ {
				rc.State.Draw()
			}
			return prngtest.Result{Name: "slow", Inconclusive: true}
		},
	}
	b, err := battery.New("timeout-test", []battery.TestDescriptor{slow}, battery.DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}
	pool := &Pool{Workers: 1, PerTestTimeout: 10 * time.Millisecond}
	sink := resultsink.NewSink()
	pool.Run(context.Background(), b, splitmix64Descriptor(), fixedSeedSource(4), sink)
	report := sink.Finalize(battery.DefaultPolicy())
	if !strings.Contains(report.RenderFull(), "inconclusive") {
		t.Errorf("expected the timed-out test to render as inconclusive: %s", report.RenderFull())
	}
	// Give the abandoned goroutine above time to finish its draws and
	// call Close before the test process exits.
	time.Sleep(20 * time.Millisecond)
}
