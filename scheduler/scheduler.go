// Package scheduler runs a battery.Battery's tests across a pool of
// worker goroutines. Workers pull longest-first from a shared priority
// queue, each owning its own generator.State for exactly one test at a
// time; results flow to a resultsink.Sink.
package scheduler

import (
	"container/heap"
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"randbattery/battery"
	"randbattery/entropy"
	"randbattery/generator"
	"randbattery/prngtest"
	"randbattery/prof"
	"randbattery/resultsink"
)

// debugOn gates dbg's output behind RANDBATTERY_DEBUG=1.
var debugOn = os.Getenv("RANDBATTERY_DEBUG") == "1"

// dbg writes a formatted trace line to w when RANDBATTERY_DEBUG=1, and
// is a no-op otherwise. Used for dispatch/acquire tracing too noisy to
// leave on by default.
func dbg(w io.Writer, f string, a ...any) {
	if debugOn {
		fmt.Fprintf(w, f, a...)
	}
}

// EstimatedPeakRSS estimates a TestDescriptor's peak resident memory in
// bytes, used by Pool to avoid over-committing against MemoryCeiling. A
// nil func disables the memory check entirely.
type EstimatedPeakRSS func(battery.TestDescriptor) uint64

// Pool runs a Battery's tests with Workers goroutines. Zero-value Pool
// fields take the defaults documented on NewPool.
type Pool struct {
	// Workers is the goroutine count; <=0 means runtime.NumCPU()-1
	// clamped to >=1.
	Workers int
	// PerTestTimeout, if >0, bounds each test's wall-clock time; a test
	// that exceeds it is marked Inconclusive rather than left running
	// (the worker goroutine itself is not killed; mid-test cancellation
	// is not supported).
	PerTestTimeout time.Duration
	// MemoryCeiling caps the sum of in-flight EstimatedPeakRSS values; 0
	// disables the check.
	MemoryCeiling uint64
	// EstimatedPeakRSS estimates a descriptor's peak RSS; nil disables
	// the memory-ceiling check regardless of MemoryCeiling.
	EstimatedPeakRSS EstimatedPeakRSS
	// Progress, if non-nil, receives one update per completed test.
	Progress *Progress
	// SeedOverride, if non-nil, is consulted for every test by name
	// before falling back to the dispatching worker's own entropy
	// stream; a true second return pins that test to the returned
	// Source regardless of which worker runs it, giving end-to-end
	// reproducibility across worker counts for tests named here
	// (tests sharing a name share the override).
	SeedOverride func(testName string) (entropy.Source, bool)
}

// NewPool returns a Pool defaulting to runtime.NumCPU()-1 workers
// (clamped to >=1) and 75% of detected total RAM as its memory ceiling
// (0, i.e. disabled, where total RAM cannot be detected).
func NewPool() *Pool {
	return &Pool{
		Workers:       defaultWorkers(),
		MemoryCeiling: defaultMemoryCeiling(),
	}
}

func defaultWorkers() int {
	w := runtime.NumCPU() - 1
	if w < 1 {
		w = 1
	}
	return w
}

func defaultMemoryCeiling() uint64 {
	total := detectTotalRAM()
	if total == 0 {
		return 0
	}
	return total * 3 / 4
}

// workItem is one queued TestDescriptor, ordered by descending
// CostUnits (longest-first) in the priority queue.
type workItem struct {
	desc battery.TestDescriptor
}

type workQueue []*workItem

func (q workQueue) Len() int           { return len(q) }
func (q workQueue) Less(i, j int) bool { return q[i].desc.CostUnits > q[j].desc.CostUnits }
func (q workQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *workQueue) Push(x any)        { *q = append(*q, x.(*workItem)) }
func (q *workQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// dispatcher serialises access to the shared priority queue and the
// in-flight memory accounting; every worker goroutine calls acquire/
// release through it instead of touching the heap directly.
type dispatcher struct {
	mu       sync.Mutex
	q        workQueue
	inFlight uint64
	ceiling  uint64
	estimate EstimatedPeakRSS
}

// acquire pops the highest-priority item whose estimated RSS fits under
// the remaining ceiling. ok is false when the queue is empty (done) or
// every remaining item currently exceeds the ceiling (retry later).
func (d *dispatcher) acquire() (td battery.TestDescriptor, ok bool, done bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.q.Len() == 0 {
		return battery.TestDescriptor{}, false, true
	}
	if d.estimate == nil || d.ceiling == 0 {
		item := heap.Pop(&d.q).(*workItem)
		return item.desc, true, false
	}
	// Scan for the first (highest-priority) item that fits; parking
	// items back would reorder the heap, so just peek linearly — battery
	// tiers are small enough (tens of tests) that this is cheap.
	for i, item := range d.q {
		est := d.estimate(item.desc)
		if d.inFlight+est <= d.ceiling {
			d.q = append(d.q[:i], d.q[i+1:]...)
			heap.Init(&d.q)
			d.inFlight += est
			return item.desc, true, false
		}
	}
	dbg(os.Stderr, "dispatch: %d queued test(s), none fit under %d bytes with %d in flight\n", d.q.Len(), d.ceiling, d.inFlight)
	return battery.TestDescriptor{}, false, false
}

func (d *dispatcher) release(td battery.TestDescriptor) {
	if d.estimate == nil || d.ceiling == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	est := d.estimate(td)
	if est > d.inFlight {
		d.inFlight = 0
		return
	}
	d.inFlight -= est
}

// Run dispatches every test in b.Tests across the pool's workers,
// seeding a fresh generator.State per test from seedSrc(workerIndex),
// and submits every prngtest.Result to sink. Each of the pool's workers
// is invoked with its own 0-based index so a deterministic seedSrc can
// decorrelate one worker's stream from another's. Run returns once
// every test has either completed or been abandoned because ctx was
// cancelled.
func (p *Pool) Run(ctx context.Context, b *battery.Battery, gd *generator.Descriptor, seedSrc func(workerIndex int) entropy.Source, sink *resultsink.Sink) {
	workers := p.Workers
	if workers <= 0 {
		workers = defaultWorkers()
	}

	d := &dispatcher{ceiling: p.MemoryCeiling, estimate: p.EstimatedPeakRSS}
	for _, td := range b.Tests {
		d.q = append(d.q, &workItem{desc: td})
	}
	heap.Init(&d.q)

	var stop atomic.Bool
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src := seedSrc(w)
			for {
				if stop.Load() {
					return
				}
				select {
				case <-ctx.Done():
					return
				default:
				}
				td, ok, done := d.acquire()
				if done {
					return
				}
				if !ok {
					time.Sleep(time.Millisecond)
					continue
				}
				res := p.runOne(ctx, td, gd, src)
				sink.Submit(res)
				d.release(td)
				if p.Progress != nil {
					p.Progress.update(td.Name)
				}
			}
		}()
	}
	wg.Wait()
}

// runOne seeds a fresh State, runs one test under a recover-to-error
// guard, and honours PerTestTimeout via a watchdog. If p.SeedOverride
// names td.Name, its Source is used in place of the calling worker's
// own src, pinning this test's seed regardless of dispatch order.
func (p *Pool) runOne(ctx context.Context, td battery.TestDescriptor, gd *generator.Descriptor, src entropy.Source) prngtest.Result {
	defer func(start time.Time) { prof.Track(start, td.Name) }(time.Now())

	if p.SeedOverride != nil {
		if override, ok := p.SeedOverride(td.Name); ok {
			dbg(os.Stderr, "runOne: %s: using seed override\n", td.Name)
			src = override
		}
	}

	st, err := gd.New(src)
	if err != nil {
		return inconclusiveResult(td.Name, fmt.Errorf("generator init: %w", err))
	}

	runCtx := ctx
	if p.PerTestTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.PerTestTimeout)
		defer cancel()
	}

	done := make(chan prngtest.Result, 1)
	go func() {
		// st is exclusively owned by this goroutine from here on, even
		// past a timeout: the caller below may return before td.Run
		// does, so Close only happens once this goroutine is actually
		// finished with st, never concurrently with a live Draw/SumBlock.
		defer st.Close()
		defer func() {
			if r := recover(); r != nil {
				done <- inconclusiveResult(td.Name, fmt.Errorf("test panic: %v", r))
			}
		}()
		done <- td.Run(battery.RunContext{Context: runCtx, State: st})
	}()

	select {
	case res := <-done:
		return res
	case <-runCtx.Done():
		// The goroutine above is still running and still owns st; it
		// will close st itself whenever td.Run eventually returns.
		return inconclusiveResult(td.Name, runCtx.Err())
	}
}

// Timings returns every per-test duration recorded since the last call
// (across every Pool in this process) and clears the accumulator.
// Intended for a caller that wants to inspect where a run's wall-clock
// time went after the fact.
func Timings() []prof.Entry {
	return prof.SnapshotAndReset()
}

func inconclusiveResult(name string, err error) prngtest.Result {
	log.Printf("warn: %s: marked inconclusive: %v", name, err)
	return prngtest.Result{Name: name, X: math.NaN(), P: math.NaN(), Alpha: math.NaN(), Inconclusive: true}
}
