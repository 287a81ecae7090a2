// Command randbattery is a thin demonstration CLI: it wires a built-in
// splitmix64 generator (the only generator implementation in this
// module; a real invocation targets a generator under test, supplied by
// the caller's own package) into randbattery.RunBattery and prints the
// resulting report. It is not itself a specified component of the
// library — see randbattery.RunBattery for the actual entry point.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"randbattery"
	"randbattery/battery"
	"randbattery/entropy"
	"randbattery/generator"
	"randbattery/prof"
	"randbattery/scheduler"
)

func main() {
	tier := flag.String("tier", "default", "battery tier: brief|default|full")
	threads := flag.Int("threads", 0, "worker goroutines (0 = detected core count - 1)")
	full := flag.Bool("full-report", false, "render the full report instead of brief")
	seedHex := flag.String("seed", "", "optional 32-hex-char (16-byte) deterministic seed")
	html := flag.String("html", "", "optional path to write a go-echarts diagnostic report")
	timings := flag.Bool("timings", false, "print a per-test-family timing summary after the report")
	flag.Parse()

	b, err := selectBattery(*tier)
	if err != nil {
		log.Fatalf("tier: %v", err)
	}

	opt := randbattery.Options{Threads: *threads}
	if *full {
		opt.ReportMode = randbattery.ReportFull
	}
	if *seedHex != "" {
		seed, err := parseSeed(*seedHex)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		opt.Seed = &seed
	}

	report, err := randbattery.RunBattery(context.Background(), b, splitmix64Descriptor(), opt)
	if err != nil {
		log.Printf("run battery: %v", err)
		os.Exit(2)
	}

	if *full {
		fmt.Print(report.RenderFull())
	} else {
		fmt.Print(report.RenderBrief())
	}

	if *html != "" {
		if err := writeHTMLReport(report, *html); err != nil {
			log.Fatalf("html report: %v", err)
		}
	}

	if *timings {
		printTimings()
	}

	os.Exit(report.ExitCode())
}

func printTimings() {
	for _, s := range prof.Summarize(scheduler.Timings()) {
		fmt.Printf("%-20s n=%-4d total=%-12s mean=%-12s min=%-12s max=%s\n",
			s.Label, s.Count, s.Total, s.Mean(), s.Min, s.Max)
	}
}

func writeHTMLReport(report randbattery.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.RenderHTML(f)
}

func selectBattery(tier string) (*battery.Battery, error) {
	switch tier {
	case "brief":
		return battery.Brief()
	case "default":
		return battery.Default()
	case "full":
		return battery.Full()
	default:
		return nil, fmt.Errorf("unknown tier %q (want brief, default, or full)", tier)
	}
}

func parseSeed(s string) ([16]byte, error) {
	var out [16]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("invalid hex: %w", err)
	}
	if len(raw) != 16 {
		return out, fmt.Errorf("want 16 bytes (32 hex chars), got %d bytes", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// splitmix64State is the demonstration generator this binary exercises
// the library against; it is deliberately the only concrete PRNG in the
// module (spec non-goal: concrete PRNG implementations are out of
// scope for the library itself).
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
		Name:  "splitmix64",
		Width: 64,
		New: func(seed entropy.Source) (generator.State, error) {
			return &splitmix64State{x: seed.Seed64()}, nil
		},
	}
}
