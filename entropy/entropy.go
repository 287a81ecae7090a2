// Package entropy supplies the seed material every fresh generator.State
// draws from: an OS-backed source for ordinary runs and a deterministic
// source for reproducible ones. Both are safe for concurrent use, but in
// practice each worker goroutine owns one Source for its whole lifetime,
// across every test it runs (see package scheduler).
package entropy

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/sha3"
)

// Source supplies 32-bit, 64-bit, and arbitrary-length seed draws.
// Implementations internally synchronise every call.
type Source interface {
	Seed32() uint32
	Seed64() uint64
	SeedBytes(n int) []byte
}

// osSource reads from an OS-random stream (lattigo's blake2xb-backed
// PRNG). Only when a read fails does it fall back to a SHA3-256 hash of
// the wall-clock nanosecond time and this source's own call counter.
type osSource struct {
	mu      sync.Mutex
	prng    utils.PRNG
	counter uint64
}

// NewOS returns a Source backed by the OS entropy pool. If the
// underlying secure PRNG fails to initialise (exceedingly rare; only
// under a starved /dev/urandom or similar), it falls back to a
// nanosecond-clock-keyed deterministic stream rather than failing the
// caller outright.
func NewOS() Source {
	prng, err := utils.NewPRNG()
	if err != nil {
		prng, _ = utils.NewKeyedPRNG(nanosecondSeed())
	}
	return &osSource{prng: prng}
}

func nanosecondSeed() []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(time.Now().UnixNano()))
	return b[:]
}

func (s *osSource) read(n int) []byte {
	buf := make([]byte, n)
	s.mu.Lock()
	_, err := s.prng.Read(buf)
	s.mu.Unlock()
	if err != nil {
		// Extremely unlikely; fold in the nanosecond clock and the call
		// counter so the stream still advances rather than stalling.
		c := atomic.AddUint64(&s.counter, 1)
		mixed := sha3.Sum256(append(nanosecondSeed(), byte(c)))
		copy(buf, mixed[:])
	}
	return buf
}

func (s *osSource) Seed32() uint32 {
	return binary.LittleEndian.Uint32(s.read(4))
}

func (s *osSource) Seed64() uint64 {
	return binary.LittleEndian.Uint64(s.read(8))
}

func (s *osSource) SeedBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return s.read(n)
}

// deterministicSource is keyed on a fixed seed expanded through a
// SHAKE256-based mixer, for reproducible battery runs keyed on a
// 128-bit seed.
type deterministicSource struct {
	mu   sync.Mutex
	prng utils.PRNG
}

// NewDeterministic returns a Source whose entire output stream is a
// deterministic function of seed. Expanding the 128-bit seed through
// SHAKE256 before handing it to the keyed PRNG avoids exposing the raw
// seed bytes directly as the stream key.
func NewDeterministic(seed [16]byte) Source {
	key := expandSeed(seed)
	prng, err := utils.NewKeyedPRNG(key)
	if err != nil {
		// utils.NewKeyedPRNG only fails on a malformed key, which
		// expandSeed's fixed-size output never produces.
		panic(fmt.Sprintf("entropy: deterministic PRNG init: %v", err))
	}
	return &deterministicSource{prng: prng}
}

func expandSeed(seed [16]byte) []byte {
	out := make([]byte, 32)
	sha3.ShakeSum256(out, seed[:])
	return out
}

// NewDeterministicStream returns a Source derived from seed and
// streamIndex: the same pair always reproduces the same stream, while
// distinct streamIndex values decorrelate from one another and from
// NewDeterministic(seed) itself. Intended for a caller that needs N
// concurrent, independent-looking streams from one fixed run seed (e.g.
// one per scheduler worker) without losing reproducibility.
func NewDeterministicStream(seed [16]byte, streamIndex int) Source {
	return NewDeterministic(deriveStreamSeed(seed, streamIndex))
}

func deriveStreamSeed(seed [16]byte, streamIndex int) [16]byte {
	var buf [24]byte
	copy(buf[:16], seed[:])
	binary.LittleEndian.PutUint64(buf[16:], uint64(streamIndex))
	var out [16]byte
	sha3.ShakeSum256(out[:], buf[:])
	return out
}

func (s *deterministicSource) read(n int) []byte {
	buf := make([]byte, n)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.prng.Read(buf) // utils.PRNG.Read never errors on a keyed stream
	return buf
}

func (s *deterministicSource) Seed32() uint32 {
	return binary.LittleEndian.Uint32(s.read(4))
}

func (s *deterministicSource) Seed64() uint64 {
	return binary.LittleEndian.Uint64(s.read(8))
}

func (s *deterministicSource) SeedBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return s.read(n)
}
