package entropy

import "testing"

func TestDeterministicSourceReproducible(t *testing.T) {
	seed := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	a := NewDeterministic(seed)
	b := NewDeterministic(seed)

	for i := 0; i < 8; i++ {
		wa, wb := a.Seed64(), b.Seed64()
		if wa != wb {
			t.Fatalf("draw %d diverged: %x vs %x", i, wa, wb)
		}
	}
}

func TestDeterministicSourceDistinctSeeds(t *testing.T) {
	s1 := [16]byte{1}
	s2 := [16]byte{2}
	a := NewDeterministic(s1).Seed64()
	b := NewDeterministic(s2).Seed64()
	if a == b {
		t.Fatalf("distinct seeds produced the same first draw: %x", a)
	}
}

func TestDeterministicStreamReproducible(t *testing.T) {
	seed := [16]byte{1, 2, 3}
	a := NewDeterministicStream(seed, 3)
	b := NewDeterministicStream(seed, 3)
	if a.Seed64() != b.Seed64() {
		t.Fatal("same (seed, streamIndex) should reproduce the same stream")
	}
}

func TestDeterministicStreamDecorrelatesByIndex(t *testing.T) {
	seed := [16]byte{1, 2, 3}
	const n = 8
	seen := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		v := NewDeterministicStream(seed, i).Seed64()
		if seen[v] {
			t.Fatalf("stream index %d collided with an earlier stream's first draw", i)
		}
		seen[v] = true
	}
}

func TestDeterministicStreamDiffersFromNewDeterministic(t *testing.T) {
	seed := [16]byte{1, 2, 3}
	plain := NewDeterministic(seed).Seed64()
	stream0 := NewDeterministicStream(seed, 0).Seed64()
	if plain == stream0 {
		t.Fatal("NewDeterministicStream(seed, 0) should not collide with NewDeterministic(seed)")
	}
}

func TestOSSourceProducesBytes(t *testing.T) {
	s := NewOS()
	b := s.SeedBytes(32)
	if len(b) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(b))
	}
	if s.Seed32() == 0 && s.Seed32() == 0 && s.Seed32() == 0 {
		t.Fatalf("three consecutive zero draws is implausible")
	}
}
