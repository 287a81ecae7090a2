package prngtest

import (
	"math/bits"

	"randbattery/generator"
)

// streamBytes draws enough native words from st to cover n bytes and
// returns them as a little-endian byte slice, truncated to exactly n.
// This is the shared primitive behind the byte-oriented frequency tests
// (Monobit, ByteFrequency, Frequency16).
func streamBytes(st generator.State, n int) []byte {
	out := make([]byte, 0, n+8)
	width := int(st.Width()) / 8
	for len(out) < n {
		w := st.Draw()
		for i := 0; i < width; i++ {
			out = append(out, byte(w>>(8*uint(i))))
		}
	}
	return out[:n]
}

// popcountBytes returns the total number of set bits across buf.
func popcountBytes(buf []byte) int64 {
	var total int64
	for _, b := range buf {
		total += int64(bits.OnesCount8(b))
	}
	return total
}
