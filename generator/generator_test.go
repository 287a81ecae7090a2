package generator

import (
	"testing"

	"randbattery/entropy"
)

type countingState struct {
	words []uint64
	i     int
	width uint8
}

func (s *countingState) Draw() uint64 {
	w := s.words[s.i%len(s.words)]
	s.i++
	return w
}
func (s *countingState) Width() uint8          { return s.width }
func (s *countingState) SumBlock(n int) uint64 { return SumBlockDefault(s.Draw, n) }
func (s *countingState) Close()                {}

func TestBitSliceLowHigh(t *testing.T) {
	word := uint64(0xABCD)
	if got := BitSlice(word, 32, 8, false); got != 0xCD {
		t.Errorf("low 8 of 0xABCD = %x, want CD", got)
	}
	if got := BitSlice(word, 16, 8, true); got != 0xAB {
		t.Errorf("high 8 of 16-bit 0xABCD = %x, want AB", got)
	}
}

func TestBitSliceFullWidthPassthrough(t *testing.T) {
	word := uint64(0xFFFFFFFF)
	if got := BitSlice(word, 32, 32, false); got != word {
		t.Errorf("full-width slice changed value: got %x", got)
	}
	if got := BitSlice(word, 32, 40, false); got != word {
		t.Errorf("nbits>=genWidth should mask to genWidth: got %x", got)
	}
}

func TestBitSliceZeroBits(t *testing.T) {
	if got := BitSlice(0xFF, 32, 0, false); got != 0 {
		t.Errorf("nbits=0 should return 0, got %x", got)
	}
}

func TestBit(t *testing.T) {
	word := uint64(0b1010)
	if Bit(word, 0) != 0 {
		t.Error("bit 0 of 0b1010 should be 0")
	}
	if Bit(word, 1) != 1 {
		t.Error("bit 1 of 0b1010 should be 1")
	}
}

func TestAdaptSameWidthIsNoop(t *testing.T) {
	d := &Descriptor{Name: "d", Width: 64, New: func(seed entropy.Source) (State, error) {
		return &countingState{words: []uint64{1, 2, 3}, width: 64}, nil
	}}
	if Adapt(d, 64) != d {
		t.Error("Adapt to the same width should return the descriptor unchanged")
	}
}

func TestAdapt32To64ConcatenatesLowThenHigh(t *testing.T) {
	d := &Descriptor{Name: "d", Width: 32, New: func(seed entropy.Source) (State, error) {
		return &countingState{words: []uint64{0x11111111, 0x22222222}, width: 32}, nil
	}}
	a := Adapt(d, 64)
	st, err := a.New(entropy.NewDeterministic([16]byte{}))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if st.Width() != 64 {
		t.Fatalf("adapted width = %d, want 64", st.Width())
	}
	want := uint64(0x11111111) | (uint64(0x22222222) << 32)
	if got := st.Draw(); got != want {
		t.Errorf("adapted 32->64 draw = %x, want %x", got, want)
	}
}

func TestAdapt64To32TruncatesLowBits(t *testing.T) {
	d := &Descriptor{Name: "d", Width: 64, New: func(seed entropy.Source) (State, error) {
		return &countingState{words: []uint64{0xDEADBEEF12345678}, width: 64}, nil
	}}
	a := Adapt(d, 32)
	st, err := a.New(entropy.NewDeterministic([16]byte{}))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if got, want := st.Draw(), uint64(0x12345678); got != want {
		t.Errorf("adapted 64->32 draw = %x, want %x", got, want)
	}
}

func TestAdaptSelfTestUnwrapsInnerState(t *testing.T) {
	called := false
	d := &Descriptor{
		Name:  "d",
		Width: 32,
		New: func(seed entropy.Source) (State, error) {
			return &countingState{words: []uint64{1}, width: 32}, nil
		},
		SelfTest: func(s State) error {
			if _, ok := s.(*countingState); !ok {
				t.Fatalf("SelfTest should see the unwrapped inner state, got %T", s)
			}
			called = true
			return nil
		},
	}
	a := Adapt(d, 64)
	st, err := a.New(entropy.NewDeterministic([16]byte{}))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if err := a.SelfTest(st); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("expected SelfTest to be invoked")
	}
}

func TestSumBlockDefault(t *testing.T) {
	i := uint64(0)
	draw := func() uint64 { i++; return i }
	if got, want := SumBlockDefault(draw, 4), uint64(1+2+3+4); got != want {
		t.Errorf("SumBlockDefault = %d, want %d", got, want)
	}
}
