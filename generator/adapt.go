package generator

import "randbattery/entropy"

// Adapt wraps d so that New produces a State reporting exactly width bits
// (32 or 64), regardless of d's native width. A 64-bit view over a
// 32-bit generator concatenates two draws low-then-high; a 32-bit view
// over a 64-bit generator takes the low 32 bits of each draw. Adapting a
// descriptor to its own native width returns d unchanged.
func Adapt(d *Descriptor, width uint8) *Descriptor {
	if d.Width == width {
		return d
	}
	adapted := *d
	adapted.Width = width
	inner := d
	adapted.New = func(seed entropy.Source) (State, error) {
		s, err := inner.New(seed)
		if err != nil {
			return nil, err
		}
		return &adaptedState{inner: s, width: width}, nil
	}
	if d.SelfTest != nil {
		adapted.SelfTest = func(s State) error {
			as, ok := s.(*adaptedState)
			if !ok {
				return d.SelfTest(s)
			}
			return d.SelfTest(as.inner)
		}
	}
	return &adapted
}

type adaptedState struct {
	inner State
	width uint8
}

func (a *adaptedState) Width() uint8 { return a.width }

func (a *adaptedState) Draw() uint64 {
	switch {
	case a.width == a.inner.Width():
		return a.inner.Draw()
	case a.width == 64 && a.inner.Width() == 32:
		lo := a.inner.Draw() & 0xFFFFFFFF
		hi := a.inner.Draw() & 0xFFFFFFFF
		return lo | (hi << 32)
	case a.width == 32 && a.inner.Width() == 64:
		return a.inner.Draw() & 0xFFFFFFFF
	default:
		return a.inner.Draw()
	}
}

func (a *adaptedState) SumBlock(n int) uint64 {
	return SumBlockDefault(a.Draw, n)
}

func (a *adaptedState) Close() { a.inner.Close() }
