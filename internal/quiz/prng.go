package quiz

// prng is the pinned generator behind reproducible exam shuffles. The
// mixing steps (seed += 0x6D2B79F5 then xor/shift/multiply) must not
// change: historical attempts store a seed and expect the same question
// order back for audit and re-grading. Version any replacement explicitly.
type prng struct {
	state uint32
}

func newPRNG(seed uint32) *prng { return &prng{state: seed} }

// next returns the next value in the [0,1) stream.
func (p *prng) next() float64 {
	p.state += 0x6D2B79F5
	z := p.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / 4294967296.0
}

// intn returns an int in [0, n). n must be > 0.
func (p *prng) intn(n int) int {
	return int(p.next() * float64(n))
}
