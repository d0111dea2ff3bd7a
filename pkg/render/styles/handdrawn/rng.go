package handdrawn

import "hash/fnv"

// rng is a small xorshift generator. It only needs to be deterministic.
type rng struct {
	state uint64
}

func newRNG(seed uint64) *rng {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &rng{state: seed}
}

// next returns a value in [0, 1).
func (r *rng) next() float64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return float64(r.state>>11) / (1 << 53)
}

// jitter returns a value in [-amount, amount).
func (r *rng) jitter(amount float64) float64 {
	return (r.next()*2 - 1) * amount
}

// hash mixes an element ID with the style seed.
func hash(s string, seed uint64) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64() ^ (seed * 0x9e3779b97f4a7c15)
}
