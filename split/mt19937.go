package split

import "math/bits"

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// MT is a 32-bit Mersenne Twister seeded and consumed exactly like CPython's
// random module, so a shuffle with a given seed reproduces Python's output.
type MT struct {
	mt  [mtN]uint32
	mti int
}

// NewMT returns a generator seeded like random.seed(seed).
func NewMT(seed uint64) *MT {
	m := &MT{}
	key := []uint32{uint32(seed)}
	if hi := uint32(seed >> 32); hi != 0 {
		key = append(key, hi)
	}
	m.initByArray(key)
	return m
}

func (m *MT) initGenrand(s uint32) {
	m.mt[0] = s
	for i := 1; i < mtN; i++ {
		m.mt[i] = 1812433253*(m.mt[i-1]^(m.mt[i-1]>>30)) + uint32(i)
	}
	m.mti = mtN
}

func (m *MT) initByArray(key []uint32) {
	m.initGenrand(19650218)
	i, j := 1, 0
	k := max(mtN, len(key))
	for ; k > 0; k-- {
		m.mt[i] = (m.mt[i] ^ ((m.mt[i-1] ^ (m.mt[i-1] >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			m.mt[0] = m.mt[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = mtN - 1; k > 0; k-- {
		m.mt[i] = (m.mt[i] ^ ((m.mt[i-1] ^ (m.mt[i-1] >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			m.mt[0] = m.mt[mtN-1]
			i = 1
		}
	}
	m.mt[0] = 0x80000000
}

// Uint32 returns the next 32-bit output.
func (m *MT) Uint32() uint32 {
	if m.mti >= mtN {
		m.twist()
	}
	y := m.mt[m.mti]
	m.mti++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

func (m *MT) twist() {
	mag := func(y uint32) uint32 { return (y & 1) * mtMatrixA }
	var kk int
	for kk = 0; kk < mtN-mtM; kk++ {
		y := (m.mt[kk] & mtUpperMask) | (m.mt[kk+1] & mtLowerMask)
		m.mt[kk] = m.mt[kk+mtM] ^ (y >> 1) ^ mag(y)
	}
	for ; kk < mtN-1; kk++ {
		y := (m.mt[kk] & mtUpperMask) | (m.mt[kk+1] & mtLowerMask)
		m.mt[kk] = m.mt[kk+(mtM-mtN)] ^ (y >> 1) ^ mag(y)
	}
	y := (m.mt[mtN-1] & mtUpperMask) | (m.mt[0] & mtLowerMask)
	m.mt[mtN-1] = m.mt[mtM-1] ^ (y >> 1) ^ mag(y)
	m.mti = 0
}

// Bits returns k random bits (0 < k <= 64), filled 32 bits at a time from
// the low word up like random.getrandbits.
func (m *MT) Bits(k int) uint64 {
	if k <= 0 || k > 64 {
		panic("split: bit count out of range")
	}
	var r uint64
	for shift := 0; k > 0; shift += 32 {
		w := m.Uint32()
		if k < 32 {
			w >>= 32 - k
		}
		r |= uint64(w) << shift
		k -= 32
	}
	return r
}

// Below returns a uniform value in [0, n) by rejection sampling on
// bitlen(n) bits.
func (m *MT) Below(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	k := bits.Len64(n)
	r := m.Bits(k)
	for r >= n {
		r = m.Bits(k)
	}
	return r
}

// Float64 returns a value in [0, 1) with 53-bit resolution.
func (m *MT) Float64() float64 {
	a := m.Uint32() >> 5
	b := m.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// Shuffle permutes n elements in place through swap.
func (m *MT) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(m.Below(uint64(i) + 1))
		swap(i, j)
	}
}
