package memory

import "github.com/agbru/fibdrv/internal/bignum"

// arenaTemporaries is the number of values a doubling run keeps alive: the
// pair (F(n), F(n+1)) and two scratch registers.
const arenaTemporaries = 4

// arenaMinIndex is the smallest index for which an arena is worth
// allocating. Below it every value fits in a handful of limbs.
const arenaMinIndex = 1000

// CalculationArena pre-allocates one contiguous block of limbs for all the
// BigUint registers of a Fibonacci calculation. Registers carved out of it
// never reallocate while they stay within the estimated size of F(n), and
// the whole block is released at once when the arena is dropped.
//
// The arena uses a bump-pointer allocation strategy: each Alloc call
// advances the offset. When capacity is exhausted, it falls back to standard
// heap allocation.
type CalculationArena struct {
	buf    []bignum.Limb
	offset int
	words  int
}

// NewCalculationArena creates an arena sized for the registers of F(n).
// Each register gets room for F(n) plus one carry limb.
func NewCalculationArena(n uint64) *CalculationArena {
	words := bignum.EstimateFibLimbs(n) + 1
	if n < arenaMinIndex {
		return &CalculationArena{words: words}
	}
	return &CalculationArena{
		buf:   make([]bignum.Limb, words*arenaTemporaries),
		words: words,
	}
}

// RegisterLimbs returns the capacity handed to each register.
func (a *CalculationArena) RegisterLimbs() int {
	return a.words
}

// Alloc returns a zero BigUint whose buffer is carved from the arena. If the
// arena is exhausted, it falls back to a heap value of the same capacity.
func (a *CalculationArena) Alloc() *bignum.BigUint {
	w := a.words
	if a.buf == nil || a.offset+w > len(a.buf) {
		return bignum.New(w)
	}
	// The three-index slice caps the register so growth past its share
	// reallocates instead of overwriting the next register.
	slice := a.buf[a.offset : a.offset+w : a.offset+w]
	a.offset += w
	return bignum.NewWithBuffer(slice[:0])
}

// Reset releases all allocations, allowing the arena to be reused. Values
// previously returned by Alloc must no longer be used.
func (a *CalculationArena) Reset() {
	a.offset = 0
}

// UsedLimbs returns the number of limbs handed out so far.
func (a *CalculationArena) UsedLimbs() int {
	return a.offset
}

// CapacityLimbs returns the total capacity of the arena in limbs.
func (a *CalculationArena) CapacityLimbs() int {
	return len(a.buf)
}
