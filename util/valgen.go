// Some helpers using closures to generate machine words
package valgen

import "math/rand"

const (
	literalLimit  = 32768
	registerBase  = 32768
	registerCount = 8
)

func MakeConstGen(constant uint16) func() uint16 {
	return func() uint16 {
		return constant
	}
}

// MakeIncreasingGen counts up from start, wrapping within the literal range.
func MakeIncreasingGen(start uint16) func() uint16 {
	current := start
	return func() uint16 {
		current = (current + 1) % literalLimit
		return current
	}
}

// MakeLiteralGen yields pseudo-random literals from a fixed seed.
func MakeLiteralGen(seed int64) func() uint16 {
	r := rand.New(rand.NewSource(seed))
	return func() uint16 {
		return uint16(r.Intn(literalLimit))
	}
}

// MakeRegisterGen yields pseudo-random register references.
func MakeRegisterGen(seed int64) func() uint16 {
	r := rand.New(rand.NewSource(seed))
	return func() uint16 {
		return uint16(registerBase + r.Intn(registerCount))
	}
}

// MakeInvalidGen yields words that are neither literals nor registers.
func MakeInvalidGen(seed int64) func() uint16 {
	r := rand.New(rand.NewSource(seed))
	first := registerBase + registerCount
	return func() uint16 {
		return uint16(first + r.Intn(65536-first))
	}
}

// Take collects n values from gen.
func Take(gen func() uint16, n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = gen()
	}

	return out
}
