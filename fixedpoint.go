package clmm

import (
	"math"
	"math/big"
)

// q64Shift is the exponent of the Q64.64 scale factor 2^64: a stored
// sqrt-price value v represents the real number v / 2^64.
const q64Shift = 64

// base is 1.0001, the per-tick price step.
const base = 1.0001

// floatPrec is the big.Float precision (in bits) used when converting
// between float64 tick-math results and arbitrary-precision integers.
// 64 bits of scale plus headroom for the widest operating sqrt-price
// keeps the conversion exact: multiplying/dividing by 2^64 only shifts a
// float64's exponent, it never costs mantissa bits.
const floatPrec = 256

// MinTick and MaxTick bound the engine's operating tick range, comfortably
// covering the ±443636 range spec.md requires monotonicity over.
const (
	MinTick int32 = -500000
	MaxTick int32 = 500000
)

var bigQ64 = new(big.Int).Lsh(big.NewInt(1), q64Shift)

func q64Float() *big.Float {
	return new(big.Float).SetPrec(floatPrec).SetInt(bigQ64)
}

// Q64 returns the Q64.64 scale factor 2^64 as a fresh big.Int.
func Q64() *big.Int {
	return new(big.Int).Set(bigQ64)
}

// TickToSqrtPrice returns floor(sqrt(1.0001^tick) * 2^64), the Q64.64
// sqrt-price at the lower boundary of the given tick. It is monotonically
// non-decreasing in tick across the engine's operating range.
func TickToSqrtPrice(tick int32) *big.Int {
	sqrtPrice := math.Sqrt(math.Pow(base, float64(tick)))
	f := new(big.Float).SetPrec(floatPrec).SetFloat64(sqrtPrice)
	f.Mul(f, q64Float())
	result, _ := f.Int(nil)
	if result.Sign() < 0 {
		return big.NewInt(0)
	}
	return result
}

// SqrtPriceToTick returns floor(log(sqrtX64/2^64) * 2 / log(1.0001)),
// stepped by one tick where float64 rounding puts that estimate across a
// boundary, so that TickToSqrtPrice(t) <= sqrtX64 < TickToSqrtPrice(t+1)
// within [MinTick, MaxTick). A non-positive sqrtX64 returns tick 0.
func SqrtPriceToTick(sqrtX64 *big.Int) int32 {
	if sqrtX64 == nil || sqrtX64.Sign() <= 0 {
		return 0
	}
	f := new(big.Float).SetPrec(floatPrec).SetInt(sqrtX64)
	f.Quo(f, q64Float())
	priceRatio, _ := f.Float64()
	if priceRatio <= 0 {
		return 0
	}
	tick := int32(math.Floor(2 * math.Log(priceRatio) / math.Log(base)))
	if tick >= MinTick && tick < MaxTick {
		if TickToSqrtPrice(tick+1).Cmp(sqrtX64) <= 0 {
			tick++
		} else if TickToSqrtPrice(tick).Cmp(sqrtX64) > 0 {
			tick--
		}
	}
	return tick
}

// SubMod is a saturating subtract: it returns 0 instead of wrapping when
// b > a. This departs deliberately from the modular two's-complement
// wrapping customary in on-chain CLMM fee-growth accounting.
func SubMod(a, b *big.Int) *big.Int {
	diff := new(big.Int).Sub(a, b)
	if diff.Sign() < 0 {
		return big.NewInt(0)
	}
	return diff
}

// MulDivFloor computes floor(a*b/d). It returns 0 if any of a, b, or d is
// zero, and never overflows regardless of operand width.
func MulDivFloor(a, b, d *big.Int) *big.Int {
	if a == nil || b == nil || d == nil {
		return big.NewInt(0)
	}
	if a.Sign() == 0 || b.Sign() == 0 || d.Sign() == 0 {
		return big.NewInt(0)
	}
	num := new(big.Int).Mul(a, b)
	return new(big.Int).Div(num, d)
}

func clampNonNegative(v *big.Int) *big.Int {
	if v.Sign() < 0 {
		return big.NewInt(0)
	}
	return v
}
