package clmm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTickToSqrtPriceMonotone(t *testing.T) {
	prev := TickToSqrtPrice(-200000)
	for t32 := int32(-199999); t32 <= 200000; t32 += 977 {
		cur := TickToSqrtPrice(t32)
		require.True(t, cur.Cmp(prev) >= 0, "tick %d: sqrt-price decreased", t32)
		prev = cur
	}
}

func TestTickRoundTrip(t *testing.T) {
	for _, tick := range []int32{-443636, -200000, -1, 0, 1, 7, 60000, 200000, 443636} {
		sqrtPrice := TickToSqrtPrice(tick)
		got := SqrtPriceToTick(sqrtPrice)
		require.Equal(t, tick, got, "round trip failed for tick %d", tick)
	}
}

func TestSqrtPriceToTickNonPositive(t *testing.T) {
	require.Equal(t, int32(0), SqrtPriceToTick(big.NewInt(0)))
	require.Equal(t, int32(0), SqrtPriceToTick(big.NewInt(-1)))
}

func TestSubModSaturates(t *testing.T) {
	a := big.NewInt(5)
	b := big.NewInt(10)
	require.Equal(t, big.NewInt(0), SubMod(a, b))
	require.Equal(t, big.NewInt(5), SubMod(b, a))
}

func TestMulDivFloor(t *testing.T) {
	require.Equal(t, big.NewInt(25), MulDivFloor(big.NewInt(10), big.NewInt(5), big.NewInt(2)))
	require.Equal(t, big.NewInt(16), MulDivFloor(big.NewInt(10), big.NewInt(5), big.NewInt(3)))
	require.Equal(t, big.NewInt(0), MulDivFloor(big.NewInt(0), big.NewInt(5), big.NewInt(3)))
}

func TestMulDivFloorWidePrecision(t *testing.T) {
	// a*b is about 197 bits and would overflow a 128-bit fixed-width type; must not overflow here.
	a, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	b, _ := new(big.Int).SetString("987654321098765432109876543210", 10)
	d := big.NewInt(7)
	got := MulDivFloor(a, b, d)
	want := new(big.Int).Mul(a, b)
	want.Div(want, d)
	require.Equal(t, want, got)
}
