package clmm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	p := newSeedPool(t)
	p.ApplyLiquidityDelta(5, 10, big.NewInt(1000))
	p.ApplySwap(big.NewInt(10000), true)

	data, err := p.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	require.Equal(t, p.Liquidity(), got.Liquidity())
	require.Equal(t, p.TickCurrent(), got.TickCurrent())
	require.Equal(t, p.SqrtPriceX64(), got.SqrtPriceX64())
	require.Equal(t, p.FeeGrowthGlobal0X64(), got.FeeGrowthGlobal0X64())
	require.Equal(t, p.FeeGrowthGlobal1X64(), got.FeeGrowthGlobal1X64())
	require.ElementsMatch(t, p.ticks.InitializedTicks(), got.ticks.InitializedTicks())

	for _, tick := range p.ticks.InitializedTicks() {
		want, _ := p.ticks.Get(tick)
		gotTick, ok := got.ticks.Get(tick)
		require.True(t, ok)
		require.Equal(t, want.LiquidityNet, gotTick.LiquidityNet)
		require.Equal(t, want.LiquidityGross, gotTick.LiquidityGross)
		require.Equal(t, want.FeeGrowthOutside0X64, gotTick.FeeGrowthOutside0X64)
		require.Equal(t, want.FeeGrowthOutside1X64, gotTick.FeeGrowthOutside1X64)
	}
}

func TestSerializeDeserializeProducesIdenticalFutureBehavior(t *testing.T) {
	p := newSeedPool(t)
	p.ApplyLiquidityDelta(5, 10, big.NewInt(1000))

	data, err := p.Serialize()
	require.NoError(t, err)
	restored, err := Deserialize(data)
	require.NoError(t, err)

	outOriginal := p.ApplySwap(big.NewInt(10000), true)
	outRestored := restored.ApplySwap(big.NewInt(10000), true)

	require.Equal(t, outOriginal, outRestored)
	require.Equal(t, p.SqrtPriceX64(), restored.SqrtPriceX64())
}

func TestDeserializeDefaultsMissingOptionalFields(t *testing.T) {
	minimal := []byte(`{
		"reserveA": "0", "reserveB": "0",
		"sqrtPriceX64": "18446744073709551616",
		"liquidity": "1000000",
		"tickCurrent": 7, "tickSpacing": 60,
		"feeRatePpm": "100", "feeRate": 0.0001,
		"feeGrowthGlobal0X64": "0", "feeGrowthGlobal1X64": "0",
		"ticks": [], "tickBitmap": []
	}`)

	p, err := Deserialize(minimal)
	require.NoError(t, err)
	require.Equal(t, uint64(1), p.protocolFeeShareNumerator)
	require.Equal(t, uint64(5), p.protocolFeeShareDenominator)
	require.Equal(t, big.NewInt(0), p.TotalSwapFee0())
	require.Equal(t, big.NewInt(0), p.TotalSwapFee1())
}

func TestSerializeEncodesFeeRateAsUnquotedNumber(t *testing.T) {
	p := newSeedPool(t) // feeRatePpm = 100
	data, err := p.Serialize()
	require.NoError(t, err)
	require.Contains(t, string(data), `"feeRate":0.0001`)
	require.Contains(t, string(data), `"feeRatePpm":"100"`)
}

func TestDeserializeMalformedInputReturnsError(t *testing.T) {
	_, err := Deserialize([]byte(`not json`))
	require.ErrorIs(t, err, ErrMalformedSnapshot)

	_, err = Deserialize([]byte(`{"liquidity": "not-a-number"}`))
	require.ErrorIs(t, err, ErrMalformedSnapshot)
}
