package clmm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateAmountOutDoesNotMutatePool(t *testing.T) {
	p := newSeedPool(t)
	sqrtBefore := p.SqrtPriceX64()
	tickBefore := p.TickCurrent()
	liquidityBefore := p.Liquidity()
	feeGrowth0Before := p.FeeGrowthGlobal0X64()
	feeGrowth1Before := p.FeeGrowthGlobal1X64()

	first := p.EstimateAmountOut(big.NewInt(10000), true)
	second := p.EstimateAmountOut(big.NewInt(10000), true)

	require.Equal(t, first.AmountOut, second.AmountOut)
	require.Equal(t, first.FeeAmount, second.FeeAmount)
	require.Equal(t, sqrtBefore, p.SqrtPriceX64())
	require.Equal(t, tickBefore, p.TickCurrent())
	require.Equal(t, liquidityBefore, p.Liquidity())
	require.Equal(t, feeGrowth0Before, p.FeeGrowthGlobal0X64())
	require.Equal(t, feeGrowth1Before, p.FeeGrowthGlobal1X64())
}

func TestEstimateAmountOutMatchesApplySwapOnIndependentPools(t *testing.T) {
	p1 := newSeedPool(t)
	p2 := newSeedPool(t)

	est := p1.EstimateAmountOut(big.NewInt(10000), true)
	actual := p2.ApplySwap(big.NewInt(10000), true)

	require.Equal(t, est.AmountOut, actual)
}

func TestEstimateAmountInRecoversApproximateAmountOut(t *testing.T) {
	p := newSeedPool(t)
	target := big.NewInt(500)

	est := p.EstimateAmountIn(target, true)
	require.True(t, est.AmountIn.Sign() >= 0)

	got, _ := p.previewSwap(est.AmountIn, true)
	require.True(t, got.Cmp(target) >= 0 || est.AmountIn.Sign() == 0)
}

func TestCalculateLiquidityAmountOutOfRange(t *testing.T) {
	p := newSeedPool(t) // tickCurrent = 7
	require.Equal(t, big.NewInt(100), p.calculateLiquidityAmount(10, 20, big.NewInt(100), big.NewInt(200)))
	require.Equal(t, big.NewInt(200), p.calculateLiquidityAmount(-10, 0, big.NewInt(100), big.NewInt(200)))
}

func TestEstimateOpenPositionReportsInRange(t *testing.T) {
	p := newSeedPool(t)
	est, err := p.EstimateOpenPosition(5, 10, big.NewInt(1000), big.NewInt(1000))
	require.NoError(t, err)
	require.True(t, est.IsInRange)
	require.Equal(t, int32(7), est.CurrentTick)
}

func TestEstimateOpenPositionReportsOutOfRange(t *testing.T) {
	p := newSeedPool(t)
	est, err := p.EstimateOpenPosition(100, 200, big.NewInt(1000), big.NewInt(1000))
	require.NoError(t, err)
	require.False(t, est.IsInRange)
}

func TestEstimateOpenPositionRejectsInvalidRange(t *testing.T) {
	p := newSeedPool(t)
	_, err := p.EstimateOpenPosition(10, 5, big.NewInt(1000), big.NewInt(1000))
	require.ErrorIs(t, err, errTickOrder)
}

func TestEstimateClosePositionReturnsNonNegativeAmounts(t *testing.T) {
	p := newSeedPool(t)
	est, err := p.EstimateClosePosition(5, 10, big.NewInt(1000))
	require.NoError(t, err)
	require.True(t, est.AmountA.Sign() >= 0)
	require.True(t, est.AmountB.Sign() >= 0)
}

func TestEstimateOptimalRangeWidensAroundHeuristicTick(t *testing.T) {
	p := newSeedPool(t)
	est := p.EstimateOptimalRange(big.NewInt(1), big.NewInt(1), nil)
	require.True(t, est.TickUpper > est.TickLower)
	require.Equal(t, est.TickUpper-est.TickLower, 2*rangeSize)
}
