package clmm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSeedPool(t *testing.T) *Pool {
	t.Helper()
	p := NewPool(NewPoolConfig(100, 60))
	p.Initialize(7, TickToSqrtPrice(7), big.NewInt(1_000_000))
	return p
}

func TestApplyLiquidityDeltaStraddlesCurrentTick(t *testing.T) {
	p := newSeedPool(t)
	p.ApplyLiquidityDelta(5, 10, big.NewInt(1000))

	require.Equal(t, big.NewInt(1_001_000), p.Liquidity())

	lower, ok := p.ticks.Get(5)
	require.True(t, ok)
	require.Equal(t, big.NewInt(1000), lower.LiquidityNet)
	require.Equal(t, big.NewInt(1000), lower.LiquidityGross)

	upper, ok := p.ticks.Get(10)
	require.True(t, ok)
	require.Equal(t, big.NewInt(-1000), upper.LiquidityNet)
	require.Equal(t, big.NewInt(1000), upper.LiquidityGross)
}

func TestApplyLiquidityDeltaOutsideCurrentTickDoesNotMoveActiveLiquidity(t *testing.T) {
	p := newSeedPool(t)
	before := p.Liquidity()
	p.ApplyLiquidityDelta(100, 200, big.NewInt(500))
	require.Equal(t, before, p.Liquidity())
}

func TestLiquidityBookkeepingZeroSum(t *testing.T) {
	p := newSeedPool(t)
	before := p.Liquidity()

	p.ApplyLiquidityDelta(5, 10, big.NewInt(1000))
	p.ApplyLiquidityDelta(5, 10, big.NewInt(-1000))

	require.Equal(t, before, p.Liquidity())
	require.Empty(t, p.ticks.InitializedTicks())
}

func TestNextInitializedTick(t *testing.T) {
	book := NewTickBook()
	book.UpdateTick(5, big.NewInt(1), big.NewInt(1))
	book.UpdateTick(10, big.NewInt(-1), big.NewInt(1))
	book.UpdateTick(20, big.NewInt(1), big.NewInt(1))

	tick, ok := book.NextInitializedTick(7, false)
	require.True(t, ok)
	require.Equal(t, int32(10), tick)

	tick, ok = book.NextInitializedTick(7, true)
	require.True(t, ok)
	require.Equal(t, int32(5), tick)

	_, ok = book.NextInitializedTick(20, false)
	require.False(t, ok)

	_, ok = book.NextInitializedTick(5, true)
	require.False(t, ok)
}

func TestTickBookCloneIsIndependent(t *testing.T) {
	book := NewTickBook()
	book.UpdateTick(5, big.NewInt(1), big.NewInt(1))

	clone := book.clone()
	clone.UpdateTick(5, big.NewInt(1), big.NewInt(1))

	original, _ := book.Get(5)
	cloned, _ := clone.Get(5)
	require.Equal(t, big.NewInt(1), original.LiquidityNet)
	require.Equal(t, big.NewInt(2), cloned.LiquidityNet)
}
