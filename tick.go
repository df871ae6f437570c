package clmm

import (
	"math/big"
	"sort"
)

// TickData is the per-tick record the liquidity book stores: the signed
// delta applied to active liquidity when price crosses the tick, the
// total liquidity of the position legs still referencing it, and the fee-growth
// snapshots used to decompose feeGrowthInside for a range.
type TickData struct {
	LiquidityNet         *big.Int
	LiquidityGross       *big.Int
	FeeGrowthOutside0X64 *big.Int
	FeeGrowthOutside1X64 *big.Int
}

func newTickData() *TickData {
	return &TickData{
		LiquidityNet:         big.NewInt(0),
		LiquidityGross:       big.NewInt(0),
		FeeGrowthOutside0X64: big.NewInt(0),
		FeeGrowthOutside1X64: big.NewInt(0),
	}
}

func (t *TickData) clone() *TickData {
	return &TickData{
		LiquidityNet:         new(big.Int).Set(t.LiquidityNet),
		LiquidityGross:       new(big.Int).Set(t.LiquidityGross),
		FeeGrowthOutside0X64: new(big.Int).Set(t.FeeGrowthOutside0X64),
		FeeGrowthOutside1X64: new(big.Int).Set(t.FeeGrowthOutside1X64),
	}
}

// TickBook indexes initialized ticks and keeps an ordered view over them
// so the swap engine can find the next initialized neighbor of the
// current tick without scanning unrelated state.
type TickBook struct {
	ticks  map[int32]*TickData
	sorted []int32 // ascending, kept in sync with ticks
}

// NewTickBook returns an empty tick book.
func NewTickBook() *TickBook {
	return &TickBook{
		ticks: make(map[int32]*TickData),
	}
}

func (b *TickBook) clone() *TickBook {
	nb := &TickBook{
		ticks:  make(map[int32]*TickData, len(b.ticks)),
		sorted: append([]int32(nil), b.sorted...),
	}
	for tick, data := range b.ticks {
		nb.ticks[tick] = data.clone()
	}
	return nb
}

// Get returns the tick's data and whether it is initialized.
func (b *TickBook) Get(tick int32) (*TickData, bool) {
	data, ok := b.ticks[tick]
	return data, ok
}

// InitializedTicks returns every initialized tick index in ascending order.
func (b *TickBook) InitializedTicks() []int32 {
	return append([]int32(nil), b.sorted...)
}

func (b *TickBook) insertIndex(tick int32) {
	i := sort.Search(len(b.sorted), func(i int) bool { return b.sorted[i] >= tick })
	if i < len(b.sorted) && b.sorted[i] == tick {
		return
	}
	b.sorted = append(b.sorted, 0)
	copy(b.sorted[i+1:], b.sorted[i:])
	b.sorted[i] = tick
}

func (b *TickBook) removeIndex(tick int32) {
	i := sort.Search(len(b.sorted), func(i int) bool { return b.sorted[i] >= tick })
	if i < len(b.sorted) && b.sorted[i] == tick {
		b.sorted = append(b.sorted[:i], b.sorted[i+1:]...)
	}
}

// UpdateTick creates the tick entry if absent, applies the net/gross
// deltas, and deletes the entry (from both the map and the ordered index)
// once liquidityGross drains to zero with no net delta remaining.
func (b *TickBook) UpdateTick(tick int32, netDelta, grossDelta *big.Int) {
	data, ok := b.ticks[tick]
	if !ok {
		data = newTickData()
		b.ticks[tick] = data
	}
	data.LiquidityNet.Add(data.LiquidityNet, netDelta)
	data.LiquidityGross.Add(data.LiquidityGross, grossDelta)

	if data.LiquidityGross.Sign() <= 0 && data.LiquidityNet.Sign() == 0 {
		delete(b.ticks, tick)
		b.removeIndex(tick)
		return
	}
	data.LiquidityGross = clampNonNegative(data.LiquidityGross)
	b.insertIndex(tick)
}

// NextInitializedTick returns the nearest initialized tick strictly less
// than current when zeroForOne is true (descending), or strictly greater
// when false (ascending). ok is false if no such tick exists.
func (b *TickBook) NextInitializedTick(current int32, zeroForOne bool) (tick int32, ok bool) {
	n := len(b.sorted)
	if n == 0 {
		return 0, false
	}
	if zeroForOne {
		i := sort.Search(n, func(i int) bool { return b.sorted[i] >= current })
		if i == 0 {
			return 0, false
		}
		return b.sorted[i-1], true
	}
	i := sort.Search(n, func(i int) bool { return b.sorted[i] > current })
	if i == n {
		return 0, false
	}
	return b.sorted[i], true
}

// ApplyLiquidityDelta updates the tick book at tickLower/tickUpper for a
// signed liquidity delta and, if the delta straddles the current tick,
// adjusts the pool's active liquidity.
//
// Preconditions (caller-enforced): tickLower < tickUpper. The engine does
// not validate tick spacing alignment.
func (p *Pool) ApplyLiquidityDelta(tickLower, tickUpper int32, liquidityDelta *big.Int) {
	if liquidityDelta.Sign() == 0 {
		return
	}
	p.ticks.UpdateTick(tickLower, liquidityDelta, liquidityDelta)
	p.ticks.UpdateTick(tickUpper, new(big.Int).Neg(liquidityDelta), liquidityDelta)

	if tickLower <= p.tickCurrent && p.tickCurrent < tickUpper {
		p.liquidity.Add(p.liquidity, liquidityDelta)
		p.liquidity = clampNonNegative(p.liquidity)
	}
}
