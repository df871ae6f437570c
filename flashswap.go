package clmm

import "math/big"

// FlashSwapRepayment is the outcome of ApplyRepayFlashSwap: the fee
// actually charged on each side, derived from how much was repaid beyond
// the borrowed amount.
type FlashSwapRepayment struct {
	FeeX *big.Int
	FeeY *big.Int
}

// ApplyRepayFlashSwap settles a flash swap: the caller borrowed
// amountXDebt of token X and amountYDebt of token Y, then repaid paidX
// and paidY. Any excess of paid over debt on a side is treated as a fee
// on that side and folded into the global fee-growth accumulator exactly
// as a regular swap fee would be. reserveX/reserveY, when non-nil,
// overwrite the pool's bookkeeping reserves (the caller's settled
// post-swap balances).
//
// Per spec.md §4.7, every initialized tick's feeGrowthOutside is then
// overwritten with the current global accumulator on both sides — a
// coarse catch-up, cheaper than per-tick correctness, that is only exact
// when every tick lies on the same side of the current price as it did
// before the flash swap.
func (p *Pool) ApplyRepayFlashSwap(amountXDebt, amountYDebt, paidX, paidY, reserveX, reserveY *big.Int) FlashSwapRepayment {
	feeX := big.NewInt(0)
	if paidX.Cmp(amountXDebt) > 0 {
		feeX = new(big.Int).Sub(paidX, amountXDebt)
	}
	feeY := big.NewInt(0)
	if paidY.Cmp(amountYDebt) > 0 {
		feeY = new(big.Int).Sub(paidY, amountYDebt)
	}

	if feeX.Sign() > 0 {
		p.updateFeeGrowth(feeX, true)
		p.totalSwapFee0.Add(p.totalSwapFee0, feeX)
	}
	if feeY.Sign() > 0 {
		p.updateFeeGrowth(feeY, false)
		p.totalSwapFee1.Add(p.totalSwapFee1, feeY)
	}

	if reserveX != nil {
		p.reserveA = new(big.Int).Set(reserveX)
	}
	if reserveY != nil {
		p.reserveB = new(big.Int).Set(reserveY)
	}

	p.updateTickFeeGrowthForFlashSwap()

	return FlashSwapRepayment{FeeX: feeX, FeeY: feeY}
}

// updateTickFeeGrowthForFlashSwap stamps every initialized tick's
// feeGrowthOutside (both sides) to the pool's current global
// accumulators.
func (p *Pool) updateTickFeeGrowthForFlashSwap() {
	for _, tick := range p.ticks.InitializedTicks() {
		data, ok := p.ticks.Get(tick)
		if !ok {
			continue
		}
		data.FeeGrowthOutside0X64 = new(big.Int).Set(p.feeGrowthGlobal0X64)
		data.FeeGrowthOutside1X64 = new(big.Int).Set(p.feeGrowthGlobal1X64)
	}
}
