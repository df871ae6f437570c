package clmm

import "math/big"

// SwapResult carries the outcome of a swap.
type SwapResult struct {
	AmountOut   *big.Int
	FeeAmount   *big.Int // LP fee (distributed share)
	ProtocolFee *big.Int
}

// ApplySwap consumes amountIn along direction zeroForOne, crossing ticks
// as needed, and returns the amount of the other token produced.
//
// Degenerate input (amountIn <= 0) returns zero with no state change, per
// spec.md §7.
func (p *Pool) ApplySwap(amountIn *big.Int, zeroForOne bool) *big.Int {
	if amountIn.Sign() <= 0 {
		return big.NewInt(0)
	}
	fees := p.calculateFees(amountIn)
	result := p.applySwapInternal(amountIn, zeroForOne, fees)
	return result.AmountOut
}

// applySwapInternal accumulates the fee split, mutates the tick-walk
// state, and writes the loop's final price/tick back onto the pool. fees
// is threaded through separately from amountIn so
// ApplySwapWithValidation can substitute externally supplied fee values
// without altering the tick walk's math.
func (p *Pool) applySwapInternal(amountIn *big.Int, zeroForOne bool, fees FeeSplit) SwapResult {
	if amountIn.Sign() <= 0 {
		return SwapResult{AmountOut: big.NewInt(0), FeeAmount: big.NewInt(0), ProtocolFee: big.NewInt(0)}
	}

	if fees.TotalFee.Sign() > 0 {
		if zeroForOne {
			p.totalSwapFee0.Add(p.totalSwapFee0, fees.TotalFee)
		} else {
			p.totalSwapFee1.Add(p.totalSwapFee1, fees.TotalFee)
		}
	}
	if fees.LPFee.Sign() > 0 {
		p.updateFeeGrowth(fees.LPFee, zeroForOne)
	}

	netIn := new(big.Int).Sub(amountIn, fees.TotalFee)
	netIn = clampNonNegative(netIn)
	if netIn.Sign() == 0 {
		return SwapResult{AmountOut: big.NewInt(0), FeeAmount: fees.LPFee, ProtocolFee: fees.ProtocolFee}
	}

	amountOut, newSqrtPriceX64, newTick := p.executeCLMMSwap(netIn, zeroForOne)
	p.sqrtPriceX64 = newSqrtPriceX64
	p.tickCurrent = newTick

	return SwapResult{AmountOut: amountOut, FeeAmount: fees.LPFee, ProtocolFee: fees.ProtocolFee}
}

// executeCLMMSwap is the tick-walk loop of spec.md §4.5. It mutates
// p.liquidity and the crossed ticks' feeGrowthOutside as it walks, but
// does NOT write sqrtPriceX64/tickCurrent back onto the pool — the caller
// does that once the loop settles, matching the teacher's
// compute-then-commit structure.
func (p *Pool) executeCLMMSwap(amountIn *big.Int, zeroForOne bool) (amountOut, finalSqrtPriceX64 *big.Int, finalTick int32) {
	currentSqrtPriceX64 := new(big.Int).Set(p.sqrtPriceX64)
	currentTick := p.tickCurrent
	out := big.NewInt(0)
	remaining := new(big.Int).Set(amountIn)

	for remaining.Sign() > 0 {
		nextTick, ok := p.ticks.NextInitializedTick(currentTick, zeroForOne)
		if !ok {
			stepOut, newP := swapWithinRange(remaining, currentSqrtPriceX64, p.liquidity, zeroForOne)
			out.Add(out, stepOut)
			currentSqrtPriceX64 = newP
			currentTick = SqrtPriceToTick(currentSqrtPriceX64)
			remaining = big.NewInt(0)
			logSwapStep(zeroForOne, currentTick, currentSqrtPriceX64, stepOut)
			break
		}

		maxIn := maxInputToReach(currentSqrtPriceX64, TickToSqrtPrice(nextTick), p.liquidity, zeroForOne)
		if maxIn.Sign() <= 0 {
			break
		}

		if remaining.Cmp(maxIn) <= 0 {
			stepOut, newP := swapWithinRange(remaining, currentSqrtPriceX64, p.liquidity, zeroForOne)
			out.Add(out, stepOut)
			currentSqrtPriceX64 = newP
			currentTick = SqrtPriceToTick(currentSqrtPriceX64)
			remaining = big.NewInt(0)
			logSwapStep(zeroForOne, currentTick, currentSqrtPriceX64, stepOut)
			break
		}

		stepOut, _ := swapWithinRange(maxIn, currentSqrtPriceX64, p.liquidity, zeroForOne)
		out.Add(out, stepOut)
		remaining.Sub(remaining, maxIn)

		currentSqrtPriceX64 = TickToSqrtPrice(nextTick)
		currentTick = nextTick
		p.updateFeeGrowthOutside(nextTick, zeroForOne)

		if data, ok := p.ticks.Get(nextTick); ok {
			lnet := new(big.Int).Set(data.LiquidityNet)
			if zeroForOne {
				lnet.Neg(lnet)
			}
			p.liquidity.Add(p.liquidity, lnet)
			p.liquidity = clampNonNegative(p.liquidity)
		}
		logSwapStep(zeroForOne, currentTick, currentSqrtPriceX64, stepOut)
	}

	return out, currentSqrtPriceX64, currentTick
}

// maxInputToReach returns the maximum input consumable before price
// reaches sqrtPriceNext, holding liquidity L constant. It returns 0 when
// the denominator of the underlying expression is 0.
func maxInputToReach(sqrtPriceX64, sqrtPriceNextX64, liquidity *big.Int, zeroForOne bool) *big.Int {
	if zeroForOne {
		// floor( L * (P - Pnext) * 2^64 / (P * Pnext) )
		diff := new(big.Int).Sub(sqrtPriceX64, sqrtPriceNextX64)
		numerator := new(big.Int).Mul(liquidity, diff)
		numerator.Mul(numerator, Q64())
		denominator := new(big.Int).Mul(sqrtPriceX64, sqrtPriceNextX64)
		if denominator.Sign() == 0 {
			return big.NewInt(0)
		}
		return new(big.Int).Div(numerator, denominator)
	}
	// floor( L * (Pnext - P) / 2^64 )
	diff := new(big.Int).Sub(sqrtPriceNextX64, sqrtPriceX64)
	numerator := new(big.Int).Mul(liquidity, diff)
	return new(big.Int).Div(numerator, Q64())
}

// swapWithinRange applies amountIn at constant liquidity L starting from
// sqrtPriceX64 and returns the amount produced and the new sqrt-price.
func swapWithinRange(amountIn, sqrtPriceX64, liquidity *big.Int, zeroForOne bool) (amountOut, newSqrtPriceX64 *big.Int) {
	if liquidity.Sign() == 0 {
		return big.NewInt(0), new(big.Int).Set(sqrtPriceX64)
	}
	q64 := Q64()
	if zeroForOne {
		// Pnew = floor( L * P * 2^64 / (L * 2^64 + amountIn * P) )
		numerator := new(big.Int).Mul(liquidity, sqrtPriceX64)
		numerator.Mul(numerator, q64)
		denominator := new(big.Int).Mul(liquidity, q64)
		denominator.Add(denominator, new(big.Int).Mul(amountIn, sqrtPriceX64))
		var pNew *big.Int
		if denominator.Sign() == 0 {
			pNew = new(big.Int).Set(sqrtPriceX64)
		} else {
			pNew = new(big.Int).Div(numerator, denominator)
		}
		delta := new(big.Int).Sub(sqrtPriceX64, pNew)
		out := MulDivFloor(liquidity, delta, q64)
		return out, pNew
	}

	// Pnew = P + floor(amountIn * 2^64 / L)
	step := MulDivFloor(amountIn, q64, liquidity)
	pNew := new(big.Int).Add(sqrtPriceX64, step)
	delta := new(big.Int).Sub(pNew, sqrtPriceX64)
	numerator := new(big.Int).Mul(liquidity, delta)
	numerator.Mul(numerator, q64)
	denominator := new(big.Int).Mul(pNew, sqrtPriceX64)
	var out *big.Int
	if denominator.Sign() == 0 {
		out = big.NewInt(0)
	} else {
		out = new(big.Int).Div(numerator, denominator)
	}
	return out, pNew
}
