package clmm

import (
	"math"
	"math/big"
)

// rangeSize is floor(log(2) / log(1.0001)), the tick half-width
// EstimateOptimalRange centers around its heuristic optimal tick.
var rangeSize = int32(math.Floor(math.Log(2) / math.Log(base)))

func toFloat64(x *big.Int) float64 {
	f, _ := new(big.Float).SetPrec(floatPrec).SetInt(x).Float64()
	return f
}

// previewSwap simulates a swap on a clone of the pool and returns the
// amount produced and the LP fee that would have been charged, without
// mutating the receiver. The swap estimators are built on this.
func (p *Pool) previewSwap(amountIn *big.Int, zeroForOne bool) (amountOut, lpFee *big.Int) {
	sim := p.Clone()
	fees := sim.calculateFees(amountIn)
	netIn := clampNonNegative(new(big.Int).Sub(amountIn, fees.TotalFee))
	if netIn.Sign() <= 0 {
		return big.NewInt(0), fees.LPFee
	}
	out, _, _ := sim.executeCLMMSwap(netIn, zeroForOne)
	return out, fees.LPFee
}

// calculatePriceImpact returns |effectivePrice - currentPrice| / currentPrice
// * 100, where effectivePrice is out/in for a zeroForOne swap and in/out
// otherwise.
func (p *Pool) calculatePriceImpact(amountIn, amountOut *big.Int, zeroForOne bool) float64 {
	currentPrice := p.Price()
	if amountIn.Sign() == 0 || amountOut.Sign() == 0 || currentPrice == 0 {
		return 0
	}
	var effectivePrice float64
	if zeroForOne {
		effectivePrice = toFloat64(amountOut) / toFloat64(amountIn)
	} else {
		effectivePrice = toFloat64(amountIn) / toFloat64(amountOut)
	}
	return math.Abs((effectivePrice-currentPrice)/currentPrice) * 100
}

// AmountOutEstimate is the result of EstimateAmountOut.
type AmountOutEstimate struct {
	AmountOut   *big.Int
	FeeAmount   *big.Int
	PriceImpact float64
}

// EstimateAmountOut previews ApplySwap(amountIn, zeroForOne) without
// mutating the pool.
func (p *Pool) EstimateAmountOut(amountIn *big.Int, zeroForOne bool) AmountOutEstimate {
	amountOut, lpFee := p.previewSwap(amountIn, zeroForOne)
	return AmountOutEstimate{
		AmountOut:   amountOut,
		FeeAmount:   lpFee,
		PriceImpact: p.calculatePriceImpact(amountIn, amountOut, zeroForOne),
	}
}

// AmountInEstimate is the result of EstimateAmountIn.
type AmountInEstimate struct {
	AmountIn    *big.Int
	FeeAmount   *big.Int
	TotalCost   *big.Int
	PriceImpact float64
}

// EstimateAmountIn binary-searches the smallest gross input in
// [0, 2*amountOut] whose simulated swap produces at least amountOut,
// preferring an exact match.
func (p *Pool) EstimateAmountIn(amountOut *big.Int, zeroForOne bool) AmountInEstimate {
	low := big.NewInt(0)
	high := new(big.Int).Mul(amountOut, big.NewInt(2))
	best := big.NewInt(0)

	two := big.NewInt(2)
search:
	for low.Cmp(high) <= 0 {
		gross := new(big.Int).Add(low, high)
		gross.Div(gross, two)

		out, _ := p.previewSwap(gross, zeroForOne)
		switch out.Cmp(amountOut) {
		case 0:
			best = gross
			break search
		case -1:
			low = new(big.Int).Add(gross, one)
		default:
			best = gross
			high = new(big.Int).Sub(gross, one)
		}
	}

	_, lpFee := p.previewSwap(best, zeroForOne)
	priceImpact := p.calculatePriceImpact(best, amountOut, zeroForOne)
	return AmountInEstimate{
		AmountIn:    best,
		FeeAmount:   lpFee,
		TotalCost:   new(big.Int).Set(best),
		PriceImpact: priceImpact,
	}
}

// SwapCostEstimate is the result of EstimateSwapCost.
type SwapCostEstimate struct {
	AmountOut      *big.Int
	FeeAmount      *big.Int
	PriceImpact    float64
	EffectivePrice float64
	Slippage       float64
	TotalCost      *big.Int
}

// EstimateSwapCost wraps EstimateAmountOut with effective-price and
// slippage figures.
func (p *Pool) EstimateSwapCost(amountIn *big.Int, zeroForOne bool) SwapCostEstimate {
	est := p.EstimateAmountOut(amountIn, zeroForOne)
	currentPrice := p.Price()
	var effectivePrice float64
	if amountIn.Sign() != 0 {
		effectivePrice = toFloat64(est.AmountOut) / toFloat64(amountIn)
	}
	var slippage float64
	if currentPrice != 0 {
		slippage = math.Abs((effectivePrice-currentPrice)/currentPrice) * 100
	}
	return SwapCostEstimate{
		AmountOut:      est.AmountOut,
		FeeAmount:      est.FeeAmount,
		PriceImpact:    est.PriceImpact,
		EffectivePrice: effectivePrice,
		Slippage:       slippage,
		TotalCost:      new(big.Int).Set(amountIn),
	}
}

// calculateLiquidityAmount returns the token amount that determines the
// position's liquidity given a range and desired deposit amounts. Despite
// the name (preserved from the reference this engine was distilled from,
// per spec.md §9), it returns a token amount, not an L value.
func (p *Pool) calculateLiquidityAmount(tickLower, tickUpper int32, amountA, amountB *big.Int) *big.Int {
	switch {
	case p.tickCurrent < tickLower:
		return new(big.Int).Set(amountA)
	case p.tickCurrent >= tickUpper:
		return new(big.Int).Set(amountB)
	default:
		if amountA.Cmp(amountB) < 0 {
			return new(big.Int).Set(amountA)
		}
		return new(big.Int).Set(amountB)
	}
}

// ActualLiquidityAmounts is the result of calculateActualLiquidityAmounts.
type ActualLiquidityAmounts struct {
	ActualAmountA, ActualAmountB *big.Int
	UnusedAmountA, UnusedAmountB *big.Int
}

func (p *Pool) priceScaled() *big.Int {
	return big.NewInt(int64(p.Price() * 1_000_000))
}

// calculateActualLiquidityAmounts splits a deposit of (amountA, amountB)
// into the portion actually usable at the current price and the leftover,
// mirroring the single-sided behavior outside the range and the
// price-ratio split inside it.
func (p *Pool) calculateActualLiquidityAmounts(tickLower, tickUpper int32, amountA, amountB *big.Int) ActualLiquidityAmounts {
	switch {
	case p.tickCurrent < tickLower:
		return ActualLiquidityAmounts{
			ActualAmountA: new(big.Int).Set(amountA), ActualAmountB: big.NewInt(0),
			UnusedAmountA: big.NewInt(0), UnusedAmountB: new(big.Int).Set(amountB),
		}
	case p.tickCurrent >= tickUpper:
		return ActualLiquidityAmounts{
			ActualAmountA: big.NewInt(0), ActualAmountB: new(big.Int).Set(amountB),
			UnusedAmountA: new(big.Int).Set(amountA), UnusedAmountB: big.NewInt(0),
		}
	default:
		priceScaled := p.priceScaled()
		if priceScaled.Sign() == 0 {
			return ActualLiquidityAmounts{
				ActualAmountA: new(big.Int).Set(amountA), ActualAmountB: big.NewInt(0),
				UnusedAmountA: big.NewInt(0), UnusedAmountB: new(big.Int).Set(amountB),
			}
		}
		optimalAmountB := new(big.Int).Mul(amountA, priceScaled)
		optimalAmountB.Div(optimalAmountB, million)
		if optimalAmountB.Cmp(amountB) <= 0 {
			return ActualLiquidityAmounts{
				ActualAmountA: new(big.Int).Set(amountA), ActualAmountB: optimalAmountB,
				UnusedAmountA: big.NewInt(0), UnusedAmountB: new(big.Int).Sub(amountB, optimalAmountB),
			}
		}
		optimalAmountA := new(big.Int).Mul(amountB, million)
		optimalAmountA.Div(optimalAmountA, priceScaled)
		return ActualLiquidityAmounts{
			ActualAmountA: optimalAmountA, ActualAmountB: new(big.Int).Set(amountB),
			UnusedAmountA: new(big.Int).Sub(amountA, optimalAmountA), UnusedAmountB: big.NewInt(0),
		}
	}
}

// calculateRemoveLiquidityAmounts returns the token amounts a position of
// liquidityAmount would return if closed at the current price.
func (p *Pool) calculateRemoveLiquidityAmounts(tickLower, tickUpper int32, liquidityAmount *big.Int) (amountA, amountB *big.Int) {
	switch {
	case p.tickCurrent < tickLower:
		return new(big.Int).Set(liquidityAmount), big.NewInt(0)
	case p.tickCurrent >= tickUpper:
		return big.NewInt(0), new(big.Int).Set(liquidityAmount)
	default:
		priceScaled := p.priceScaled()
		b := new(big.Int).Mul(liquidityAmount, priceScaled)
		b.Div(b, million)
		return new(big.Int).Set(liquidityAmount), b
	}
}

// estimatePositionFees multiplies range liquidity by feeGrowthInside and
// floors by 2^64.
func (p *Pool) estimatePositionFees(tickLower, tickUpper int32, liquidityAmount *big.Int) (fee0, fee1 *big.Int) {
	inside0 := p.FeeGrowthInside(tickLower, tickUpper, 0)
	inside1 := p.FeeGrowthInside(tickLower, tickUpper, 1)
	fee0 = MulDivFloor(liquidityAmount, inside0, Q64())
	fee1 = MulDivFloor(liquidityAmount, inside1, Q64())
	return fee0, fee1
}

func (p *Pool) calculateLiquidityPriceImpact(tickLower, tickUpper int32, liquidityAmount *big.Int) float64 {
	currentPrice := p.Price()
	if currentPrice == 0 || p.liquidity.Sign() == 0 {
		return 0
	}
	priceRange := toFloat64(new(big.Int).Sub(TickToSqrtPrice(tickUpper), TickToSqrtPrice(tickLower)))
	liquidityRatio := toFloat64(liquidityAmount) / toFloat64(p.liquidity)
	return math.Abs(liquidityRatio * (priceRange / currentPrice) * 100)
}

// PriceRange is a human-readable (float) lower/upper price pair.
type PriceRange struct {
	Lower, Upper float64
}

func priceRangeOf(tickLower, tickUpper int32) PriceRange {
	lower := toFloat64(TickToSqrtPrice(tickLower)) / toFloat64(bigQ64)
	upper := toFloat64(TickToSqrtPrice(tickUpper)) / toFloat64(bigQ64)
	return PriceRange{Lower: lower, Upper: upper}
}

// OpenPositionEstimate is the result of EstimateOpenPosition.
type OpenPositionEstimate struct {
	LiquidityAmount              *big.Int
	ActualAmountA, ActualAmountB *big.Int
	UnusedAmountA, UnusedAmountB *big.Int
	PriceRange                   PriceRange
	CurrentTick                  int32
	IsInRange                    bool
	EstimatedFee0, EstimatedFee1 *big.Int
}

// EstimateOpenPosition previews minting a position over [tickLower,
// tickUpper) with deposit amounts (amountA, amountB).
func (p *Pool) EstimateOpenPosition(tickLower, tickUpper int32, amountA, amountB *big.Int) (OpenPositionEstimate, error) {
	if err := checkTicks(tickLower, tickUpper); err != nil {
		return OpenPositionEstimate{}, err
	}
	isInRange := p.tickCurrent >= tickLower && p.tickCurrent < tickUpper
	actual := p.calculateActualLiquidityAmounts(tickLower, tickUpper, amountA, amountB)
	liquidityAmount := p.calculateLiquidityAmount(tickLower, tickUpper, actual.ActualAmountA, actual.ActualAmountB)
	fee0, fee1 := p.estimatePositionFees(tickLower, tickUpper, liquidityAmount)
	return OpenPositionEstimate{
		LiquidityAmount: liquidityAmount,
		ActualAmountA:   actual.ActualAmountA,
		ActualAmountB:   actual.ActualAmountB,
		UnusedAmountA:   actual.UnusedAmountA,
		UnusedAmountB:   actual.UnusedAmountB,
		PriceRange:      priceRangeOf(tickLower, tickUpper),
		CurrentTick:     p.tickCurrent,
		IsInRange:       isInRange,
		EstimatedFee0:   fee0,
		EstimatedFee1:   fee1,
	}, nil
}

// ClosePositionEstimate is the result of EstimateClosePosition.
type ClosePositionEstimate struct {
	AmountA, AmountB *big.Int
	Fee0, Fee1       *big.Int
	TotalValue       *big.Int
	PriceImpact      float64
}

// EstimateClosePosition previews burning liquidityAmount from [tickLower,
// tickUpper).
func (p *Pool) EstimateClosePosition(tickLower, tickUpper int32, liquidityAmount *big.Int) (ClosePositionEstimate, error) {
	if err := checkTicks(tickLower, tickUpper); err != nil {
		return ClosePositionEstimate{}, err
	}
	amountA, amountB := p.calculateRemoveLiquidityAmounts(tickLower, tickUpper, liquidityAmount)
	fee0, fee1 := p.estimatePositionFees(tickLower, tickUpper, liquidityAmount)
	totalValue := new(big.Int).Add(amountA, amountB)
	priceImpact := p.calculateLiquidityPriceImpact(tickLower, tickUpper, liquidityAmount)
	return ClosePositionEstimate{
		AmountA: amountA, AmountB: amountB,
		Fee0: fee0, Fee1: fee1,
		TotalValue: totalValue, PriceImpact: priceImpact,
	}, nil
}

// CollectFeeEstimate is the result of EstimateCollectFee.
type CollectFeeEstimate struct {
	Fee0, Fee1                         *big.Int
	FeeGrowthInside0, FeeGrowthInside1 *big.Int
	EstimatedValue                     *big.Int
}

// EstimateCollectFee previews collecting the fees owed to a position of
// liquidityAmount over [tickLower, tickUpper).
func (p *Pool) EstimateCollectFee(tickLower, tickUpper int32, liquidityAmount *big.Int) (CollectFeeEstimate, error) {
	if err := checkTicks(tickLower, tickUpper); err != nil {
		return CollectFeeEstimate{}, err
	}
	fee0, fee1 := p.estimatePositionFees(tickLower, tickUpper, liquidityAmount)
	inside0 := p.FeeGrowthInside(tickLower, tickUpper, 0)
	inside1 := p.FeeGrowthInside(tickLower, tickUpper, 1)
	return CollectFeeEstimate{
		Fee0: fee0, Fee1: fee1,
		FeeGrowthInside0: inside0, FeeGrowthInside1: inside1,
		EstimatedValue: new(big.Int).Add(fee0, fee1),
	}, nil
}

// OptimalRangeEstimate is the result of EstimateOptimalRange.
type OptimalRangeEstimate struct {
	TickLower, TickUpper int32
	ExpectedLiquidity    *big.Int
	PriceRange           PriceRange
	Utilization          float64
}

// EstimateOptimalRange heuristically centers a range around
// floor(log(amountB/amountA) / log(1.0001)), widened by rangeSize on each
// side. targetPrice is accepted for interface symmetry with the
// reference this was distilled from but does not affect the tick
// computation (spec.md §9 Open Question: behavior preserved as given).
func (p *Pool) EstimateOptimalRange(amountA, amountB *big.Int, targetPrice *float64) OptimalRangeEstimate {
	var optimalTick int32
	if amountA.Sign() != 0 {
		ratio := toFloat64(amountB) / toFloat64(amountA)
		if ratio > 0 {
			optimalTick = int32(math.Floor(math.Log(ratio) / math.Log(base)))
		}
	}
	tickLower := optimalTick - rangeSize
	tickUpper := optimalTick + rangeSize
	expectedLiquidity := p.calculateLiquidityAmount(tickLower, tickUpper, amountA, amountB)
	var utilization float64
	if p.liquidity.Sign() != 0 {
		utilization = toFloat64(expectedLiquidity) / toFloat64(p.liquidity)
	}
	return OptimalRangeEstimate{
		TickLower: tickLower, TickUpper: tickUpper,
		ExpectedLiquidity: expectedLiquidity,
		PriceRange:        priceRangeOf(tickLower, tickUpper),
		Utilization:       utilization,
	}
}
