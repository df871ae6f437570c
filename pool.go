package clmm

import (
	"math/big"

	"github.com/sirupsen/logrus"
)

// PoolConfig holds the fee and spacing configuration a pool is created
// with. Reserves, price, and liquidity are set afterwards via Initialize
// and SetReserves, since those come from whatever state the host is
// replaying or simulating.
type PoolConfig struct {
	FeeRatePpm                  uint64
	TickSpacing                 uint32
	ProtocolFeeShareNumerator   uint64
	ProtocolFeeShareDenominator uint64
}

// NewPoolConfig returns a PoolConfig with the default 1/5 protocol fee
// share, matching spec.md's documented default.
func NewPoolConfig(feeRatePpm uint64, tickSpacing uint32) PoolConfig {
	return PoolConfig{
		FeeRatePpm:                  feeRatePpm,
		TickSpacing:                 tickSpacing,
		ProtocolFeeShareNumerator:   1,
		ProtocolFeeShareDenominator: 5,
	}
}

// Pool is the aggregate CLMM state: the tick-indexed liquidity book, the
// Q64.64 sqrt-price, the active liquidity spanning the current tick, and
// the fee-growth accumulators that drive position fee accounting.
//
// A Pool is not safe for concurrent use; the host must serialize callers
// against a single instance (spec.md §5).
type Pool struct {
	reserveA *big.Int
	reserveB *big.Int

	sqrtPriceX64 *big.Int
	liquidity    *big.Int
	tickCurrent  int32

	feeRatePpm                  uint64
	tickSpacing                 uint32
	protocolFeeShareNumerator   uint64
	protocolFeeShareDenominator uint64

	feeGrowthGlobal0X64 *big.Int
	feeGrowthGlobal1X64 *big.Int

	totalSwapFee0 *big.Int
	totalSwapFee1 *big.Int

	ticks *TickBook

	stats ValidationStats
}

// NewPool creates a pool with the given configuration. Reserves, price,
// and liquidity start at zero; call Initialize and SetReserves to seed
// them before swapping.
func NewPool(config PoolConfig) *Pool {
	numerator, denominator := config.ProtocolFeeShareNumerator, config.ProtocolFeeShareDenominator
	if denominator == 0 {
		numerator, denominator = 1, 5
	}
	return &Pool{
		reserveA:                    big.NewInt(0),
		reserveB:                    big.NewInt(0),
		sqrtPriceX64:                big.NewInt(0),
		liquidity:                   big.NewInt(0),
		tickCurrent:                 0,
		feeRatePpm:                  config.FeeRatePpm,
		tickSpacing:                 config.TickSpacing,
		protocolFeeShareNumerator:   numerator,
		protocolFeeShareDenominator: denominator,
		feeGrowthGlobal0X64:         big.NewInt(0),
		feeGrowthGlobal1X64:         big.NewInt(0),
		totalSwapFee0:               big.NewInt(0),
		totalSwapFee1:               big.NewInt(0),
		ticks:                       NewTickBook(),
		stats:                       newValidationStats(),
	}
}

// Initialize sets the pool's current tick, sqrt-price, and active
// liquidity. It is the host's responsibility to keep these mutually
// consistent (sqrtPriceX64 should fall in
// [tickToSqrtPrice(tickCurrent), tickToSqrtPrice(tickCurrent+1))).
func (p *Pool) Initialize(tickCurrent int32, sqrtPriceX64, liquidity *big.Int) {
	p.tickCurrent = tickCurrent
	p.sqrtPriceX64 = new(big.Int).Set(sqrtPriceX64)
	p.liquidity = clampNonNegative(new(big.Int).Set(liquidity))
}

// SetReserves overwrites the bookkeeping-only token reserves.
func (p *Pool) SetReserves(reserveA, reserveB *big.Int) {
	p.reserveA = new(big.Int).Set(reserveA)
	p.reserveB = new(big.Int).Set(reserveB)
}

// Clone returns a deep, independent copy of the pool. Estimators use it to
// preview swap outcomes without mutating observable state.
func (p *Pool) Clone() *Pool {
	return &Pool{
		reserveA:                    new(big.Int).Set(p.reserveA),
		reserveB:                    new(big.Int).Set(p.reserveB),
		sqrtPriceX64:                new(big.Int).Set(p.sqrtPriceX64),
		liquidity:                   new(big.Int).Set(p.liquidity),
		tickCurrent:                 p.tickCurrent,
		feeRatePpm:                  p.feeRatePpm,
		tickSpacing:                 p.tickSpacing,
		protocolFeeShareNumerator:   p.protocolFeeShareNumerator,
		protocolFeeShareDenominator: p.protocolFeeShareDenominator,
		feeGrowthGlobal0X64:         new(big.Int).Set(p.feeGrowthGlobal0X64),
		feeGrowthGlobal1X64:         new(big.Int).Set(p.feeGrowthGlobal1X64),
		totalSwapFee0:               new(big.Int).Set(p.totalSwapFee0),
		totalSwapFee1:               new(big.Int).Set(p.totalSwapFee1),
		ticks:                       p.ticks.clone(),
		stats:                       p.stats.clone(),
	}
}

// Price converts the Q64.64 sqrt-price to the real number price = token1
// per token0.
func (p *Pool) Price() float64 {
	sqrt := new(big.Float).SetPrec(floatPrec).SetInt(p.sqrtPriceX64)
	sqrt.Quo(sqrt, q64Float())
	price := new(big.Float).Mul(sqrt, sqrt)
	f, _ := price.Float64()
	return f
}

// Liquidity returns the active liquidity spanning the current tick.
func (p *Pool) Liquidity() *big.Int { return new(big.Int).Set(p.liquidity) }

// TickCurrent returns the tick whose half-open range contains the current
// sqrt-price.
func (p *Pool) TickCurrent() int32 { return p.tickCurrent }

// SqrtPriceX64 returns the current Q64.64 sqrt-price.
func (p *Pool) SqrtPriceX64() *big.Int { return new(big.Int).Set(p.sqrtPriceX64) }

// ReserveA and ReserveB return the bookkeeping-only token reserves.
func (p *Pool) ReserveA() *big.Int { return new(big.Int).Set(p.reserveA) }
func (p *Pool) ReserveB() *big.Int { return new(big.Int).Set(p.reserveB) }

// FeeRatePpm returns the swap input fee rate in parts-per-million.
func (p *Pool) FeeRatePpm() uint64 { return p.feeRatePpm }

// TickSpacing returns the advisory tick spacing.
func (p *Pool) TickSpacing() uint32 { return p.tickSpacing }

// FeeGrowthGlobal0X64 and FeeGrowthGlobal1X64 return the monotonically
// non-decreasing global fee-growth accumulators.
func (p *Pool) FeeGrowthGlobal0X64() *big.Int { return new(big.Int).Set(p.feeGrowthGlobal0X64) }
func (p *Pool) FeeGrowthGlobal1X64() *big.Int { return new(big.Int).Set(p.feeGrowthGlobal1X64) }

// TotalSwapFee0 and TotalSwapFee1 return the running totals of raw fees
// collected per token, regardless of whether they were distributable.
func (p *Pool) TotalSwapFee0() *big.Int { return new(big.Int).Set(p.totalSwapFee0) }
func (p *Pool) TotalSwapFee1() *big.Int { return new(big.Int).Set(p.totalSwapFee1) }

// ValidationStats returns a copy of the accumulated validation counters
// (spec.md §4.8).
func (p *Pool) ValidationStats() ValidationStats { return p.stats.clone() }

// checkTicks enforces the one precondition the engine itself validates:
// tickLower must be strictly less than tickUpper. Spacing alignment is
// left to the caller, as spec.md §4.3 requires.
func checkTicks(tickLower, tickUpper int32) error {
	if !(tickLower < tickUpper) {
		return errTickOrder
	}
	return nil
}

func logSwapStep(zeroForOne bool, tick int32, sqrtPriceX64 *big.Int, amountOut *big.Int) {
	if logrus.GetLevel() >= logrus.TraceLevel {
		logrus.Tracef("swap step: zeroForOne=%t tick=%d sqrtPriceX64=%s amountOut=%s",
			zeroForOne, tick, sqrtPriceX64.String(), amountOut.String())
	}
}
