package clmm

import "math/big"

// ValidationStats accumulates counters comparing this engine's swap output
// against an externally supplied expected value, per spec.md §4.8. It is
// intended for replaying a trace of reference-implementation outputs
// against this engine and measuring divergence.
type ValidationStats struct {
	TotalSwaps            uint64
	ExactMatches          uint64
	AmountOutMismatches   uint64
	FeeMismatches         uint64
	ProtocolFeeMismatches uint64

	TotalAmountOutDifference   *big.Int
	TotalFeeDifference         *big.Int
	TotalProtocolFeeDifference *big.Int
}

// newValidationStats returns a zeroed ValidationStats with its difference
// accumulators allocated.
func newValidationStats() ValidationStats {
	return ValidationStats{
		TotalAmountOutDifference:   big.NewInt(0),
		TotalFeeDifference:         big.NewInt(0),
		TotalProtocolFeeDifference: big.NewInt(0),
	}
}

func (s ValidationStats) clone() ValidationStats {
	return ValidationStats{
		TotalSwaps:                 s.TotalSwaps,
		ExactMatches:               s.ExactMatches,
		AmountOutMismatches:        s.AmountOutMismatches,
		FeeMismatches:              s.FeeMismatches,
		ProtocolFeeMismatches:      s.ProtocolFeeMismatches,
		TotalAmountOutDifference:   new(big.Int).Set(orZero(s.TotalAmountOutDifference)),
		TotalFeeDifference:         new(big.Int).Set(orZero(s.TotalFeeDifference)),
		TotalProtocolFeeDifference: new(big.Int).Set(orZero(s.TotalProtocolFeeDifference)),
	}
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return big.NewInt(0)
	}
	return x
}

// ValidationResult is the outcome of a single validated swap: the actual
// swap result plus the comparison against the expected values supplied by
// the caller.
type ValidationResult struct {
	SwapResult

	AmountOutMatches   bool
	FeeMatches         bool
	ProtocolFeeMatches bool

	AmountOutDifference   *big.Int
	FeeDifference         *big.Int
	ProtocolFeeDifference *big.Int
}

// ApplySwapWithValidation replays a swap whose expected outputs are known
// (e.g. from a reference trace). Unlike ApplySwap, it substitutes any
// supplied expected fee directly into the fee split fed to the tick walk,
// so the swap proceeds using the caller's numbers rather than this
// engine's own calculateFees outcome; it then compares the resulting
// amountOut (and the fee values themselves) against the caller's
// expectations and updates the pool's running ValidationStats. Pass nil
// for any expected value the caller doesn't have; it is treated as
// always-matching and excluded from that field's mismatch counter.
func (p *Pool) ApplySwapWithValidation(amountIn *big.Int, zeroForOne bool, expectedAmountOut, expectedFee, expectedProtocolFee *big.Int) ValidationResult {
	p.stats.TotalSwaps++

	computed := p.calculateFees(amountIn)
	lpFee := computed.LPFee
	if expectedFee != nil {
		lpFee = expectedFee
	}
	protocolFee := computed.ProtocolFee
	if expectedProtocolFee != nil {
		protocolFee = expectedProtocolFee
	}
	fees := FeeSplit{
		TotalFee:    new(big.Int).Add(lpFee, protocolFee),
		LPFee:       lpFee,
		ProtocolFee: protocolFee,
	}

	result := p.applySwapInternal(amountIn, zeroForOne, fees)

	amountOutMatches := true
	amountOutDiff := big.NewInt(0)
	if expectedAmountOut != nil {
		amountOutDiff = new(big.Int).Sub(result.AmountOut, expectedAmountOut)
		amountOutMatches = amountOutDiff.Sign() == 0
		if !amountOutMatches {
			p.stats.AmountOutMismatches++
			p.stats.TotalAmountOutDifference = new(big.Int).Add(orZero(p.stats.TotalAmountOutDifference), amountOutDiff)
		}
	}

	feeMatches := true
	feeDiff := big.NewInt(0)
	if expectedFee != nil {
		feeDiff = new(big.Int).Sub(result.FeeAmount, expectedFee)
		feeMatches = feeDiff.Sign() == 0
		if !feeMatches {
			p.stats.FeeMismatches++
			p.stats.TotalFeeDifference = new(big.Int).Add(orZero(p.stats.TotalFeeDifference), feeDiff)
		}
	}

	protocolFeeMatches := true
	protocolFeeDiff := big.NewInt(0)
	if expectedProtocolFee != nil {
		protocolFeeDiff = new(big.Int).Sub(result.ProtocolFee, expectedProtocolFee)
		protocolFeeMatches = protocolFeeDiff.Sign() == 0
		if !protocolFeeMatches {
			p.stats.ProtocolFeeMismatches++
			p.stats.TotalProtocolFeeDifference = new(big.Int).Add(orZero(p.stats.TotalProtocolFeeDifference), protocolFeeDiff)
		}
	}

	if amountOutMatches && feeMatches && protocolFeeMatches {
		p.stats.ExactMatches++
	}

	return ValidationResult{
		SwapResult:            result,
		AmountOutMatches:      amountOutMatches,
		FeeMatches:            feeMatches,
		ProtocolFeeMatches:    protocolFeeMatches,
		AmountOutDifference:   amountOutDiff,
		FeeDifference:         feeDiff,
		ProtocolFeeDifference: protocolFeeDiff,
	}
}
