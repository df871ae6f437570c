package clmm

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

func init() {
	// feeRate is documented (spec.md §6) and produced by the reference
	// oracle as a plain JSON number, not a quoted string; decimal.Decimal
	// quotes by default.
	decimal.MarshalJSONWithoutQuotes = true
}

// tickSnapshot is the textual form of a single TickData entry, per spec.md
// §6.
type tickSnapshot struct {
	Tick                 int32  `json:"tick"`
	LiquidityNet         string `json:"liquidityNet"`
	LiquidityGross       string `json:"liquidityGross"`
	FeeGrowthOutside0X64 string `json:"feeGrowthOutside0X64"`
	FeeGrowthOutside1X64 string `json:"feeGrowthOutside1X64"`
}

// poolSnapshot is the textual form of the whole pool. Every integer field
// the spec groups with reserveA/liquidity is a decimal digit string, so the
// encoding is exact regardless of host-language numeric limits; feeRate is
// the one documented floating-point field and stays a native JSON number.
type poolSnapshot struct {
	ReserveA     string `json:"reserveA"`
	ReserveB     string `json:"reserveB"`
	SqrtPriceX64 string `json:"sqrtPriceX64"`
	Liquidity    string `json:"liquidity"`

	TickCurrent int32  `json:"tickCurrent"`
	TickSpacing uint32 `json:"tickSpacing"`

	FeeRatePpm string          `json:"feeRatePpm"`
	FeeRate    decimal.Decimal `json:"feeRate"`

	ProtocolFeeShareNumerator   *string `json:"protocolFeeShareNumerator,omitempty"`
	ProtocolFeeShareDenominator *string `json:"protocolFeeShareDenominator,omitempty"`

	FeeGrowthGlobal0X64 string `json:"feeGrowthGlobal0X64"`
	FeeGrowthGlobal1X64 string `json:"feeGrowthGlobal1X64"`

	TotalSwapFee0 *string `json:"totalSwapFee0,omitempty"`
	TotalSwapFee1 *string `json:"totalSwapFee1,omitempty"`

	Ticks      []tickSnapshot `json:"ticks"`
	TickBitmap []int32        `json:"tickBitmap"`
}

// Serialize returns the textual snapshot of the pool described in spec.md
// §6. The result round-trips exactly through Deserialize.
func (p *Pool) Serialize() ([]byte, error) {
	feeRatePpm := strconv.FormatUint(p.feeRatePpm, 10)
	numerator := strconv.FormatUint(p.protocolFeeShareNumerator, 10)
	denominator := strconv.FormatUint(p.protocolFeeShareDenominator, 10)
	fee0 := p.totalSwapFee0.String()
	fee1 := p.totalSwapFee1.String()

	ticks := p.ticks.InitializedTicks()
	snap := poolSnapshot{
		ReserveA:                    p.reserveA.String(),
		ReserveB:                    p.reserveB.String(),
		SqrtPriceX64:                p.sqrtPriceX64.String(),
		Liquidity:                   p.liquidity.String(),
		TickCurrent:                 p.tickCurrent,
		TickSpacing:                 p.tickSpacing,
		FeeRatePpm:                  feeRatePpm,
		FeeRate:                     decimal.NewFromInt(int64(p.feeRatePpm)).Div(decimal.NewFromInt(1_000_000)),
		ProtocolFeeShareNumerator:   &numerator,
		ProtocolFeeShareDenominator: &denominator,
		FeeGrowthGlobal0X64:         p.feeGrowthGlobal0X64.String(),
		FeeGrowthGlobal1X64:         p.feeGrowthGlobal1X64.String(),
		TotalSwapFee0:               &fee0,
		TotalSwapFee1:               &fee1,
		Ticks:                       make([]tickSnapshot, 0, len(ticks)),
		TickBitmap:                  append([]int32(nil), ticks...),
	}
	for _, tick := range ticks {
		data, _ := p.ticks.Get(tick)
		snap.Ticks = append(snap.Ticks, tickSnapshot{
			Tick:                 tick,
			LiquidityNet:         data.LiquidityNet.String(),
			LiquidityGross:       data.LiquidityGross.String(),
			FeeGrowthOutside0X64: data.FeeGrowthOutside0X64.String(),
			FeeGrowthOutside1X64: data.FeeGrowthOutside1X64.String(),
		})
	}
	return json.Marshal(snap)
}

func parseBig(s string) (*big.Int, bool) {
	if s == "" {
		return big.NewInt(0), true
	}
	v, ok := new(big.Int).SetString(s, 10)
	return v, ok
}

func parseUint(s string) (uint64, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return v, err == nil
}

// Deserialize parses a textual snapshot produced by Serialize (or a
// conforming host) back into a Pool. Missing optional fields
// (protocolFeeShareNumerator/Denominator, totalSwapFee0/1) default per
// spec.md §6.
func Deserialize(data []byte) (*Pool, error) {
	var snap poolSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, ErrMalformedSnapshot
	}

	reserveA, ok1 := parseBig(snap.ReserveA)
	reserveB, ok2 := parseBig(snap.ReserveB)
	sqrtPriceX64, ok3 := parseBig(snap.SqrtPriceX64)
	liquidity, ok4 := parseBig(snap.Liquidity)
	feeGrowth0, ok5 := parseBig(snap.FeeGrowthGlobal0X64)
	feeGrowth1, ok6 := parseBig(snap.FeeGrowthGlobal1X64)
	feeRatePpm, ok7 := parseUint(snap.FeeRatePpm)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || !ok7 {
		return nil, ErrMalformedSnapshot
	}

	numerator, denominator := uint64(1), uint64(5)
	if snap.ProtocolFeeShareNumerator != nil {
		v, ok := parseUint(*snap.ProtocolFeeShareNumerator)
		if !ok {
			return nil, ErrMalformedSnapshot
		}
		numerator = v
	}
	if snap.ProtocolFeeShareDenominator != nil {
		v, ok := parseUint(*snap.ProtocolFeeShareDenominator)
		if !ok {
			return nil, ErrMalformedSnapshot
		}
		denominator = v
	}
	if denominator == 0 {
		numerator, denominator = 1, 5
	}

	totalSwapFee0 := big.NewInt(0)
	if snap.TotalSwapFee0 != nil {
		v, ok := parseBig(*snap.TotalSwapFee0)
		if !ok {
			return nil, ErrMalformedSnapshot
		}
		totalSwapFee0 = v
	}
	totalSwapFee1 := big.NewInt(0)
	if snap.TotalSwapFee1 != nil {
		v, ok := parseBig(*snap.TotalSwapFee1)
		if !ok {
			return nil, ErrMalformedSnapshot
		}
		totalSwapFee1 = v
	}

	book := NewTickBook()
	for _, ts := range snap.Ticks {
		net, ok1 := parseBig(ts.LiquidityNet)
		gross, ok2 := parseBig(ts.LiquidityGross)
		outside0, ok3 := parseBig(ts.FeeGrowthOutside0X64)
		outside1, ok4 := parseBig(ts.FeeGrowthOutside1X64)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return nil, ErrMalformedSnapshot
		}
		data := &TickData{
			LiquidityNet:         net,
			LiquidityGross:       gross,
			FeeGrowthOutside0X64: outside0,
			FeeGrowthOutside1X64: outside1,
		}
		book.ticks[ts.Tick] = data
		book.insertIndex(ts.Tick)
	}

	p := &Pool{
		reserveA:                    reserveA,
		reserveB:                    reserveB,
		sqrtPriceX64:                sqrtPriceX64,
		liquidity:                   clampNonNegative(liquidity),
		tickCurrent:                 snap.TickCurrent,
		feeRatePpm:                  feeRatePpm,
		tickSpacing:                 snap.TickSpacing,
		protocolFeeShareNumerator:   numerator,
		protocolFeeShareDenominator: denominator,
		feeGrowthGlobal0X64:         feeGrowth0,
		feeGrowthGlobal1X64:         feeGrowth1,
		totalSwapFee0:               totalSwapFee0,
		totalSwapFee1:               totalSwapFee1,
		ticks:                       book,
		stats:                       newValidationStats(),
	}
	return p, nil
}
