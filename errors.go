package clmm

import "errors"

// Errors returned by caller-misuse checks. Degenerate numeric input (zero
// or negative amounts, zero liquidity, no initialized tick on the
// required side) is not an error per spec.md §7: it surfaces as a zero
// result instead.
var (
	// errTickOrder is returned when tickLower is not strictly less than
	// tickUpper.
	errTickOrder = errors.New("clmm: tickLower must be less than tickUpper")

	// ErrMalformedSnapshot is returned by Deserialize when the input text
	// cannot be parsed into a valid pool snapshot.
	ErrMalformedSnapshot = errors.New("clmm: malformed pool snapshot")
)
