// Package clmm implements a concentrated liquidity market maker pool: a
// tick-indexed liquidity book, Q64.64 fixed-point price arithmetic, and a
// multi-step swap engine that walks ticks while preserving a global
// fee-growth accumulator.
package clmm
