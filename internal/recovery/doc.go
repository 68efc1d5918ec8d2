// Package recovery implements the scoring half of the planning pipeline:
// urgency, pressure, the recovery difficulty index, prioritization and
// daily time allocation.
//
// Every function is pure. Inputs are never mutated; each stage returns a
// fresh slice carrying the fields it derives, so callers can compose
//
//	ComputeUrgency → ComputePressure → Prioritize → Allocate
//
// and re-run any prefix on unchanged input to get identical results.
package recovery

import "math"

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
