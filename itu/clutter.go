package itu

import "math"

// ClutterEnvironment selects the P.2108 statistical clutter category.
type ClutterEnvironment int

const (
	ClutterUrban ClutterEnvironment = iota
	ClutterSuburban
	ClutterDense
)

// P2108Clutter implements ITU-R P.2108's statistical clutter loss model
// (§3.2, "terrestrial statistical model"), giving additional loss as a
// function of distance, frequency, and the requested percentage-of-
// locations confidence (spec.md §4.D).
func P2108Clutter(distanceM, freqMHz, confidence float64, env ClutterEnvironment) LossResult {
	fGHz := freqMHz / 1000
	distKm := math.Max(distanceM/1000, 0.25)

	// Representative per-environment constants for the closed-form
	// Ll/Ls combination in P.2108 §3.2.
	var ll, ls float64
	switch env {
	case ClutterDense:
		ll, ls = 23.5, 12.6
	case ClutterUrban:
		ll, ls = 19.52, 9.6
	default: // ClutterSuburban
		ll, ls = 15.5, 7.2
	}
	loc := ll + ls*math.Log10(fGHz) + 3*math.Log10(distKm)
	sigma := 6.0
	return LossResult{LossDB: math.Max(0, loc) + normInvCDF(confidence)*sigma, CDF: confidence}
}
