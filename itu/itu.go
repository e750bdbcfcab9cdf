// Package itu implements the pure, stateless propagation and antenna
// models of spec.md §4.D: FSPL, ITM (Longley-Rice area mode), Winner-II
// C1/C2/D1, P.2108 clutter, P.2109 building entry loss, near-field loss,
// and the F.699/F.1245/F.1336/R2-AIP-07 antenna discrimination patterns.
// Every exported function is referentially transparent given its inputs,
// per spec.md's "State: none" requirement.
package itu

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// speedOfLightMPerS is c, used by FSPL.
const speedOfLightMPerS = 299792458.0

// LossResult is the common return shape of every model in this package:
// a median/mean loss in dB and the confidence-quantile sample actually
// used (spec.md §4.D: "returning (loss_dB, cdf)").
type LossResult struct {
	LossDB float64
	CDF    float64 // the quantile (0,1) this LossDB corresponds to
}

// FSPL computes free-space path loss in dB for distance (meters) and
// frequency (MHz): 20*log10(4*pi*d*f/c).
func FSPL(distanceM, freqMHz float64) float64 {
	freqHz := freqMHz * 1e6
	return 20 * math.Log10(4*math.Pi*distanceM*freqHz/speedOfLightMPerS)
}

// normInvCDF returns the quantile of the standard normal distribution at
// probability p, used to turn a confidence/percentile input into a
// statistical offset for the P.2108/P.2109/ITM models.
func normInvCDF(p float64) float64 {
	if p <= 0 {
		p = 1e-6
	}
	if p >= 1 {
		p = 1 - 1e-6
	}
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return n.Quantile(p)
}
