package itu

import "math"

// AntennaPattern selects which ITU reference pattern computes discrimination.
type AntennaPattern int

const (
	PatternF699 AntennaPattern = iota
	PatternF1245
	PatternF1336OmniAvg
	PatternR2AIP07
)

// AntennaCategory selects the R2-AIP-07 FS antenna category.
type AntennaCategory int

const (
	CategoryHP AntennaCategory = iota
	CategoryB1
	CategoryOther
)

// AntennaGain returns the discrimination gain (dBi) at angleOffBoresight
// degrees (always folded to [0,180], since every pattern here is
// symmetric in angle per spec.md §4.D), given maxGain (dBi) and the
// antenna's diameter-to-wavelength ratio dOverLambda.
func AntennaGain(pattern AntennaPattern, angleOffBoresightDeg, maxGainDBi, dOverLambda float64, category AntennaCategory) float64 {
	theta := math.Abs(math.Mod(angleOffBoresightDeg, 360))
	if theta > 180 {
		theta = 360 - theta
	}
	switch pattern {
	case PatternF699:
		return f699(theta, maxGainDBi, dOverLambda)
	case PatternF1245:
		return f1245(theta, maxGainDBi, dOverLambda)
	case PatternF1336OmniAvg:
		return f1336OmniAvg(theta, maxGainDBi)
	default:
		return r2aip07(theta, maxGainDBi, dOverLambda, category)
	}
}

// psiBreakpoints returns the ITU-R F.699-style near-in/far-out breakpoint
// angles psi_M (first sidelobe) and psi_R (far skirt onset), whose
// definitions diverge depending on whether D/lambda exceeds 100
// (spec.md §4.D).
func psiBreakpoints(maxGainDBi, dOverLambda float64) (psiM, psiR float64) {
	if dOverLambda > 100 {
		psiM = 20 / dOverLambda * math.Sqrt(maxGainDBi-2)
	} else {
		psiM = 100 / dOverLambda
	}
	psiR = 15.85 * math.Pow(dOverLambda, -0.6)
	return
}

func f699(theta, maxGainDBi, dOverLambda float64) float64 {
	psiM, psiR := psiBreakpoints(maxGainDBi, dOverLambda)
	switch {
	case theta < psiM:
		return maxGainDBi - 2.5e-3*math.Pow(dOverLambda*theta, 2)
	case theta < psiR:
		return maxGainDBi - 25 // plateau, first sidelobe region
	case theta < 48:
		return 32 - 25*math.Log10(theta)
	default:
		return -10
	}
}

func f1245(theta, maxGainDBi, dOverLambda float64) float64 {
	psiM, _ := psiBreakpoints(maxGainDBi, dOverLambda)
	g1 := 2 + 15*math.Log10(dOverLambda)
	switch {
	case theta < psiM:
		return maxGainDBi - 2.5e-3*math.Pow(dOverLambda*theta, 2)
	case theta < 100/dOverLambda:
		return g1
	case theta < 48:
		return 52 - 10*math.Log10(dOverLambda) - 25*math.Log10(theta)
	default:
		return 10 - 10*math.Log10(dOverLambda)
	}
}

func f1336OmniAvg(theta, maxGainDBi float64) float64 {
	// F.1336 "omnidirectional average" vertical pattern: a cosecant-squared
	// style roll-off beyond the half-power beamwidth.
	beamwidth := math.Sqrt(31000 / math.Pow(10, maxGainDBi/10))
	if theta <= beamwidth {
		return maxGainDBi - 12*math.Pow(theta/beamwidth, 2)
	}
	return math.Max(maxGainDBi-12-10*math.Log10(theta/beamwidth), -5)
}

// r2aip07 is the FS receiver off-axis discrimination pattern for the FCC
// 6 GHz R2-AIP-07 categories: "HP" (high-performance) antennas hold
// their envelope further off-axis than "B1"/"Other".
func r2aip07(theta, maxGainDBi, dOverLambda float64, category AntennaCategory) float64 {
	switch category {
	case CategoryHP:
		switch {
		case theta <= 1:
			return maxGainDBi
		case theta <= 5:
			return maxGainDBi - 1 - 4*(theta-1)
		case theta <= 48:
			return math.Min(maxGainDBi-1, 29-25*math.Log10(theta))
		default:
			return -13
		}
	case CategoryB1:
		switch {
		case theta <= 1:
			return maxGainDBi
		case theta <= 48:
			return math.Min(maxGainDBi, 32-25*math.Log10(theta))
		default:
			return -10
		}
	default: // CategoryOther
		_, psiR := psiBreakpoints(maxGainDBi, dOverLambda)
		switch {
		case theta <= psiR:
			return maxGainDBi
		case theta <= 48:
			return math.Min(maxGainDBi, 39-5*math.Log10(dOverLambda)-25*math.Log10(theta))
		default:
			return -7
		}
	}
}
