package scanner

import "math"

// HeightPolicy controls how a scan point that resolves below the AGL floor
// is handled (spec.md §3: "discarded/truncated according to policy").
type HeightPolicy int

const (
	// PolicyDiscard drops any point whose AGL would fall below the floor.
	PolicyDiscard HeightPolicy = iota
	// PolicyTruncate clamps the point's height up to terrain + minAGL.
	PolicyTruncate
)

// DefaultMinRlanHeightAboveTerrainM is the policy floor of spec.md §3
// ("default 1.5 m").
const DefaultMinRlanHeightAboveTerrainM = 1.5

// enumerateHeightsAMSL returns the AMSL heights to scan at one horizontal
// point, from center-heightUncertainty to center+heightUncertainty in
// heightStepM increments inclusive of both ends (spec.md §4.F).
func enumerateHeightsAMSL(centerAMSL, heightUncertaintyM, heightStepM float64) []float64 {
	if heightStepM <= 0 {
		heightStepM = 1
	}
	lo := centerAMSL - heightUncertaintyM
	hi := centerAMSL + heightUncertaintyM
	if hi < lo {
		lo, hi = hi, lo
	}
	n := int(math.Round((hi-lo)/heightStepM)) + 1
	if n < 1 {
		n = 1
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, lo+float64(i)*heightStepM)
	}
	return out
}

// applyHeightPolicy resolves a single (heightAMSL, terrainHeight) pair under
// the AGL floor policy, returning the accepted AMSL height and whether the
// point survives (spec.md §4.F invariant: "AGL >= minRlanHeightAboveTerrain
// after policy").
func applyHeightPolicy(heightAMSL, terrainHeightM, minAGLM float64, policy HeightPolicy) (amsl float64, ok bool) {
	agl := heightAMSL - terrainHeightM
	if agl >= minAGLM {
		return heightAMSL, true
	}
	switch policy {
	case PolicyTruncate:
		return terrainHeightM + minAGLM, true
	default:
		return 0, false
	}
}
