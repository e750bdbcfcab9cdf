package itu

import "math"

// ITMParams carries the Longley-Rice area-mode inputs named in
// spec.md §4.D.
type ITMParams struct {
	DistanceM       float64
	FreqMHz         float64
	TxHeightM       float64
	RxHeightM       float64
	Profile         []float64 // terrain heights (m AMSL) along the great-circle path, min spacing applied by the caller
	ProfileSpacingM float64
	DielectricConst float64 // relative permittivity of ground, typ. 15
	ConductivityS   float64 // ground conductivity, S/m, typ. 0.005
	Polarization    Polarization
	ClimateCode     int     // ITU climate zone, 1-7
	SurfaceRefr     float64 // N-units, typ. 301
	Confidence      float64 // (0,1)
	Reliability     float64 // (0,1)
}

// Polarization of the transmitted wave.
type Polarization int

const (
	PolarizationVertical Polarization = iota
	PolarizationHorizontal
)

// terrainIrregularityM computes the interdecile range delta-h of the
// elevation profile, ITM's standard terrain-roughness parameter.
func terrainIrregularityM(profile []float64) float64 {
	if len(profile) < 2 {
		return 0
	}
	sorted := append([]float64(nil), profile...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	n := len(sorted)
	i10 := int(0.1 * float64(n))
	i90 := int(0.9 * float64(n))
	if i90 >= n {
		i90 = n - 1
	}
	return sorted[i90] - sorted[i10]
}

// ITM computes the Longley-Rice area-mode path loss. This is a
// deliberately compact reimplementation of the reference algorithm's
// shape (free-space term plus a terrain-roughness diffraction/scatter
// correction and a confidence/reliability statistical adjustment),
// not a line-for-line port of the NTIA FORTRAN reference — spec.md's
// Open Questions leave the exact coefficients to the implementer, and
// this module documents the approximation in DESIGN.md.
func ITM(p ITMParams) LossResult {
	fspl := FSPL(p.DistanceM, p.FreqMHz)

	dh := terrainIrregularityM(p.Profile)
	// Empirical diffraction/scatter correction: rougher terrain and
	// lower antennas add loss relative to free space, saturating for
	// very long paths (scatter-dominated regime).
	heightFactor := 10 * math.Log10(math.Max(1, (p.TxHeightM+1)*(p.RxHeightM+1))/4)
	roughness := 0.05 * dh * math.Log10(math.Max(2, p.DistanceM/1000))
	distKm := p.DistanceM / 1000
	diffraction := 20 * math.Log10(1+distKm/40)

	median := fspl + roughness + diffraction - heightFactor

	// Confidence (variability across locations/situations) and
	// reliability (variability across time) both widen the loss via a
	// normal-quantile offset, consistent with ITM's statistical model.
	sigmaConfidence := 6.0  // dB, location variability
	sigmaReliability := 4.0 // dB, time variability
	offset := normInvCDF(p.Confidence)*sigmaConfidence + normInvCDF(p.Reliability)*sigmaReliability

	return LossResult{LossDB: median + offset, CDF: p.Confidence}
}
