package engine

import (
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/pathloss"
	"github.com/afc6ghz/engine/scanner"
)

// Config is the full engine configuration of spec.md §6 ("Engine
// configuration (input)"), aggregating every sub-package's own Config
// under one value threaded through a run rather than held as package
// globals (spec.md §9: "global mutable state ... moved into an explicit
// EngineConfig value").
type Config struct {
	PathLoss     pathloss.Config
	Interference interference.Config
	Scan         scanner.Params

	// MaxEIRPDBm bounds every channel's ceiling (spec.md §8 invariant 1:
	// "eirp(c) <= maxEIRP_dBm"). MaxEIRPDBmByOpClass overrides it for a
	// specific operating class when present.
	MaxEIRPDBm          float64
	MaxEIRPDBmByOpClass map[int]float64

	// ITM ground constants. spec.md §4.D lists these as per-link ITM
	// inputs (dielectric, conductivity, climate code, surface
	// refractivity) but never ties them to a raster layer or per-point
	// source, so they are carried as engine-wide defaults applied to
	// every link; see DESIGN.md for the reasoning.
	ITMDielectricConst float64
	ITMConductivityS   float64
	ITMClimateCode     int
	ITMSurfaceRefrN    float64

	// Land-cover/population thresholds feeding pathloss.Environment's
	// WINNER-II scenario classification and this package's clutter
	// category derivation.
	DensityThrUrbanPerKm2    float64
	DensityThrSuburbanPerKm2 float64

	// RLANHeightAGLM is the assumed RLAN antenna height above ground for
	// analyses that synthesize candidate points directly from lat/lon
	// rather than from a scanner.Region (exclusion zone, heatmap).
	RLANHeightAGLM float64
}

func (c Config) maxEIRPFor(opClass int) float64 {
	if v, ok := c.MaxEIRPDBmByOpClass[opClass]; ok {
		return v
	}
	return c.MaxEIRPDBm
}
