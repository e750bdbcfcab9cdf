package pathloss

import (
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/itu"
	"github.com/afc6ghz/engine/terrain"
)

// Environment carries the land-cover/population inputs Coalition6 uses to
// pick a WINNER-II scenario (spec.md §4.G: "derived from NLCD land-cover
// and population density thresholds").
type Environment struct {
	NLCDUrban           bool
	PopulationPerKm2    float64
	DensityThrUrbanPerKm2    float64
	DensityThrSuburbanPerKm2 float64
}

// scenario classifies the environment into a WINNER-II scenario.
func (e Environment) scenario() itu.Winner2Scenario {
	switch {
	case e.NLCDUrban && e.PopulationPerKm2 > e.DensityThrUrbanPerKm2:
		return itu.ScenarioC2Urban
	case e.PopulationPerKm2 > e.DensityThrSuburbanPerKm2:
		return itu.ScenarioC1Suburban
	default:
		return itu.ScenarioD1Rural
	}
}

// Link is everything a single (scanPoint, fsPoint, channel) path-loss
// evaluation needs (spec.md §4.G).
type Link struct {
	TxPoint geo.Point
	RxPoint geo.Point
	FreqMHz float64

	Indoor      bool
	BuildingData terrain.Result // zero value means "unknown/not available"
	HasBuildingData bool

	Environment Environment

	Profile terrain.ElevationProfile

	Polarization itu.Polarization
	ITMDielectricConst float64
	ITMConductivityS   float64
	ITMClimateCode     int
	ITMSurfaceRefrN    float64

	ClutterEnv itu.ClutterEnvironment

	NearFieldU                  float64
	NearFieldExcessDB           float64

	FeederLossDB float64

	FixedBuildingLoss *float64
}

// Breakdown records every composed loss term, for optional debug emission
// (SPEC_FULL.md §12: "debug breakdown emission").
type Breakdown struct {
	PropagationModel    float64
	ClutterDB           float64
	BuildingEntryDB     float64
	PolarizationDB      float64
	BodyDB              float64
	FeederLossDB        float64
	NearFieldDB         float64
}

// Result is the composer's return shape (spec.md §4.G step 6).
type Result struct {
	TotalLossDB float64
	ModelName   string
	CDFSample   float64
	Breakdown   Breakdown
	TooClose    bool // distance < ExclusionDistM; caller decides disposition
}
