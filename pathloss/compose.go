package pathloss

import (
	"math"

	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/itu"
)

// Compose evaluates one (scanPoint, fsPoint, channel) link per spec.md
// §4.G: model selection by distance and configuration, composition of
// polarization/body/feeder/near-field/building-penetration losses, and
// the optional FSPL floor clamp.
func Compose(link Link, cfg Config) Result {
	distanceM := geo.HaversineDistanceM(link.TxPoint, link.RxPoint)

	if cfg.ExclusionDistM > 0 && distanceM < cfg.ExclusionDistM {
		return Result{TooClose: true}
	}

	model := cfg.Model
	if cfg.CloseInDistM > 0 && distanceM < cfg.CloseInDistM {
		model = cfg.CloseInModel
	}

	var (
		propLoss  itu.LossResult
		breakdown Breakdown
	)

	switch model {
	case ModelFSPL:
		propLoss = itu.LossResult{LossDB: itu.FSPL(distanceM, link.FreqMHz), CDF: 1}

	case ModelITMBldg:
		propLoss = itu.ITM(itmParams(link, distanceM, cfg))
		if link.Indoor {
			breakdown.BuildingEntryDB = itu.P2109(p2109Params(link, cfg)).LossDB
		}
		if cfg.ApplyClutter {
			breakdown.ClutterDB = itu.P2108Clutter(distanceM, link.FreqMHz, cfg.ConfidenceClutter2108, link.ClutterEnv).LossDB
		}

	case ModelCoalition6:
		propLoss = itu.Winner2(winner2Params(link, distanceM, cfg))

	case ModelFCC6GHzRO:
		propLoss = itu.ITM(itmParams(link, distanceM, cfg))
		if cfg.ClutterMethod == ClutterP2108 {
			breakdown.ClutterDB = itu.P2108Clutter(distanceM, link.FreqMHz, cfg.ConfidenceClutter2108, link.ClutterEnv).LossDB
		}

	default: // ModelCustom: identical composition rules, with ITM as the propagation model
		propLoss = itu.ITM(itmParams(link, distanceM, cfg))
	}

	breakdown.PropagationModel = propLoss.LossDB

	if link.Indoor {
		breakdown.BodyDB = cfg.Losses.BodyLossIndoorDB
		breakdown.PolarizationDB = cfg.Losses.PolarizationLossIndoorDB
	} else {
		breakdown.BodyDB = cfg.Losses.BodyLossOutdoorDB
		breakdown.PolarizationDB = cfg.Losses.PolarizationLossOutdoorDB
	}

	if cfg.NearFieldEnabled {
		breakdown.NearFieldDB = itu.NearFieldLoss(link.NearFieldExcessDB, link.NearFieldU, cfg.NearFieldApertureEff)
	}

	breakdown.FeederLossDB = link.FeederLossDB

	total := breakdown.PropagationModel + breakdown.ClutterDB + breakdown.BuildingEntryDB +
		breakdown.PolarizationDB + breakdown.BodyDB + breakdown.FeederLossDB + breakdown.NearFieldDB

	if cfg.PathLossClampFSPL {
		fspl := itu.FSPL(distanceM, link.FreqMHz)
		total = math.Max(total, fspl)
	}

	return Result{
		TotalLossDB: total,
		ModelName:   model.String(),
		CDFSample:   propLoss.CDF,
		Breakdown:   breakdown,
	}
}

func itmParams(link Link, distanceM float64, cfg Config) itu.ITMParams {
	return itu.ITMParams{
		DistanceM:       distanceM,
		FreqMHz:         link.FreqMHz,
		TxHeightM:       link.TxPoint.HeightKm * 1000,
		RxHeightM:       link.RxPoint.HeightKm * 1000,
		Profile:         link.Profile.Heights,
		ProfileSpacingM: link.Profile.SpacingM,
		DielectricConst: link.ITMDielectricConst,
		ConductivityS:   link.ITMConductivityS,
		Polarization:    link.Polarization,
		ClimateCode:     link.ITMClimateCode,
		SurfaceRefr:     link.ITMSurfaceRefrN,
		Confidence:      cfg.ConfidenceITM,
		Reliability:     cfg.ReliabilityITM,
	}
}

func p2109Params(link Link, cfg Config) itu.P2109Params {
	elevDeg := geo.ElevationAngleDeg(link.RxPoint, link.TxPoint)
	return itu.P2109Params{
		FreqMHz:           link.FreqMHz,
		ElevationAngleDeg: elevDeg,
		BuildingType:      itu.BuildingTraditional,
		Confidence:        cfg.ConfidenceBldg2109,
		FixedBuildingLoss: link.FixedBuildingLoss,
	}
}

// resolveLOS determines the WINNER-II LOS state/combine mode per
// spec.md §4.G ("LOS determination uses building data when available ...
// when unknown the configured unknown-LOS strategy applies").
func resolveLOS(link Link, cfg Config) (itu.LOSState, itu.LOSCombineMode) {
	if link.HasBuildingData {
		if link.BuildingData.IsBuilding() {
			return itu.LOSFalse, itu.CombineProbabilistic
		}
		return itu.LOSTrue, itu.CombineProbabilistic
	}
	switch cfg.Winner2LOSOption {
	case LOSUnknownForceLOS:
		return itu.LOSTrue, itu.CombineProbabilistic
	case LOSUnknownForceNLOS:
		return itu.LOSFalse, itu.CombineProbabilistic
	case LOSUnknownThreshold:
		return itu.LOSUnknown, itu.CombineThreshold
	default:
		return itu.LOSUnknown, itu.CombineProbabilistic
	}
}

func winner2Params(link Link, distanceM float64, cfg Config) itu.Winner2Params {
	los, combine := resolveLOS(link, cfg)
	p := itu.Winner2Params{
		Scenario:    link.Environment.scenario(),
		DistanceM:   distanceM,
		FreqMHz:     link.FreqMHz,
		TxHeightM:   link.TxPoint.HeightKm * 1000,
		RxHeightM:   link.RxPoint.HeightKm * 1000,
		LOS:         los,
		CombineMode: combine,
		Threshold:   cfg.Winner2LOSThreshold,
	}
	p.Confidence.LOS = cfg.ConfidenceWinner2LOS
	p.Confidence.NLOS = cfg.ConfidenceWinner2NLOS
	p.Confidence.Combined = cfg.ConfidenceWinner2Combined
	return p
}
