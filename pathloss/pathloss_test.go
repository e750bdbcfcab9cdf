package pathloss

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/itu"
	"github.com/afc6ghz/engine/terrain"
)

func baseLink() Link {
	return Link{
		TxPoint: geo.Point{LatDeg: 37.0, LonDeg: -122.0, HeightKm: 0.01},
		RxPoint: geo.Point{LatDeg: 37.1, LonDeg: -122.0, HeightKm: 0.03},
		FreqMHz: 6005,
	}
}

func TestComposeFSPLMatchesITUFSPL(t *testing.T) {
	link := baseLink()
	cfg := Config{Model: ModelFSPL}
	res := Compose(link, cfg)

	d := geo.HaversineDistanceM(link.TxPoint, link.RxPoint)
	want := itu.FSPL(d, link.FreqMHz)
	assert.InDelta(t, want, res.TotalLossDB, 1e-9)
	assert.Equal(t, "FSPL", res.ModelName)
}

func TestComposeExclusionDistanceRejectsTooClose(t *testing.T) {
	link := baseLink()
	link.RxPoint = geo.Point{LatDeg: 37.0001, LonDeg: -122.0, HeightKm: 0.01}
	cfg := Config{Model: ModelFSPL, ExclusionDistM: 5000}

	res := Compose(link, cfg)
	assert.True(t, res.TooClose)
}

func TestComposeCloseInModelOverridesSelection(t *testing.T) {
	link := baseLink()
	cfg := Config{Model: ModelCoalition6, CloseInDistM: 50_000, CloseInModel: ModelFSPL}

	res := Compose(link, cfg)
	assert.Equal(t, "FSPL", res.ModelName)
}

func TestComposeIndoorAppliesBuildingAndBodyLoss(t *testing.T) {
	link := baseLink()
	link.Indoor = true
	cfg := Config{
		Model: ModelITMBldg,
		Losses: BodyPolarizationLosses{BodyLossIndoorDB: 7, PolarizationLossIndoorDB: 2},
		ConfidenceBldg2109: 0.5,
	}
	res := Compose(link, cfg)
	assert.Equal(t, 7.0, res.Breakdown.BodyDB)
	assert.Equal(t, 2.0, res.Breakdown.PolarizationDB)
	assert.Greater(t, res.Breakdown.BuildingEntryDB, 0.0)
}

func TestComposePathLossClampFSPLNeverBelowFreeSpace(t *testing.T) {
	link := baseLink()
	link.RxPoint = geo.Point{LatDeg: 37.00001, LonDeg: -122.0, HeightKm: 0.01}
	cfg := Config{Model: ModelCoalition6, PathLossClampFSPL: true}

	res := Compose(link, cfg)
	d := geo.HaversineDistanceM(link.TxPoint, link.RxPoint)
	fspl := itu.FSPL(d, link.FreqMHz)
	assert.GreaterOrEqual(t, res.TotalLossDB, fspl-1e-9)
}

func TestResolveLOSUsesBuildingDataWhenAvailable(t *testing.T) {
	link := baseLink()
	link.HasBuildingData = true
	link.BuildingData.Variant = terrain.VariantBuilding
	los, _ := resolveLOS(link, Config{})
	assert.Equal(t, itu.LOSFalse, los)
}

func TestResolveLOSForceOptionsWhenUnknown(t *testing.T) {
	link := baseLink()
	los, _ := resolveLOS(link, Config{Winner2LOSOption: LOSUnknownForceLOS})
	assert.Equal(t, itu.LOSTrue, los)

	los, _ = resolveLOS(link, Config{Winner2LOSOption: LOSUnknownForceNLOS})
	assert.Equal(t, itu.LOSFalse, los)

	los, combine := resolveLOS(link, Config{Winner2LOSOption: LOSUnknownThreshold})
	assert.Equal(t, itu.LOSUnknown, los)
	assert.Equal(t, itu.CombineThreshold, combine)
}
