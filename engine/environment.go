package engine

import (
	"github.com/afc6ghz/engine/itu"
	"github.com/afc6ghz/engine/pathloss"
	"github.com/afc6ghz/engine/raster"
)

// urbanNLCDCodeMin is the lowest NLCD "Developed" class code treated as
// urban for WINNER-II scenario selection (Medium/High Intensity); Open
// Space and Low Intensity read as suburban texture instead.
const urbanNLCDCodeMin = 23.0

func nlcdIsUrban(code float64) bool { return code >= urbanNLCDCodeMin }

// environmentAt resolves land-cover/population inputs for (lat, lon) from
// the registry's single-purpose NLCD/Population sources. Both are
// queried via raster.BandTerrain: Band only exists to select among a
// multi-band source's bands (e.g. LiDAR's bare-earth/building split),
// and NLCD/Population sources each carry exactly one value per pixel, so
// BandTerrain serves as the generic "the" value selector here.
func (m *Manager) environmentAt(latDeg, lonDeg float64) pathloss.Environment {
	env := pathloss.Environment{
		DensityThrUrbanPerKm2:    m.Config.DensityThrUrbanPerKm2,
		DensityThrSuburbanPerKm2: m.Config.DensityThrSuburbanPerKm2,
	}
	if src, ok := m.Registry.Lookup(raster.KindNLCD, latDeg, lonDeg); ok {
		if code, ok := src.ValueAt(latDeg, lonDeg, raster.BandTerrain); ok {
			env.NLCDUrban = nlcdIsUrban(code)
		}
	}
	if src, ok := m.Registry.Lookup(raster.KindPopulation, latDeg, lonDeg); ok {
		if pop, ok := src.ValueAt(latDeg, lonDeg, raster.BandTerrain); ok {
			env.PopulationPerKm2 = pop
		}
	}
	return env
}

// clutterEnvironmentFor reuses Environment's own urban/suburban split to
// pick a P.2108 clutter category, since spec.md §4.D names the same
// land-cover/population inputs for both.
func clutterEnvironmentFor(env pathloss.Environment) itu.ClutterEnvironment {
	switch {
	case env.NLCDUrban && env.PopulationPerKm2 > env.DensityThrUrbanPerKm2:
		return itu.ClutterDense
	case env.PopulationPerKm2 > env.DensityThrSuburbanPerKm2:
		return itu.ClutterUrban
	default:
		return itu.ClutterSuburban
	}
}
