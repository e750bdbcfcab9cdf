package interference

import (
	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/itu"
	"github.com/afc6ghz/engine/scanner"
)

// scanPointGeo converts a scanner.Point to a geo.Point, in meters-based
// kilometers as geo.Point requires.
func scanPointGeo(sp scanner.Point) geo.Point {
	return geo.Point{LatDeg: sp.Lat, LonDeg: sp.Lon, HeightKm: sp.HeightAMSL / 1000}
}

func toITUCategory(c fsstore.AntennaCategory) itu.AntennaCategory {
	switch c {
	case fsstore.CategoryHP:
		return itu.CategoryHP
	case fsstore.CategoryB1:
		return itu.CategoryB1
	default:
		return itu.CategoryOther
	}
}

// fsBoresight derives the FS receive antenna's nominal pointing direction
// as the bearing/elevation from its own rx location toward its own tx
// location (its link partner) — spec.md §3 stores no separate boresight
// field, so the link geometry itself defines it.
func fsBoresight(fs *fsstore.FS) (azDeg, elDeg float64) {
	return geo.InitialBearingDeg(fs.RxLocation, fs.TxLocation), geo.ElevationAngleDeg(fs.RxLocation, fs.TxLocation)
}

// rxDiscriminationDB returns the FS receive antenna's discrimination gain
// (dBi) toward source, accounting for its boresight pointing at its own
// tx link partner (spec.md §4.H: "rxGain(theta_off, elev)").
func rxDiscriminationDB(fs *fsstore.FS, store *fsstore.Store, source geo.Point, pattern itu.AntennaPattern) float64 {
	ant := store.Antenna(fs.Antenna)
	az, el := fsBoresight(fs)
	angleOff := geo.AngleOffBoresightDeg(fs.RxLocation, source, az, el)
	return itu.AntennaGain(pattern, angleOff, ant.MaxGainDBi, ant.DOverLambda, toITUCategory(ant.Category))
}

// prChainDiscriminationDB sums the discrimination loss contributed by
// every passive repeater hop between the interfering source and the FS
// receiver (spec.md §4.H: "+ PR discriminations along chain"). Back-to-
// back repeaters are modeled by their near-side antenna's off-boresight
// discrimination toward the previous hop, since the far-side antenna's
// boresight is fixed by the FS's own engineered link and contributes no
// additional interferer-dependent term. Billboard reflectors are modeled
// as a fixed reflector loss (their gain pattern is not specified by
// spec.md and a full physical-optics reflector model is out of scope).
const billboardReflectorLossDB = 6.0

// NoiseFloorDBm converts fs's derived noise floor from dBW (spec.md §3:
// "Derived: noise floor (dBW)") to dBm, since EIRP and I/N are worked in
// dBm throughout spec.md §4.H and its scenarios (e.g. S2's "noise floor
// -100 dBm").
func NoiseFloorDBm(fs *fsstore.FS) float64 {
	return fs.NoiseFloorDBW + 30
}

func prChainDiscriminationDB(fs *fsstore.FS, store *fsstore.Store, source geo.Point) float64 {
	var total float64
	prevPoint := source
	for _, pr := range fs.Repeaters {
		switch pr.Kind {
		case fsstore.PRBackToBack:
			nearAnt := store.Antenna(pr.NearAntenna)
			angleNear := geo.AngleOffBoresightDeg(pr.Location, prevPoint, pr.NearAzDeg, pr.NearElDeg)
			total += itu.AntennaGain(itu.PatternF1245, angleNear, nearAnt.MaxGainDBi, nearAnt.DOverLambda, toITUCategory(nearAnt.Category))
		case fsstore.PRBillboard:
			total -= billboardReflectorLossDB
		}
		prevPoint = pr.Location
	}
	return total
}
