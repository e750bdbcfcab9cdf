package analyses

import (
	"fmt"
	"math"

	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/pathloss"
)

// HeatmapCell is one gridded sample of spec.md §4.I's heatmap: the I/N
// ratio a fixed EIRP/channel would produce against one FS at this
// location, classified indoor or outdoor by the caller's layer.
type HeatmapCell struct {
	Lat, Lon float64
	Indoor   bool
	INDB     float64
	Couples  bool
}

// HeatmapLinkBuilder constructs the pathloss.Link for one heatmap cell,
// mirroring interference.LinkBuilder but keyed by raw lat/lon/indoor
// rather than a scanner.Point, since a heatmap has no vertical scan.
type HeatmapLinkBuilder func(latDeg, lonDeg float64, indoor bool) pathloss.Link

// Heatmap grids the rectangle bounded by sw/ne at spacingM
// (spec.md: "_heatmapRLANSpacing") and computes I/N for fixedEIRPDBm on
// channel against fs at each cell, classifying indoor/outdoor via
// indoorAt (nil means every cell is outdoor).
func Heatmap(sw, ne geo.Point, spacingM float64, fixedEIRPDBm float64, channel interference.Channel,
	fs *fsstore.FS, store *fsstore.Store, plCfg pathloss.Config, engCfg interference.Config,
	indoorAt func(latDeg, lonDeg float64) bool, builder HeatmapLinkBuilder) ([]HeatmapCell, error) {

	if spacingM <= 0 {
		return nil, fmt.Errorf("analyses: heatmap spacing must be positive, got %g", spacingM)
	}
	widthM := geo.HaversineDistanceM(sw, geo.Point{LatDeg: sw.LatDeg, LonDeg: ne.LonDeg})
	heightM := geo.HaversineDistanceM(sw, geo.Point{LatDeg: ne.LatDeg, LonDeg: sw.LonDeg})
	if widthM <= 0 || heightM <= 0 {
		return nil, fmt.Errorf("analyses: heatmap rectangle must have positive extent")
	}

	var cells []HeatmapCell
	for e := spacingM / 2; e < widthM; e += spacingM {
		for n := spacingM / 2; n < heightM; n += spacingM {
			p := offsetENU(sw, e, n)
			indoor := false
			if indoorAt != nil {
				indoor = indoorAt(p.LatDeg, p.LonDeg)
			}

			link := builder(p.LatDeg, p.LonDeg, indoor)
			res := pathloss.Compose(link, plCfg)
			cell := HeatmapCell{Lat: p.LatDeg, Lon: p.LonDeg, Indoor: indoor}
			if res.TooClose {
				cells = append(cells, cell)
				continue
			}

			iRel, couples := interference.Evaluate(fs, store, geo.Point{LatDeg: p.LatDeg, LonDeg: p.LonDeg}, channel, res, engCfg)
			if !couples {
				cells = append(cells, cell)
				continue
			}
			cell.Couples = true
			cell.INDB = fixedEIRPDBm + iRel - interference.NoiseFloorDBm(fs)
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// offsetENU converts a local East/North offset (meters) from origin into
// a geodetic point via bearing/distance, matching scanner's enuToGeo.
func offsetENU(origin geo.Point, eastM, northM float64) geo.Point {
	dist := math.Hypot(eastM, northM)
	if dist < 1e-9 {
		return origin
	}
	bearing := math.Mod(geo.Degrees(math.Atan2(eastM, northM))+360, 360)
	return geo.Destination(origin, bearing, dist)
}
