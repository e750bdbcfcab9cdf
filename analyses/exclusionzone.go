package analyses

import (
	"github.com/afc6ghz/engine/fsstore"
	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/interference"
	"github.com/afc6ghz/engine/pathloss"
)

// ExclusionVertex is one vertex of an exclusion-zone contour.
type ExclusionVertex struct {
	Lat, Lon float64
}

// exclusionBisectIterations bounds the bisection below the distance
// tolerance for any realistic MaxDistM (2^-40 shrinks a 1000 km span to
// well under a millimeter).
const exclusionBisectIterations = 40

// ExclusionZoneLinkBuilder constructs the pathloss.Link for one candidate
// boundary point along a bearing sweep.
type ExclusionZoneLinkBuilder func(latDeg, lonDeg float64) pathloss.Link

// ExclusionZoneParams configures the bearing sweep and bisection bounds.
type ExclusionZoneParams struct {
	FixedEIRPDBm   float64
	INThresholdDB  float64
	BearingStepDeg float64
	MinDistM       float64
	MaxDistM       float64
}

// ExclusionZone solves spec.md §4.I's exclusion zone: for one FS and one
// channel, bisect distance along a sweep of bearings around the FS to
// find where `I/N = threshold` at a fixed candidate EIRP, emitting the
// vertex list. A bearing whose I/N never reaches threshold within
// [MinDistM, MaxDistM] contributes no vertex — not every exclusion
// contour is closed in every direction.
func ExclusionZone(fs *fsstore.FS, store *fsstore.Store, channel interference.Channel, params ExclusionZoneParams,
	plCfg pathloss.Config, engCfg interference.Config, builder ExclusionZoneLinkBuilder) []ExclusionVertex {

	step := params.BearingStepDeg
	if step <= 0 {
		step = 5
	}

	inDBAt := func(distM, bearingDeg float64) (inDB float64, couples bool) {
		p := geo.Destination(fs.RxLocation, bearingDeg, distM)
		link := builder(p.LatDeg, p.LonDeg)
		res := pathloss.Compose(link, plCfg)
		if res.TooClose {
			return 0, false
		}
		iRel, couples := interference.Evaluate(fs, store, geo.Point{LatDeg: p.LatDeg, LonDeg: p.LonDeg}, channel, res, engCfg)
		if !couples {
			return 0, false
		}
		return params.FixedEIRPDBm + iRel - interference.NoiseFloorDBm(fs), true
	}

	var vertices []ExclusionVertex
	for bearing := 0.0; bearing < 360; bearing += step {
		lo, hi := params.MinDistM, params.MaxDistM
		loIN, loCouples := inDBAt(lo, bearing)
		hiIN, hiCouples := inDBAt(hi, bearing)
		if !loCouples || !hiCouples {
			continue
		}

		fLo := loIN - params.INThresholdDB
		fHi := hiIN - params.INThresholdDB
		if (fLo > 0) == (fHi > 0) {
			// Same side of threshold at both bounds: no crossing on this
			// bearing within the searched span.
			continue
		}

		for i := 0; i < exclusionBisectIterations; i++ {
			mid := (lo + hi) / 2
			midIN, couples := inDBAt(mid, bearing)
			if !couples {
				hi = mid
				continue
			}
			fMid := midIN - params.INThresholdDB
			if (fMid > 0) == (fLo > 0) {
				lo, fLo = mid, fMid
			} else {
				hi, fHi = mid, fMid
			}
		}

		boundary := geo.Destination(fs.RxLocation, bearing, (lo+hi)/2)
		vertices = append(vertices, ExclusionVertex{Lat: boundary.LatDeg, Lon: boundary.LonDeg})
	}
	return vertices
}
