// Package geo implements WGS-84 geodetic/ECEF conversion, local ENU
// bases, and the spherical distance/bearing math shared by every other
// component of the AFC engine (Component A of the design).
package geo

import (
	"math"

	"github.com/soniakeys/unit"
)

// WGS-84 ellipsoid constants (km), matching spec.md §3.
const (
	SemiMajorAxisKm  = 6378.137
	FirstEccSquared  = 6.694379901e-3
	meanEarthRadiusM = 6371008.8
)

// Point is a WGS-84 geodetic coordinate: latitude/longitude in degrees,
// height in kilometers (spec.md §3).
type Point struct {
	LatDeg   float64
	LonDeg   float64
	HeightKm float64
}

// Angle wraps soniakeys/unit.Angle so every exported surface in this
// package is explicit about degrees-at-the-boundary, radians-internally
// (spec.md §4.A).
type Angle = unit.Angle

// Radians converts a degree measure to the internal radian representation.
func Radians(deg float64) float64 { return unit.AngleFromDeg(deg).Rad() }

// Degrees converts radians back to degrees for any exported interface.
func Degrees(rad float64) float64 { return unit.Angle(rad).Deg() }

// ECEF is a point in earth-centered, earth-fixed cartesian coordinates (km).
type ECEF struct {
	X, Y, Z float64
}

// ToECEF converts a geodetic point to ECEF using the WGS-84 ellipsoid.
func (p Point) ToECEF() ECEF {
	lat := Radians(p.LatDeg)
	lon := Radians(p.LonDeg)
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	n := SemiMajorAxisKm / math.Sqrt(1-FirstEccSquared*sinLat*sinLat)
	return ECEF{
		X: (n + p.HeightKm) * cosLat * cosLon,
		Y: (n + p.HeightKm) * cosLat * sinLon,
		Z: (n*(1-FirstEccSquared) + p.HeightKm) * sinLat,
	}
}

// FromECEF recovers a geodetic point from ECEF coordinates using Bowring's
// iterative method, converging to better than 1e-9 deg in a handful of steps.
func FromECEF(e ECEF) Point {
	p := math.Hypot(e.X, e.Y)
	if p < 1e-12 {
		lat := math.Pi / 2
		if e.Z < 0 {
			lat = -lat
		}
		return Point{LatDeg: Degrees(lat), LonDeg: 0, HeightKm: math.Abs(e.Z) - SemiMajorAxisKm*math.Sqrt(1-FirstEccSquared)}
	}
	lon := math.Atan2(e.Y, e.X)
	lat := math.Atan2(e.Z, p*(1-FirstEccSquared))
	for i := 0; i < 8; i++ {
		sinLat := math.Sin(lat)
		n := SemiMajorAxisKm / math.Sqrt(1-FirstEccSquared*sinLat*sinLat)
		h := p/math.Cos(lat) - n
		lat = math.Atan2(e.Z, p*(1-FirstEccSquared*n/(n+h)))
	}
	sinLat := math.Sin(lat)
	n := SemiMajorAxisKm / math.Sqrt(1-FirstEccSquared*sinLat*sinLat)
	h := p/math.Cos(lat) - n
	return Point{LatDeg: Degrees(lat), LonDeg: Degrees(lon), HeightKm: h}
}

// ENUBasis is the local East-North-Up orthonormal frame at a geodetic origin.
type ENUBasis struct {
	Origin           Point
	East, North, Up  ECEF
}

// LocalENU builds the East-North-Up basis at the given geodetic origin.
func LocalENU(origin Point) ENUBasis {
	lat := Radians(origin.LatDeg)
	lon := Radians(origin.LonDeg)
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	return ENUBasis{
		Origin: origin,
		East:   ECEF{X: -sinLon, Y: cosLon, Z: 0},
		North:  ECEF{X: -sinLat * cosLon, Y: -sinLat * sinLon, Z: cosLat},
		Up:     ECEF{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat},
	}
}

// ToENU projects a point into the basis's local East/North/Up meters.
func (b ENUBasis) ToENU(p Point) (eastM, northM, upM float64) {
	o := b.Origin.ToECEF()
	t := p.ToECEF()
	dx, dy, dz := (t.X-o.X)*1000, (t.Y-o.Y)*1000, (t.Z-o.Z)*1000
	eastM = dx*b.East.X + dy*b.East.Y + dz*b.East.Z
	northM = dx*b.North.X + dy*b.North.Y + dz*b.North.Z
	upM = dx*b.Up.X + dy*b.Up.Y + dz*b.Up.Z
	return
}

// HaversineDistanceM returns the great-circle distance in meters between
// two geodetic points using the mean-earth-radius spherical approximation.
func HaversineDistanceM(a, b Point) float64 {
	lat1, lat2 := Radians(a.LatDeg), Radians(b.LatDeg)
	dLat := lat2 - lat1
	dLon := Radians(b.LonDeg) - Radians(a.LonDeg)
	sinDLat2 := math.Sin(dLat / 2)
	sinDLon2 := math.Sin(dLon / 2)
	h := sinDLat2*sinDLat2 + math.Cos(lat1)*math.Cos(lat2)*sinDLon2*sinDLon2
	return 2 * meanEarthRadiusM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// InitialBearingDeg returns the initial great-circle bearing from a to b,
// in degrees clockwise from true north, in [0, 360).
func InitialBearingDeg(a, b Point) float64 {
	lat1, lat2 := Radians(a.LatDeg), Radians(b.LatDeg)
	dLon := Radians(b.LonDeg) - Radians(a.LonDeg)
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := Degrees(math.Atan2(y, x))
	return math.Mod(brng+360, 360)
}

// Destination returns the geodetic point reached by travelling distM
// meters from origin along the given bearing (degrees), holding height
// fixed. Used by the region scanner and exclusion-zone bearing sweep.
func Destination(origin Point, bearingDeg, distM float64) Point {
	angularDist := distM / meanEarthRadiusM
	lat1 := Radians(origin.LatDeg)
	brng := Radians(bearingDeg)
	sinLat1, cosLat1 := math.Sincos(lat1)
	sinD, cosD := math.Sincos(angularDist)
	lat2 := math.Asin(sinLat1*cosD + cosLat1*sinD*math.Cos(brng))
	lon2 := Radians(origin.LonDeg) + math.Atan2(
		math.Sin(brng)*sinD*cosLat1,
		cosD-sinLat1*math.Sin(lat2),
	)
	return Point{LatDeg: Degrees(lat2), LonDeg: normalizeLonDeg(Degrees(lon2)), HeightKm: origin.HeightKm}
}

// ElevationAngleDeg returns the elevation angle in degrees from observer to
// target, given the straight-line geometry via the local ENU basis at observer.
func ElevationAngleDeg(observer, target Point) float64 {
	e, n, u := LocalENU(observer).ToENU(target)
	horiz := math.Hypot(e, n)
	if horiz < 1e-9 {
		if u >= 0 {
			return 90
		}
		return -90
	}
	return Degrees(math.Atan2(u, horiz))
}

// AngleOffBoresightDeg returns the angle, in degrees, between a boresight
// pointing vector (azimuth/elevation in degrees) and the direction from
// origin to target, both expressed in origin's local ENU frame.
func AngleOffBoresightDeg(origin, target Point, boresightAzDeg, boresightElDeg float64) float64 {
	e, n, u := LocalENU(origin).ToENU(target)
	mag := math.Sqrt(e*e + n*n + u*u)
	if mag < 1e-9 {
		return 0
	}
	e, n, u = e/mag, n/mag, u/mag

	azR := Radians(boresightAzDeg)
	elR := Radians(boresightElDeg)
	be := math.Sin(azR) * math.Cos(elR)
	bn := math.Cos(azR) * math.Cos(elR)
	bu := math.Sin(elR)

	dot := e*be + n*bn + u*bu
	dot = math.Max(-1, math.Min(1, dot))
	return Degrees(math.Acos(dot))
}

func normalizeLonDeg(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon <= -180 {
		lon += 360
	}
	return lon
}
