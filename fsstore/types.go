// Package fsstore implements the FS/RAS store of spec.md §4.E: loading
// bounded FS receivers and denied regions, binding antennas, and
// providing a fast spatial in-range query. FS, antenna, and PR objects
// are held in arenas with stable integer handles (spec.md §9): objects
// refer to each other by index, never by pointer, so there is no cyclic
// ownership to unwind.
package fsstore

import (
	"math"

	"github.com/afc6ghz/engine/geo"
)

// AntennaHandle indexes into Store.Antennas.
type AntennaHandle int

// AntennaCategory mirrors itu.AntennaCategory without importing itu here,
// so fsstore stays a leaf package over geo only.
type AntennaCategory int

const (
	CategoryHP AntennaCategory = iota
	CategoryB1
	CategoryOther
)

// Antenna is a registered FS/PR antenna model.
type Antenna struct {
	Model       string
	Category    AntennaCategory
	MaxGainDBi  float64
	DOverLambda float64
}

// Polarization of an FS receiver.
type Polarization int

const (
	PolarizationVertical Polarization = iota
	PolarizationHorizontal
)

// PassiveRepeaterKind selects which PR model applies.
type PassiveRepeaterKind int

const (
	PRBackToBack PassiveRepeaterKind = iota
	PRBillboard
)

// PassiveRepeater is one hop of an FS's PR chain (spec.md §3).
type PassiveRepeater struct {
	Kind PassiveRepeaterKind
	Location geo.Point

	// Back-to-back antenna fields.
	NearAntenna AntennaHandle
	FarAntenna  AntennaHandle
	NearAzDeg, NearElDeg float64
	FarAzDeg, FarElDeg   float64

	// Billboard reflector fields.
	ReflectorWidthM, ReflectorHeightM float64
	ReflectorAzDeg, ReflectorElDeg    float64
	ReflectorCurvatureM               float64
}

// FS is one Fixed Service receiver record (spec.md §3, "uls" row schema).
type FS struct {
	DatabaseID int
	FSID       int

	StartFreqMHz, StopFreqMHz float64
	EmissionDesignator        string
	BandwidthMHz              float64

	RxLocation geo.Point
	RxHeightIsAGL bool
	TxLocation geo.Point
	TxHeightIsAGL bool

	Polarization Polarization
	AntennaGainDBi float64
	Antenna        AntennaHandle
	MobileFlag     bool

	FeederLossDB float64
	NoiseFigureDB float64

	Repeaters []PassiveRepeater

	// Derived fields, computed at load time.
	NoiseFloorDBW float64
	MaxInteractionRadiusM float64
}

// boltzmannConstant is k in J/K, used to derive NoiseFloorDBW.
const boltzmannConstant = 1.380649e-23

// NoiseFloorDBW computes k*T0*B*NF in dBW, per spec.md §3 "Derived: noise
// floor (dBW)".
func NoiseFloorDBW(bandwidthMHz, noiseFigureDB, tempK float64) float64 {
	if tempK <= 0 {
		tempK = 290
	}
	bandwidthHz := bandwidthMHz * 1e6
	kt := boltzmannConstant * tempK
	noiseWatts := kt * bandwidthHz
	return 10*math.Log10(noiseWatts) + noiseFigureDB
}
