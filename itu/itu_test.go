package itu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFSPLScenarioS2(t *testing.T) {
	// spec.md S2: d ~= 14.2km, f = 6015 MHz, FSPL ~= 131.1 dB.
	loss := FSPL(14200, 6015)
	assert.InDelta(t, 131.1, loss, 0.2)
}

func TestFSPLSymmetric(t *testing.T) {
	a := FSPL(10000, 6000)
	b := FSPL(10000, 6000)
	assert.InDelta(t, a, b, 1e-9)
}

func TestAntennaGainSymmetricInAngle(t *testing.T) {
	g1 := AntennaGain(PatternF699, 30, 34, 150, CategoryOther)
	g2 := AntennaGain(PatternF699, -30, 34, 150, CategoryOther)
	g3 := AntennaGain(PatternF699, 330, 34, 150, CategoryOther)
	assert.InDelta(t, g1, g2, 1e-9)
	assert.InDelta(t, g1, g3, 1e-9)
}

func TestAntennaGainBoresightIsMax(t *testing.T) {
	g := AntennaGain(PatternF699, 0, 34, 150, CategoryOther)
	assert.InDelta(t, 34, g, 0.01)
}

func TestNearFieldLossBorderClamp(t *testing.T) {
	inBounds := NearFieldLoss(10, 2, 0.7)
	beyondHigh := NearFieldLoss(1000, 2, 0.7)
	beyondLow := NearFieldLoss(-50, 2, 0.7)
	assert.Equal(t, NearFieldLoss(20, 2, 0.7), beyondHigh)
	assert.Equal(t, NearFieldLoss(0, 2, 0.7), beyondLow)
	assert.GreaterOrEqual(t, inBounds, 0.0)
}

func TestWinner2LOSLowerThanNLOS(t *testing.T) {
	base := Winner2Params{Scenario: ScenarioC1Suburban, DistanceM: 500, FreqMHz: 6000, TxHeightM: 1.5, RxHeightM: 20}
	base.LOS = LOSTrue
	base.Confidence.LOS = 0.5
	los := Winner2(base)
	base.LOS = LOSFalse
	base.Confidence.NLOS = 0.5
	nlos := Winner2(base)
	assert.Less(t, los.LossDB, nlos.LossDB)
}
