package fsstore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/afc6ghz/engine/geo"
	"github.com/afc6ghz/engine/terrain"
)

// SQLiteLoader reads FS rows from the "uls" table of a SQLite database,
// and each FS's passive-repeater chain from the "pr" table when present,
// treating the schema as an opaque row iterator per spec.md §1/§6 (the
// schema itself is an external collaborator's concern — this loader only
// needs the named columns of both tables, not the rest of the database).
type SQLiteLoader struct {
	db *sql.DB
}

// OpenSQLiteLoader opens path read-only via modernc.org/sqlite, the pure
// Go SQLite driver also used by banshee-data-velocity.report.
func OpenSQLiteLoader(path string) (*SQLiteLoader, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("fsstore: open %s: %w", path, err)
	}
	return &SQLiteLoader{db: db}, nil
}

// Close releases the underlying database handle.
func (l *SQLiteLoader) Close() error { return l.db.Close() }

const ulsSelectColumns = `database_id, fsid, start_freq_mhz, stop_freq_mhz, emission_designator,
	rx_lat, rx_lon, rx_height_m, rx_height_is_agl,
	tx_lat, tx_lon, tx_height_m, tx_height_is_agl,
	polarization, antenna_gain_dbi, antenna_model, antenna_category,
	mobile_flag, feeder_loss_db, noise_figure_db,
	num_passive_repeaters, status, callsign, radio_service`

// prSelectColumns mirrors ulsSelectColumns for the "pr" table: one row per
// passive-repeater hop of an FS's chain (spec.md §3 "PR chain"), ordered
// by seq from the FS receiver outward toward its tx partner.
const prSelectColumns = `kind, lat, lon, height_m, height_is_agl,
	near_antenna_model, near_antenna_category, near_gain_dbi, near_az_deg, near_el_deg,
	far_antenna_model, far_antenna_category, far_gain_dbi, far_az_deg, far_el_deg,
	reflector_width_m, reflector_height_m, reflector_az_deg, reflector_el_deg, reflector_curvature_m`

// LoadWindow loads every uls row whose rx falls within (minLat,maxLat] x
// [minLon,maxLon) (the same edge rule as geo.BBox.Contains) and whose frequency range overlaps [startMHz,stopMHz),
// resolving terrain for rx/tx, binding an antenna, and computing derived
// fields (spec.md §4.E). Malformed rows are recorded as anomalies and
// skipped rather than aborting the load (spec.md §7).
func (l *SQLiteLoader) LoadWindow(store *Store, resolver *terrain.Resolver, bounds geo.BBox, startMHz, stopMHz float64) error {
	query := fmt.Sprintf(`SELECT %s FROM uls WHERE rx_lat > ? AND rx_lat <= ? AND rx_lon >= ? AND rx_lon < ?
		AND stop_freq_mhz > ? AND start_freq_mhz < ?`, ulsSelectColumns)
	rows, err := l.db.Query(query, bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon, startMHz, stopMHz)
	if err != nil {
		return fmt.Errorf("fsstore: query uls window: %w", err)
	}
	defer rows.Close()
	return l.scanRows(rows, store, resolver)
}

// LoadByFSID loads a single row by its fsid (spec.md §6: "bounded ... by
// explicit FSID").
func (l *SQLiteLoader) LoadByFSID(store *Store, resolver *terrain.Resolver, fsid int) error {
	query := fmt.Sprintf(`SELECT %s FROM uls WHERE fsid = ?`, ulsSelectColumns)
	rows, err := l.db.Query(query, fsid)
	if err != nil {
		return fmt.Errorf("fsstore: query uls fsid %d: %w", fsid, err)
	}
	defer rows.Close()
	return l.scanRows(rows, store, resolver)
}

func (l *SQLiteLoader) scanRows(rows *sql.Rows, store *Store, resolver *terrain.Resolver) error {
	idx := 0
	for rows.Next() {
		idx++
		var (
			dbID, fsid                                   int
			startFreq, stopFreq, rxLat, rxLon, rxHeight   float64
			txLat, txLon, txHeight                        float64
			rxAGL, txAGL, mobile                          bool
			emission, antennaModel, antennaCategory        string
			polarization                                   string
			gain, feederLoss, noiseFigure                 float64
			numPR                                          int
			status, callsign, radioService                string
		)
		if err := rows.Scan(&dbID, &fsid, &startFreq, &stopFreq, &emission,
			&rxLat, &rxLon, &rxHeight, &rxAGL,
			&txLat, &txLon, &txHeight, &txAGL,
			&polarization, &gain, &antennaModel, &antennaCategory,
			&mobile, &feederLoss, &noiseFigure,
			&numPR, &status, &callsign, &radioService); err != nil {
			store.RecordAnomaly(Anomaly{RowIndex: idx, Reason: AnomalyMalformedRow, Detail: err.Error()})
			continue
		}

		rxTerrain := resolver.HeightAt(rxLat, rxLon)
		if !rxTerrain.HasTerrain() {
			store.RecordAnomaly(Anomaly{RowIndex: idx, FSID: fsid, Reason: AnomalyTerrainLookupFailed, Detail: "rx terrain lookup failed"})
			continue
		}
		rxAMSL := rxHeight
		if rxAGL {
			rxAMSL = rxTerrain.TerrainHeight + rxHeight
		}

		// The tx endpoint feeds fsBoresight (interference/geometry.go),
		// which derives the FS's receive-antenna pointing direction from
		// RxLocation -> TxLocation; an unresolved AGL height here would
		// silently corrupt that boresight for every link against this FS.
		txTerrain := resolver.HeightAt(txLat, txLon)
		if !txTerrain.HasTerrain() {
			store.RecordAnomaly(Anomaly{RowIndex: idx, FSID: fsid, Reason: AnomalyTerrainLookupFailed, Detail: "tx terrain lookup failed"})
			continue
		}
		txAMSL := txHeight
		if txAGL {
			txAMSL = txTerrain.TerrainHeight + txHeight
		}

		antHandle := store.AddAntenna(Antenna{
			Model:      antennaModel,
			Category:   parseCategory(antennaCategory),
			MaxGainDBi: gain,
		})

		var repeaters []PassiveRepeater
		if numPR > 0 {
			var err error
			repeaters, err = l.loadRepeaters(fsid, numPR, resolver, store)
			if err != nil {
				store.RecordAnomaly(Anomaly{RowIndex: idx, FSID: fsid, Reason: AnomalyTerrainLookupFailed, Detail: err.Error()})
				continue
			}
		}

		bandwidthMHz := decodeEmissionBandwidthMHz(emission)
		noiseFloor := NoiseFloorDBW(bandwidthMHz, noiseFigure, 290)

		fs := FS{
			DatabaseID: dbID, FSID: fsid,
			StartFreqMHz: startFreq, StopFreqMHz: stopFreq,
			EmissionDesignator: emission, BandwidthMHz: bandwidthMHz,
			RxLocation: geo.Point{LatDeg: rxLat, LonDeg: rxLon, HeightKm: rxAMSL / 1000},
			RxHeightIsAGL: rxAGL,
			TxLocation: geo.Point{LatDeg: txLat, LonDeg: txLon, HeightKm: txAMSL / 1000},
			TxHeightIsAGL: txAGL,
			Polarization: parsePolarization(polarization),
			AntennaGainDBi: gain,
			Antenna: antHandle,
			MobileFlag: mobile,
			FeederLossDB: feederLoss,
			NoiseFigureDB: noiseFigure,
			Repeaters: repeaters,
			NoiseFloorDBW: noiseFloor,
			MaxInteractionRadiusM: maxInteractionRadiusM(stopFreq - startFreq),
		}
		store.AddFS(fs)
	}
	return rows.Err()
}

// loadRepeaters queries the "pr" table for fsid's passive-repeater chain,
// resolving terrain at each hop the same way rx/tx are resolved, in chain
// order (near the FS receiver first, per seq). A terrain gap at any hop,
// or fewer pr rows than the uls row's num_passive_repeaters promises,
// fails the whole chain, since a partial chain would silently understate
// the discrimination loss interference.prChainDiscriminationDB applies.
func (l *SQLiteLoader) loadRepeaters(fsid, numPR int, resolver *terrain.Resolver, store *Store) ([]PassiveRepeater, error) {
	query := fmt.Sprintf(`SELECT %s FROM pr WHERE fsid = ? ORDER BY seq`, prSelectColumns)
	rows, err := l.db.Query(query, fsid)
	if err != nil {
		return nil, fmt.Errorf("fsstore: query pr chain for fsid %d: %w", fsid, err)
	}
	defer rows.Close()

	var chain []PassiveRepeater
	for rows.Next() {
		var (
			kind                                         string
			lat, lon, heightM                            float64
			heightAGL                                     bool
			nearModel, nearCategory                       string
			nearGain, nearAz, nearEl                      float64
			farModel, farCategory                         string
			farGain, farAz, farEl                         float64
			reflWidth, reflHeight, reflAz, reflEl, reflCurv float64
		)
		if err := rows.Scan(&kind, &lat, &lon, &heightM, &heightAGL,
			&nearModel, &nearCategory, &nearGain, &nearAz, &nearEl,
			&farModel, &farCategory, &farGain, &farAz, &farEl,
			&reflWidth, &reflHeight, &reflAz, &reflEl, &reflCurv); err != nil {
			return nil, fmt.Errorf("fsstore: malformed pr row for fsid %d: %w", fsid, err)
		}

		hopTerrain := resolver.HeightAt(lat, lon)
		if !hopTerrain.HasTerrain() {
			return nil, fmt.Errorf("fsid %d: pr terrain lookup failed at (%v, %v)", fsid, lat, lon)
		}
		amsl := heightM
		if heightAGL {
			amsl = hopTerrain.TerrainHeight + heightM
		}

		pr := PassiveRepeater{
			Kind:     parsePRKind(kind),
			Location: geo.Point{LatDeg: lat, LonDeg: lon, HeightKm: amsl / 1000},

			NearAntenna: store.AddAntenna(Antenna{Model: nearModel, Category: parseCategory(nearCategory), MaxGainDBi: nearGain}),
			FarAntenna:  store.AddAntenna(Antenna{Model: farModel, Category: parseCategory(farCategory), MaxGainDBi: farGain}),
			NearAzDeg:   nearAz, NearElDeg: nearEl,
			FarAzDeg: farAz, FarElDeg: farEl,

			ReflectorWidthM: reflWidth, ReflectorHeightM: reflHeight,
			ReflectorAzDeg: reflAz, ReflectorElDeg: reflEl,
			ReflectorCurvatureM: reflCurv,
		}
		chain = append(chain, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fsstore: iterate pr chain for fsid %d: %w", fsid, err)
	}
	if len(chain) < numPR {
		return nil, fmt.Errorf("fsid %d: num_passive_repeaters=%d but only %d pr rows found", fsid, numPR, len(chain))
	}
	return chain, nil
}

func parsePRKind(s string) PassiveRepeaterKind {
	if s == "billboard" || s == "BILLBOARD" {
		return PRBillboard
	}
	return PRBackToBack
}

func parsePolarization(s string) Polarization {
	if s == "H" || s == "h" || s == "horizontal" {
		return PolarizationHorizontal
	}
	return PolarizationVertical
}

func parseCategory(s string) AntennaCategory {
	switch s {
	case "HP":
		return CategoryHP
	case "B1":
		return CategoryB1
	default:
		return CategoryOther
	}
}

// defaultMaxInteractionRadiusM is a conservative, band-agnostic bound on
// how far an RLAN could possibly cause interference into an FS receiver
// (spec.md §4.E, "maximum interaction radius"). A real deployment would
// size this from the FS antenna gain and ITM's maximum propagation
// distance; a fixed bound large enough to cover 6 GHz ducting cases is
// kept here since the per-FS antenna pattern is not yet bound at load
// time.
const defaultMaxInteractionRadiusM = 300_000

func maxInteractionRadiusM(_ float64) float64 {
	return defaultMaxInteractionRadiusM
}
