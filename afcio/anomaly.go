package afcio

import (
	"github.com/google/uuid"

	"github.com/afc6ghz/engine/fsstore"
)

// AnomalyReport is one anomaly-list entry for the side-output file
// spec.md §7 names ("Anomaly: per-FS data issues; collected into an
// anomaly list and skipped"). ID tags each report so a caller rendering
// the file can cross-reference it against a log line without re-deriving
// a key from mutable fields.
type AnomalyReport struct {
	ID       string
	RowIndex int
	FSID     int
	Reason   string
	Detail   string
}

func anomalyReasonString(r fsstore.AnomalyReason) string {
	switch r {
	case fsstore.AnomalyMalformedRow:
		return "malformedRow"
	case fsstore.AnomalyTerrainLookupFailed:
		return "terrainLookupFailed"
	case fsstore.AnomalyUnresolvedAntenna:
		return "unresolvedAntenna"
	default:
		return "unknown"
	}
}

// BuildAnomalyReports converts the store's recorded anomalies into the
// wire shape, assigning each a fresh UUID.
func BuildAnomalyReports(anomalies []fsstore.Anomaly) []AnomalyReport {
	out := make([]AnomalyReport, len(anomalies))
	for i, a := range anomalies {
		out[i] = AnomalyReport{
			ID:       uuid.NewString(),
			RowIndex: a.RowIndex,
			FSID:     a.FSID,
			Reason:   anomalyReasonString(a.Reason),
			Detail:   a.Detail,
		}
	}
	return out
}
