package afcio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/afc6ghz/engine/fsstore"
)

func TestBuildAnomalyReportsAssignsDistinctIDs(t *testing.T) {
	reports := BuildAnomalyReports([]fsstore.Anomaly{
		{RowIndex: 1, FSID: 10, Reason: fsstore.AnomalyMalformedRow, Detail: "bad lat"},
		{RowIndex: 2, Reason: fsstore.AnomalyUnresolvedAntenna, Detail: "antenna missing"},
	})
	assert.Len(t, reports, 2)
	assert.NotEqual(t, reports[0].ID, reports[1].ID)
	assert.Equal(t, "malformedRow", reports[0].Reason)
	assert.Equal(t, "unresolvedAntenna", reports[1].Reason)
}
