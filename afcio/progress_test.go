package afcio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressWriterReportFormatsPercentAndMessage(t *testing.T) {
	var buf bytes.Buffer
	w := NewProgressWriter(&buf)
	assert.NoError(t, w.Report(42, "scanning region"))
	assert.Equal(t, "42\nscanning region\n", buf.String())
}

func TestProgressWriterClampsPercent(t *testing.T) {
	var buf bytes.Buffer
	w := NewProgressWriter(&buf)
	assert.NoError(t, w.Report(150, "done"))
	assert.Equal(t, "100\ndone\n", buf.String())

	buf.Reset()
	assert.NoError(t, w.Report(-5, "starting"))
	assert.Equal(t, "0\nstarting\n", buf.String())
}
