package afcio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInquiry() Inquiry {
	return Inquiry{
		RequestID:    "req-1",
		Device:       DeviceDescriptor{SerialNumber: "sn-1"},
		VersionTag:   "1.4",
		InquiredFrequencyRanges: []InquiredFrequencyRange{{LowMHz: 5925, HighMHz: 6425}},
	}
}

func TestValidateInquiryAcceptsAWellFormedRequest(t *testing.T) {
	assert.NoError(t, ValidateInquiry(validInquiry(), []string{"1.4"}))
}

func TestValidateInquiryRejectsUnrecognizedVersion(t *testing.T) {
	inq := validInquiry()
	inq.VersionTag = "9.9"
	err := ValidateInquiry(inq, []string{"1.4"})
	var re *RequestError
	if assert.True(t, errors.As(err, &re)) {
		assert.Equal(t, ResponseVersionNotSupported, re.Code)
	}
}

func TestValidateInquiryRejectsMissingRequestID(t *testing.T) {
	inq := validInquiry()
	inq.RequestID = ""
	err := ValidateInquiry(inq, nil)
	var re *RequestError
	if assert.True(t, errors.As(err, &re)) {
		assert.Equal(t, ResponseMissingParam, re.Code)
	}
}

func TestValidateInquiryRejectsEmptyRequest(t *testing.T) {
	inq := validInquiry()
	inq.InquiredFrequencyRanges = nil
	err := ValidateInquiry(inq, nil)
	var re *RequestError
	if assert.True(t, errors.As(err, &re)) {
		assert.Equal(t, ResponseMissingParam, re.Code)
	}
}

func TestValidateInquiryRejectsInvalidFrequencyRange(t *testing.T) {
	inq := validInquiry()
	inq.InquiredFrequencyRanges = []InquiredFrequencyRange{{LowMHz: 6000, HighMHz: 5900}}
	err := ValidateInquiry(inq, nil)
	var re *RequestError
	if assert.True(t, errors.As(err, &re)) {
		assert.Equal(t, ResponseInvalidValue, re.Code)
	}
}

func TestValidateInquiryRejectsUnsupportedOperatingClass(t *testing.T) {
	inq := validInquiry()
	inq.InquiredChannels = []InquiredChannel{{OpClass: 42, Indices: []int{1}}}
	err := ValidateInquiry(inq, nil)
	var re *RequestError
	if assert.True(t, errors.As(err, &re)) {
		assert.Equal(t, ResponseUnsupportedSpectrum, re.Code)
	}
}
