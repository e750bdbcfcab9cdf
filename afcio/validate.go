package afcio

import (
	"fmt"
	"slices"
)

// RequestError is an input-validation failure that already carries the
// exact ResponseCode spec.md §6 names for it, rather than the coarser
// engine.InputError taxonomy — validation happens entirely at this
// boundary, before an engine.Manager run ever starts.
type RequestError struct {
	Code   ResponseCode
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// ValidateInquiry checks the structural requirements spec.md §6 and §7
// name before an Inquiry is handed to the engine: a recognized version
// tag, the required identifying fields, at least one requested frequency
// range or channel, and that every inquired channel names a supported
// operating class.
func ValidateInquiry(inq Inquiry, supportedVersions []string) error {
	if len(supportedVersions) > 0 && !slices.Contains(supportedVersions, inq.VersionTag) {
		return &RequestError{Code: ResponseVersionNotSupported, Detail: fmt.Sprintf("version %q not recognized", inq.VersionTag)}
	}
	if inq.RequestID == "" {
		return &RequestError{Code: ResponseMissingParam, Detail: "requestId is required"}
	}
	if inq.Device.SerialNumber == "" {
		return &RequestError{Code: ResponseMissingParam, Detail: "device serialNumber is required"}
	}
	if len(inq.InquiredFrequencyRanges) == 0 && len(inq.InquiredChannels) == 0 {
		return &RequestError{Code: ResponseMissingParam, Detail: "at least one inquiredFrequencyRange or inquiredChannel is required"}
	}
	for _, r := range inq.InquiredFrequencyRanges {
		if r.LowMHz >= r.HighMHz {
			return &RequestError{Code: ResponseInvalidValue, Detail: fmt.Sprintf("inquiredFrequencyRange [%g, %g) is not a valid range", r.LowMHz, r.HighMHz)}
		}
	}
	for _, c := range inq.InquiredChannels {
		if _, ok := opClassBandwidthMHz[c.OpClass]; !ok {
			return &RequestError{Code: ResponseUnsupportedSpectrum, Detail: fmt.Sprintf("operating class %d is not supported", c.OpClass)}
		}
	}
	return nil
}
