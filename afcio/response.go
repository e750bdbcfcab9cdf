package afcio

import "github.com/afc6ghz/engine/interference"

// ResponseCode is spec.md §6's
// `responseCode∈{success=0, versionNotSupported=100, deviceDisallowed=101,
// missingParam=102, invalidValue=103, unexpectedParam=106,
// unsupportedSpectrum=300, generalFailure=-1}`.
type ResponseCode int

const (
	ResponseSuccess              ResponseCode = 0
	ResponseVersionNotSupported  ResponseCode = 100
	ResponseDeviceDisallowed     ResponseCode = 101
	ResponseMissingParam         ResponseCode = 102
	ResponseInvalidValue         ResponseCode = 103
	ResponseUnexpectedParam      ResponseCode = 106
	ResponseUnsupportedSpectrum  ResponseCode = 300
	ResponseGeneralFailure       ResponseCode = -1
)

func (c ResponseCode) String() string {
	switch c {
	case ResponseSuccess:
		return "success"
	case ResponseVersionNotSupported:
		return "versionNotSupported"
	case ResponseDeviceDisallowed:
		return "deviceDisallowed"
	case ResponseMissingParam:
		return "missingParam"
	case ResponseInvalidValue:
		return "invalidValue"
	case ResponseUnexpectedParam:
		return "unexpectedParam"
	case ResponseUnsupportedSpectrum:
		return "unsupportedSpectrum"
	case ResponseGeneralFailure:
		return "generalFailure"
	default:
		return "unknown"
	}
}

// AvailableChannelInfo is one entry of spec.md §6's
// `availableChannelInfo[]`.
type AvailableChannelInfo struct {
	OpClass      int                       `json:"globalOperatingClass"`
	Index        int                       `json:"channelCfi"`
	Availability interference.Availability `json:"-"`
	EIRPDBm      float64                   `json:"maxEirp"`
}

// AvailableFrequencyInfo is one PSD-aggregation segment of spec.md §6's
// `availableFrequencyInfo[]`.
type AvailableFrequencyInfo struct {
	LowMHz          float64 `json:"lowFrequency"`
	HighMHz         float64 `json:"highFrequency"`
	Invalid         bool    `json:"-"`
	MaxPSDDBmPerMHz float64 `json:"maxPsd"`
}

// OpClassEIRPMask is the per-operating-class EIRP mask spec.md §6 names
// alongside the per-channel list, summarizing the tightest EIRP ceiling
// across the Available channels of that class; a class with no Available
// channel gets no mask entry.
type OpClassEIRPMask struct {
	OpClass    int     `json:"globalOperatingClass"`
	MaxEIRPDBm float64 `json:"maxEirp"`
}

// VendorExtension is the optional opaque extension block spec.md §6
// allows; the engine never interprets it, only carries it through.
type VendorExtension struct {
	ExtensionID string            `json:"extensionId"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}

// Response is spec.md §6's full output document.
type Response struct {
	RequestID       string       `json:"requestId"`
	ResponseCode    ResponseCode `json:"responseCode"`
	ResponseMessage string       `json:"shortDescription,omitempty"`

	AvailableChannelInfo   []AvailableChannelInfo   `json:"availableChannelInfo,omitempty"`
	AvailableFrequencyInfo []AvailableFrequencyInfo `json:"availableFrequencyInfo,omitempty"`
	EIRPMasks              []OpClassEIRPMask        `json:"availableChannelMask,omitempty"`

	VendorExtension *VendorExtension `json:"vendorExtensions,omitempty"`
}
