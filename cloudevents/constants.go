package cloudevents

import "strings"

// Protocol constants.
const (
	// SpecVersion is the only CloudEvents version understood by this package.
	SpecVersion = "1.0"

	// ContentTypeJSON is written as datacontenttype whenever data is emitted.
	ContentTypeJSON = "application/json"

	// ContentTypeCloudEventsJSON is the structured-mode media type of an envelope.
	ContentTypeCloudEventsJSON = "application/cloudevents+json"

	// OutcomeAttribute is the extension attribute that discriminates success
	// from failure.
	OutcomeAttribute = "lroutcome"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Standard attribute names.
const (
	AttrSpecVersion     = "specversion"
	AttrType            = "type"
	AttrSource          = "source"
	AttrSubject         = "subject"
	AttrID              = "id"
	AttrTime            = "time"
	AttrDataContentType = "datacontenttype"
	AttrDataSchema      = "dataschema"
	AttrData            = "data"
	AttrDataBase64      = "data_base64"
)

var standardAttributes = map[string]struct{}{
	AttrSpecVersion:     {},
	AttrType:            {},
	AttrSource:          {},
	AttrSubject:         {},
	AttrID:              {},
	AttrTime:            {},
	AttrDataContentType: {},
	AttrDataSchema:      {},
	AttrData:            {},
	AttrDataBase64:      {},
}

// IsStandardAttribute reports whether name is defined by the CloudEvents
// core specification. The comparison is exact.
func IsStandardAttribute(name string) bool {
	_, ok := standardAttributes[name]
	return ok
}

// IsReservedAttribute reports whether name may never be produced by attribute
// conversion. The comparison ignores case.
func IsReservedAttribute(name string) bool {
	return strings.EqualFold(name, AttrData) ||
		strings.EqualFold(name, AttrDataBase64) ||
		strings.EqualFold(name, OutcomeAttribute)
}

// isExtensionName reports whether name consists of lowercase ASCII letters
// and digits only.
func isExtensionName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
