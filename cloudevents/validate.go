package cloudevents

import (
	"net/url"
	"strings"
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validURIReference(s string) bool {
	_, err := url.Parse(s)
	return err == nil
}

func validAbsoluteURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

// validContentType accepts application/json and any "+json" media type,
// ignoring parameters and case.
func validContentType(s string) bool {
	mediaType, _, _ := strings.Cut(s, ";")
	mediaType = strings.TrimSpace(mediaType)
	if strings.EqualFold(mediaType, ContentTypeJSON) {
		return true
	}
	return len(mediaType) >= len("+json") &&
		strings.EqualFold(mediaType[len(mediaType)-len("+json"):], "+json")
}
