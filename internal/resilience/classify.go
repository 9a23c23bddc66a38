package resilience

import "strings"

// fatalMarkers is the fallback for errors nobody tagged, e.g. SDK errors that
// only carry a message.
var fatalMarkers = []string{
	"401",
	"api key not valid",
	"quota",
	"404",
	"unauthorized",
	"not found",
}

// IsFatal reports whether retrying err is pointless: bad or missing
// credentials, exhausted quota or a missing resource.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if kind, ok := KindOf(err); ok {
		return kind != Transient
	}
	msg := strings.ToLower(err.Error())
	for _, m := range fatalMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
