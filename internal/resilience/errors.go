package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind tags a remote failure with whether retrying can change the outcome.
type Kind int

const (
	Transient Kind = iota
	Unauthorized
	QuotaExceeded
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case QuotaExceeded:
		return "quota_exceeded"
	case NotFound:
		return "not_found"
	default:
		return "transient"
	}
}

// RemoteError is returned by every integration client. Call sites assign
// the Kind from the status code they observed.
type RemoteError struct {
	Service    string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Service, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// KindFromStatus maps an HTTP status code to a Kind.
func KindFromStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return Unauthorized
	case http.StatusTooManyRequests:
		return QuotaExceeded
	case http.StatusNotFound:
		return NotFound
	default:
		return Transient
	}
}

// invalidKeyMarkers identify a rejected credential reported as a plain 400,
// which is how Gemini answers a malformed or revoked API key.
var invalidKeyMarkers = []string{"api key not valid", "api_key_invalid"}

// FromStatus builds a RemoteError for a non-2xx response. The body is
// trimmed so that vendor error payloads stay readable in logs.
func FromStatus(service string, status int, body []byte) *RemoteError {
	kind := KindFromStatus(status)
	if status == http.StatusBadRequest {
		lower := strings.ToLower(string(body))
		for _, m := range invalidKeyMarkers {
			if strings.Contains(lower, m) {
				kind = Unauthorized
				break
			}
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &RemoteError{
		Service:    service,
		Kind:       kind,
		StatusCode: status,
		Err:        errors.New(msg),
	}
}

// Tag wraps err with an explicit Kind.
func Tag(service string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Service: service, Kind: kind, Err: err}
}

// KindOf extracts the Kind of a tagged error.
func KindOf(err error) (Kind, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return Transient, false
}

// IsTransport reports whether err never reached the remote server (dial,
// DNS, TLS, reset, client timeout). Tagged errors with a status code and
// cancelled requests are never transport failures.
func IsTransport(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var re *RemoteError
	if errors.As(err, &re) && re.StatusCode > 0 {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection refused", "no such host", "connection reset", "tls:"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
