// Package webhook authenticates Revolut Merchant webhook deliveries.
//
// A delivery is accepted only when its Revolut-Request-Timestamp is within
// Tolerance of the receipt time and one of the tags in Revolut-Signature is a
// valid HMAC-SHA256 over "v1.{timestamp}.{raw body}" under a currently valid
// signing secret.
package webhook

import (
	"net/http"
	"strings"
	"time"
)

const (
	HeaderTimestamp = "Revolut-Request-Timestamp"
	HeaderSignature = "Revolut-Signature"
)

// Notification is one inbound delivery. Body must be the exact bytes received.
type Notification struct {
	Header     http.Header
	Body       []byte
	ReceivedAt time.Time
}

// headerValues looks name up case-insensitively. http.Header.Get only
// matches canonical keys, so maps built by hand are scanned as a fallback.
func headerValues(h http.Header, name string) []string {
	if vs := h.Values(name); len(vs) > 0 {
		return vs
	}
	for k, vs := range h {
		if strings.EqualFold(k, name) && len(vs) > 0 {
			return vs
		}
	}
	return nil
}

func headerValue(h http.Header, name string) string {
	vs := headerValues(h, name)
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
