package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/revhook/internal/version"
)

type revhookTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*revhookTransport)(nil)

func (t *revhookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(UserAgent, version.UserAgent())
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper that stamps the revhook User-Agent.
func NewTransport() http.RoundTripper {
	return &revhookTransport{base: http.DefaultTransport}
}
