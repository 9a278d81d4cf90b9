package revolut

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	go_json "github.com/goccy/go-json"
)

type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("revolut api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("revolut api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the Merchant API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func parseAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}

	if err := go_json.Unmarshal(body, &errResp); err != nil {
		msg := string(body)
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	msg := errResp.Message
	if msg == "" {
		msg = resp.Status
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       errResp.Code,
		Message:    msg,
	}
}
