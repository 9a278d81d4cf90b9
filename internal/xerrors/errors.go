package xerrors

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

type Error struct {
	StatusCode int
	// Code is a stable, machine-readable reason such as "invalid_signature".
	Code      string
	Message   string
	Cause     error
	RateLimit *RateLimitInfo
}

type RateLimitInfo struct {
	RetryAfter time.Duration
	Reason     string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func BadRequest(opts ...Option) *Error { return newErr(http.StatusBadRequest, opts) }
func RequestEntityTooLarge(opts ...Option) *Error {
	return newErr(http.StatusRequestEntityTooLarge, opts)
}
func Internal(opts ...Option) *Error           { return newErr(http.StatusInternalServerError, opts) }
func ServiceUnavailable(opts ...Option) *Error { return newErr(http.StatusServiceUnavailable, opts) }
func TooManyRequests(opts ...Option) *Error    { return newErr(http.StatusTooManyRequests, opts) }

// New builds an error for an arbitrary status.
func New(status int, opts ...Option) *Error { return newErr(status, opts) }

func newErr(status int, opts []Option) *Error {
	text := strings.ToLower(http.StatusText(status))
	e := &Error{
		StatusCode: status,
		Code:       strings.ReplaceAll(text, " ", "_"),
		Message:    text,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Option func(*Error)

func WithMessage(msg string) Option { return func(e *Error) { e.Message = msg } }
func WithCode(code string) Option   { return func(e *Error) { e.Code = code } }
func WithCause(err error) Option    { return func(e *Error) { e.Cause = err } }
func WithRetryAfter(d time.Duration) Option {
	return func(e *Error) {
		if e.RateLimit == nil {
			e.RateLimit = &RateLimitInfo{}
		}
		e.RateLimit.RetryAfter = d
	}
}

func WithReason(reason string) Option {
	return func(e *Error) {
		if e.RateLimit == nil {
			e.RateLimit = &RateLimitInfo{}
		}
		e.RateLimit.Reason = reason
	}
}

func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
