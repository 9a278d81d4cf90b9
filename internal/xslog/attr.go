package xslog

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/garrettladley/revhook/internal/version"
	"github.com/garrettladley/revhook/internal/xhttp"
)

func Error(err error) slog.Attr {
	const errorKey = "error"
	return slog.String(errorKey, err.Error())
}

func RequestID(requestID string) slog.Attr {
	const requestIDKey = "request_id"
	return slog.String(requestIDKey, requestID)
}

func Stack() slog.Attr {
	const stackKey = "stack"
	return slog.String(stackKey, string(debug.Stack()))
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func RequestMethod(r *http.Request) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, r.Method)
}

func RequestPath(r *http.Request) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, r.URL.Path)
}

func IP(ip string) slog.Attr {
	const ipKey = "ip"
	return slog.String(ipKey, ip)
}

func RequestIP(r *http.Request) slog.Attr {
	return IP(xhttp.GetRequestIP(r))
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func Outcome(code string) slog.Attr {
	const outcomeKey = "outcome"
	return slog.String(outcomeKey, code)
}

// Skew is the difference between receipt time and the sender's timestamp.
func Skew(skew time.Duration) slog.Attr {
	const skewKey = "skew"
	return slog.Duration(skewKey, skew)
}

func EventType(eventType string) slog.Attr {
	const eventTypeKey = "event_type"
	return slog.String(eventTypeKey, eventType)
}

func OrderID(id string) slog.Attr {
	const orderIDKey = "order_id"
	return slog.String(orderIDKey, id)
}

func WebhookID(id string) slog.Attr {
	const webhookIDKey = "webhook_id"
	return slog.String(webhookIDKey, id)
}

func URL(u string) slog.Attr {
	const urlKey = "url"
	return slog.String(urlKey, u)
}

// SecretFingerprint logs a secret by fingerprint only.
func SecretFingerprint(fingerprint string) slog.Attr {
	const fingerprintKey = "secret_fingerprint"
	return slog.String(fingerprintKey, fingerprint)
}

func Attempt(n int) slog.Attr {
	const attemptKey = "attempt"
	return slog.Int(attemptKey, n)
}

func Backoff(d time.Duration) slog.Attr {
	const backoffKey = "backoff"
	return slog.Duration(backoffKey, d)
}
