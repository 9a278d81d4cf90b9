package webhook

import (
	"context"
	"strings"
	"time"

	"github.com/garrettladley/revhook/internal/xslog"
)

// SecretSource supplies the secrets valid at a given instant.
type SecretSource interface {
	Valid(now time.Time) []Secret
}

var _ SecretSource = (*Store)(nil)

// Authenticator decides whether a notification may be trusted. It holds no
// mutable state and is safe for concurrent use.
type Authenticator struct {
	secrets SecretSource
}

func NewAuthenticator(secrets SecretSource) *Authenticator {
	return &Authenticator{secrets: secrets}
}

// Authenticate checks secret availability, then the timestamp, then the
// signature, and returns the first failure. A missing secret wins over any
// header problem so misconfiguration is never reported as a client error.
// The body is trusted only when the result is Accepted.
func (a *Authenticator) Authenticate(ctx context.Context, n Notification) Outcome {
	logger := xslog.FromContext(ctx)

	secrets := a.secrets.Valid(n.ReceivedAt)
	if len(secrets) == 0 {
		return RejectedSecretUnavailable
	}

	timestamp := headerValue(n.Header, HeaderTimestamp)
	skew, outcome := checkTimestamp(timestamp, n.ReceivedAt)
	if outcome != Accepted {
		if outcome == RejectedStaleTimestamp {
			logger.DebugContext(ctx, "webhook timestamp outside window", xslog.Skew(skew))
		}
		return outcome
	}

	signature := strings.Join(headerValues(n.Header, HeaderSignature), ",")
	outcome = VerifySignature(signature, timestamp, n.Body, secrets...)

	logger.DebugContext(ctx, "webhook authenticated",
		xslog.Outcome(outcome.Code()),
		xslog.Skew(skew),
		xslog.Count(len(secrets)),
	)
	return outcome
}
