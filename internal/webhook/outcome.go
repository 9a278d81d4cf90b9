package webhook

import "net/http"

// Outcome is the terminal result of authenticating one notification.
type Outcome int

const (
	Accepted Outcome = iota
	RejectedMissingTimestamp
	RejectedMalformedTimestamp
	RejectedStaleTimestamp
	RejectedMissingSignature
	RejectedInvalidSignature
	RejectedSecretUnavailable
)

var outcomeCodes = map[Outcome]string{
	Accepted:                   "accepted",
	RejectedMissingTimestamp:   "missing_timestamp",
	RejectedMalformedTimestamp: "malformed_timestamp",
	RejectedStaleTimestamp:     "stale_timestamp",
	RejectedMissingSignature:   "missing_signature",
	RejectedInvalidSignature:   "invalid_signature",
	RejectedSecretUnavailable:  "secret_unavailable",
}

var outcomeMessages = map[Outcome]string{
	Accepted:                   "accepted",
	RejectedMissingTimestamp:   "missing " + HeaderTimestamp + " header",
	RejectedMalformedTimestamp: HeaderTimestamp + " is not a unix millisecond timestamp",
	RejectedStaleTimestamp:     HeaderTimestamp + " outside allowed window",
	RejectedMissingSignature:   "missing " + HeaderSignature + " header",
	RejectedInvalidSignature:   "invalid signature",
	RejectedSecretUnavailable:  "webhook signing secret not provisioned",
}

func (o Outcome) IsAccepted() bool { return o == Accepted }

// Code is the machine-readable reason reported to the sender.
func (o Outcome) Code() string {
	if c, ok := outcomeCodes[o]; ok {
		return c
	}
	return "unknown"
}

func (o Outcome) Message() string {
	if m, ok := outcomeMessages[o]; ok {
		return m
	}
	return "unknown outcome"
}

func (o Outcome) String() string { return o.Code() }

// StatusCode maps the outcome to the HTTP status returned to the provider.
// A missing secret is our fault, not the sender's.
func (o Outcome) StatusCode() int {
	switch o {
	case Accepted:
		return http.StatusNoContent
	case RejectedSecretUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
