package webhook

import (
	"strconv"
	"strings"
	"time"
)

// Tolerance is the replay window on either side of the receipt time.
const Tolerance = 5 * time.Minute

// ValidateTimestamp checks a Revolut-Request-Timestamp value (unix
// milliseconds) against now.
func ValidateTimestamp(value string, now time.Time) Outcome {
	_, outcome := checkTimestamp(value, now)
	return outcome
}

// checkTimestamp also returns the signed skew (now - sent) for diagnostics.
func checkTimestamp(value string, now time.Time) (time.Duration, Outcome) {
	if strings.TrimSpace(value) == "" {
		return 0, RejectedMissingTimestamp
	}

	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, RejectedMalformedTimestamp
	}

	// Sub saturates instead of overflowing, so compare both bounds rather
	// than taking an absolute value.
	skew := now.Sub(time.UnixMilli(ms))
	if skew > Tolerance || skew < -Tolerance {
		return skew, RejectedStaleTimestamp
	}
	return skew, Accepted
}
