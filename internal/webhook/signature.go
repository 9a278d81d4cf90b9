package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	signingVersion  = "v1"
	signaturePrefix = signingVersion + "="
)

// Sign returns the Revolut-Signature value for body sent at timestamp.
func Sign(secret Secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signingVersion + "." + timestamp + "."))
	_, _ = mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature accepts when any comma-separated candidate in header equals
// the expected tag under any of secrets. Every candidate is compared with
// hmac.Equal; malformed candidates simply never match.
func VerifySignature(header, timestamp string, body []byte, secrets ...Secret) Outcome {
	if strings.TrimSpace(header) == "" {
		return RejectedMissingSignature
	}
	if len(secrets) == 0 {
		return RejectedSecretUnavailable
	}

	candidates := parseCandidates(header)

	matched := false
	for _, secret := range secrets {
		expected := []byte(Sign(secret, timestamp, body))
		for _, candidate := range candidates {
			if hmac.Equal(expected, []byte(candidate)) {
				matched = true
			}
		}
	}

	if !matched {
		return RejectedInvalidSignature
	}
	return Accepted
}

func parseCandidates(header string) []string {
	parts := strings.Split(header, ",")
	candidates := make([]string, 0, len(parts))
	for _, part := range parts {
		if c := strings.TrimSpace(part); c != "" {
			candidates = append(candidates, c)
		}
	}
	return candidates
}
