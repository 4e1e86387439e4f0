// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// VerifyWebhookHMAC verifies an HMAC-SHA256 signature on a webhook
// payload. The signature header may carry multiple comma-separated
// values, each optionally prefixed with a version tag ("v1=..." as
// PagerDuty sends, or "sha256=..."). Verification succeeds if any
// value matches.
//
// Returns nil if a signature is valid, or an error describing the
// verification failure. The error message is safe to log but does not
// include the expected signature, to avoid leaking the secret.
func VerifyWebhookHMAC(secret, body []byte, signatureHeader string) error {
	if len(secret) == 0 {
		return errors.New("webhook HMAC: secret is empty")
	}
	if len(body) == 0 {
		return errors.New("webhook HMAC: body is empty")
	}
	if signatureHeader == "" {
		return errors.New("webhook HMAC: signature is empty")
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	for _, candidate := range strings.Split(signatureHeader, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "v1=")
		candidate = strings.TrimPrefix(candidate, "sha256=")

		signatureBytes, err := hex.DecodeString(candidate)
		if err != nil {
			return fmt.Errorf("webhook HMAC: invalid hex signature: %w", err)
		}
		if subtle.ConstantTimeCompare(expected, signatureBytes) == 1 {
			return nil
		}
	}
	return errors.New("webhook HMAC: signature mismatch")
}
