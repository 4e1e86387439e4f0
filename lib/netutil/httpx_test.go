// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"strings"
	"testing"
)

func TestDecodeResponse(t *testing.T) {
	var decoded struct {
		Email string `json:"email"`
	}
	err := DecodeResponse(strings.NewReader(`{"email":"oncall@example.com"}`), &decoded)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if decoded.Email != "oncall@example.com" {
		t.Errorf("email = %q, want %q", decoded.Email, "oncall@example.com")
	}
}

func TestDecodeResponseInvalidJSON(t *testing.T) {
	var decoded map[string]any
	if err := DecodeResponse(strings.NewReader("not json"), &decoded); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestErrorBodyIgnoresReadErrors(t *testing.T) {
	if got := ErrorBody(strings.NewReader("upstream exploded")); got != "upstream exploded" {
		t.Errorf("ErrorBody = %q", got)
	}
}
