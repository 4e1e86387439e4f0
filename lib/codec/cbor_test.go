// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{"zeta": 1, "alpha": 2, "mid": 3}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same map produced different encodings")
	}
}

func TestUnmarshalUnknownFields(t *testing.T) {
	encoded, err := Marshal(map[string]any{"action": "status", "future_field": true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		Action string `cbor:"action"`
	}
	if err := Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Action != "status" {
		t.Errorf("action = %q, want %q", decoded.Action, "status")
	}
}

func TestAnyTargetMapType(t *testing.T) {
	encoded, err := Marshal(map[string]any{"members": []string{"a@example.com"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
}
