// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"os"
)

// ReadFromPath reads a secret from a file path. Leading and trailing
// whitespace is trimmed before storing (credential files commonly end
// with a newline). Returns an error if the file is empty after
// trimming. The returned buffer must be closed by the caller.
func ReadFromPath(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret: %s is empty", path)
	}

	// NewFromBytes copies into protected memory and zeros trimmed,
	// which aliases data. Zero the rest (whitespace prefix/suffix).
	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
