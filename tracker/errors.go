// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a looked-up incident does not exist or is
// no longer active. It is an expected outcome, not a failure: the
// break-glass window check treats it as "no incident for this
// channel".
var ErrNotFound = errors.New("tracker: not found")

// APIError represents a non-2xx response from the tracker API.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the error description from the API, or the raw
	// response body when the error was not structured JSON.
	Message string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("tracker: HTTP %d: %s", err.StatusCode, err.Message)
}

// IsNotFound reports whether err is ErrNotFound or an API 404.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 404
}
