// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now,
// time.After, or time.Sleep directly. In production, Real() provides the
// standard library behavior. In tests, Fake() provides a deterministic
// clock that advances only when Advance is called.
//
// The break-glass window check is the main consumer: its boundary
// behavior (a request exactly at the window edge must pass) is only
// testable with a clock that stands still.
package clock
