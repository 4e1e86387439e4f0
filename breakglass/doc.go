// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package breakglass grants emergency access-group membership during
// an active incident.
//
// A request passes through four preconditions: the justification is
// long enough, at least one incident is active, the request was made
// in a channel the bot created, and the incident is young enough.
// All four are evaluated on every request so the requester learns
// everything wrong with their request at once. Every lookup failure
// counts against the request: when the authorizer cannot prove a
// precondition holds, it denies.
package breakglass
