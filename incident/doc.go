// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package incident drives the incident lifecycle: opening an incident
// (channel, page, conference call, notes, follow-up epic,
// announcements), reacting to the incident manager's acknowledgement,
// and revoking access-group membership when an incident resolves.
//
// Revocation is a set difference: members of the resolved incident's
// channel lose access unless some still-active incident's channel
// also contains them. With no incidents left active the whole group
// is cleared instead.
package incident
