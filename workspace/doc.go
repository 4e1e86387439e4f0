// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package workspace is the client for the Google Workspace sidecar
// service. The sidecar holds the Google service-account credentials
// and exposes a small private REST API; Firewatch talks only to the
// sidecar, never to Google directly.
//
// Three capability groups:
//
//   - Access group: add, remove, list, and clear members of the
//     elevated-access ("break-glass") Workspace group. This is the
//     only mutable shared resource in the system; it is never
//     read-modify-written, only appended to, removed from, or
//     cleared.
//   - Calendar: register an incident event with conference (video +
//     phone) entry points.
//   - Drive: create the incident notes document in the configured
//     folder.
package workspace
