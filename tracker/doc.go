// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracker is the incident tracker client. The primary
// implementation speaks the PagerDuty REST v2 API (listing active
// incidents, resolving per-incident metadata, resolving user emails)
// and the Events v2 API (paging the on-call incident manager). An
// optional Opsgenie client provides a second pager.
//
// Incident metadata flows through alert custom details: when Firewatch
// pages the incident manager it attaches the incident's chat channel
// to the event, and every later lookup (break-glass window checks,
// membership reconciliation) reads it back from the incident's first
// alert. The tracker is the sole source of truth for which incidents
// are active; nothing is cached between calls.
package tracker
