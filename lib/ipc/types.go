// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package ipc defines the request/response types spoken on the
// firewatch-bot admin socket. The transport is a local Unix socket;
// each connection carries one CBOR-encoded Request followed by one
// CBOR-encoded Response (lib/codec).
package ipc

// Actions accepted on the admin socket.
const (
	// ActionStatus reports daemon health and configuration summary.
	ActionStatus = "status"

	// ActionMembers lists the current elevated-access group members.
	ActionMembers = "members"

	// ActionReconcile runs a membership reconciliation for the given
	// channel, as if that channel's incident had just resolved.
	ActionReconcile = "reconcile"
)

// Request is an operator command sent by the firewatch CLI.
type Request struct {
	// Action is one of the Action constants.
	Action string `cbor:"action"`

	// ChannelID is the resolved incident channel for ActionReconcile.
	ChannelID string `cbor:"channel_id,omitempty"`
}

// Response is the daemon's reply.
type Response struct {
	// OK reports whether the action succeeded. When false, Error
	// holds a human-readable description.
	OK    bool   `cbor:"ok"`
	Error string `cbor:"error,omitempty"`

	// Status is set for ActionStatus.
	Status *Status `cbor:"status,omitempty"`

	// Members is set for ActionMembers.
	Members []string `cbor:"members,omitempty"`
}

// Status summarizes the running daemon.
type Status struct {
	Version         string `cbor:"version"`
	DryRun          bool   `cbor:"dry_run"`
	ActiveIncidents int    `cbor:"active_incidents"`
}
