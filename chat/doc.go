// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat is Firewatch's Slack surface: channel lifecycle,
// membership and profile lookups, and the rich incident messages the
// bot posts. The core packages (breakglass, incident) consume narrow
// interfaces satisfied by Client; Fake satisfies the same interfaces
// for their tests.
package chat
