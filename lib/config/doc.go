// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Firewatch binaries.
//
// Configuration is loaded from a single YAML file specified by:
//   - FIREWATCH_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
//
// Secrets (API tokens, signing secrets, routing keys) are never stored
// inline: each secret entry is a path to a file holding the value,
// read at startup via lib/secret.
package config
