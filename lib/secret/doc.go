// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for sensitive data:
// API tokens, signing secrets, and routing keys.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS)
// and locks it into physical RAM via mlock, preventing swap. On Close,
// the memory is zeroed, unlocked, and unmapped. Because the memory
// lives outside the Go heap, the garbage collector cannot copy or
// relocate it, so token material does not linger after release.
//
// [ReadFromPath] is the standard way Firewatch binaries load
// credentials: each config entry names a file holding one secret, read
// once at startup.
//
// Depends on golang.org/x/sys/unix. No Firewatch-internal dependencies.
package secret
