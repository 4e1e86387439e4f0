// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/firewatch-foundation/firewatch/lib/codec"
	"github.com/firewatch-foundation/firewatch/lib/ipc"
	"github.com/firewatch-foundation/firewatch/lib/version"
)

// serveAdmin listens on the admin socket until the context is
// cancelled. Each connection carries one CBOR request and one CBOR
// response.
func (b *bot) serveAdmin(ctx context.Context) (<-chan struct{}, error) {
	// A stale socket from a previous run blocks the bind.
	if err := os.Remove(b.config.AdminSocket); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("removing stale admin socket: %w", err)
	}

	listener, err := net.Listen("unix", b.config.AdminSocket)
	if err != nil {
		return nil, fmt.Errorf("listening on admin socket: %w", err)
	}

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	go func() {
		defer close(done)
		defer os.Remove(b.config.AdminSocket)
		for {
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				b.logger.Error("admin socket accept", "error", err)
				return
			}
			go b.handleAdminConn(ctx, conn)
		}
	}()
	return done, nil
}

func (b *bot) handleAdminConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(time.Minute))

	var request ipc.Request
	if err := codec.NewDecoder(conn).Decode(&request); err != nil {
		b.logger.Warn("admin socket: bad request", "error", err)
		return
	}

	response := b.handleAdminRequest(ctx, request)
	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		b.logger.Warn("admin socket: writing response", "error", err)
	}
}

func (b *bot) handleAdminRequest(ctx context.Context, request ipc.Request) ipc.Response {
	fail := func(err error) ipc.Response {
		return ipc.Response{Error: err.Error()}
	}

	switch request.Action {
	case ipc.ActionStatus:
		incidents, err := b.tracker.ListActiveIncidents(ctx)
		if err != nil {
			return fail(err)
		}
		return ipc.Response{OK: true, Status: &ipc.Status{
			Version:         version.Info(),
			DryRun:          b.config.DryRun,
			ActiveIncidents: len(incidents),
		}}

	case ipc.ActionMembers:
		members, err := b.workspace.ListMembers(ctx)
		if err != nil {
			return fail(err)
		}
		return ipc.Response{OK: true, Members: members}

	case ipc.ActionReconcile:
		if request.ChannelID == "" {
			return fail(fmt.Errorf("reconcile requires a channel ID"))
		}
		if err := b.reconciler.Reconcile(ctx, request.ChannelID); err != nil {
			return fail(err)
		}
		return ipc.Response{OK: true}

	default:
		return fail(fmt.Errorf("unknown action %q", request.Action))
	}
}
