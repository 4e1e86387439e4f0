// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/firewatch-foundation/firewatch/lib/codec"
	"github.com/firewatch-foundation/firewatch/lib/ipc"
)

// fakeAdminSocket answers one connection with the given response and
// records the request it received.
func fakeAdminSocket(t *testing.T, response ipc.Response) (string, <-chan ipc.Request) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "admin.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	received := make(chan ipc.Request, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var request ipc.Request
		if err := codec.NewDecoder(conn).Decode(&request); err != nil {
			t.Errorf("decoding request: %v", err)
			return
		}
		received <- request
		if err := codec.NewEncoder(conn).Encode(response); err != nil {
			t.Errorf("encoding response: %v", err)
		}
	}()
	return socketPath, received
}

func TestSend(t *testing.T) {
	want := ipc.Response{OK: true, Members: []string{"a@example.com", "b@example.com"}}
	socketPath, received := fakeAdminSocket(t, want)

	response, err := send(socketPath, 5*time.Second, ipc.Request{Action: ipc.ActionMembers})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !response.OK || len(response.Members) != 2 {
		t.Errorf("response = %+v", response)
	}

	request := <-received
	if request.Action != ipc.ActionMembers {
		t.Errorf("request action = %q", request.Action)
	}
}

func TestSendReconcileCarriesChannel(t *testing.T) {
	socketPath, received := fakeAdminSocket(t, ipc.Response{OK: true})

	if _, err := send(socketPath, 5*time.Second, ipc.Request{
		Action:    ipc.ActionReconcile,
		ChannelID: "C1",
	}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if request := <-received; request.ChannelID != "C1" {
		t.Errorf("channel = %q, want C1", request.ChannelID)
	}
}

func TestSendWithoutDaemon(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "missing.sock")
	if _, err := send(socketPath, time.Second, ipc.Request{Action: ipc.ActionStatus}); err == nil {
		t.Fatal("expected dial error for a missing socket")
	}
}
