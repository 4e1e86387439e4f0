// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Firewatch is the operator CLI for a running firewatch-bot. It
// speaks CBOR over the bot's local admin socket.
//
// Usage:
//
//	firewatch status
//	firewatch members
//	firewatch reconcile <channel-id>
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/firewatch-foundation/firewatch/lib/codec"
	"github.com/firewatch-foundation/firewatch/lib/ipc"
	"github.com/firewatch-foundation/firewatch/lib/process"
	"github.com/firewatch-foundation/firewatch/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		socketPath  string
		timeout     time.Duration
		showVersion bool
	)
	pflag.StringVar(&socketPath, "socket", "/run/firewatch/admin.sock", "path to the firewatch-bot admin socket")
	pflag.DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	pflag.BoolVar(&showVersion, "version", false, "print version and exit")
	pflag.Parse()

	if showVersion {
		fmt.Println(version.Full())
		return nil
	}

	args := pflag.Args()
	if len(args) == 0 {
		return fmt.Errorf("usage: firewatch [--socket PATH] status|members|reconcile <channel-id>")
	}

	request := ipc.Request{}
	switch args[0] {
	case "status":
		request.Action = ipc.ActionStatus
	case "members":
		request.Action = ipc.ActionMembers
	case "reconcile":
		if len(args) != 2 {
			return fmt.Errorf("usage: firewatch reconcile <channel-id>")
		}
		request.Action = ipc.ActionReconcile
		request.ChannelID = args[1]
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}

	response, err := send(socketPath, timeout, request)
	if err != nil {
		return err
	}
	if !response.OK {
		return fmt.Errorf("%s: %s", args[0], response.Error)
	}
	return print(os.Stdout, request, response)
}

// send performs one request/response exchange on the admin socket.
func send(socketPath string, timeout time.Duration, request ipc.Request) (ipc.Response, error) {
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return ipc.Response{}, fmt.Errorf("dialing %s (is firewatch-bot running?): %w", socketPath, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(timeout))

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return ipc.Response{}, fmt.Errorf("sending request: %w", err)
	}
	var response ipc.Response
	if err := codec.NewDecoder(conn).Decode(&response); err != nil {
		return ipc.Response{}, fmt.Errorf("reading response: %w", err)
	}
	return response, nil
}

func print(out *os.File, request ipc.Request, response ipc.Response) error {
	switch request.Action {
	case ipc.ActionStatus:
		status := response.Status
		if status == nil {
			return fmt.Errorf("status response carried no status")
		}
		fmt.Fprintf(out, "version:          %s\n", status.Version)
		fmt.Fprintf(out, "dry run:          %v\n", status.DryRun)
		fmt.Fprintf(out, "active incidents: %d\n", status.ActiveIncidents)
	case ipc.ActionMembers:
		if len(response.Members) == 0 {
			fmt.Fprintln(out, "no members")
			return nil
		}
		for _, member := range response.Members {
			fmt.Fprintln(out, member)
		}
	case ipc.ActionReconcile:
		fmt.Fprintln(out, "reconciled")
	}
	return nil
}
