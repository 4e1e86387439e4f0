// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Firewatch-bot is the incident-response daemon. It serves the Slack
// slash commands that open incidents and grant break-glass access,
// consumes PagerDuty lifecycle webhooks to announce the incident
// manager and revoke access after resolution, and exposes a local
// admin socket for the firewatch CLI.
//
// Configuration comes from a single YAML file (--config or
// $FIREWATCH_CONFIG); credentials live in separate files the config
// points at and are held in locked memory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/firewatch-foundation/firewatch/lib/config"
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
		configPath  string
		showVersion bool
	)
	pflag.StringVar(&configPath, "config", "", "path to the config file (or set $"+config.EnvVar+")")
	pflag.BoolVar(&showVersion, "version", false, "print version and exit")
	pflag.Parse()

	if showVersion {
		fmt.Println(version.Full())
		return nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := newBot(cfg, logger)
	if err != nil {
		return err
	}
	defer bot.Close()

	logger.Info("firewatch-bot starting",
		"version", version.Info(),
		"listen", cfg.ListenAddress,
		"admin_socket", cfg.AdminSocket,
		"dry_run", cfg.DryRun)
	return bot.Serve(ctx)
}
