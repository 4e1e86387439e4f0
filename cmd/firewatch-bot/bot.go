// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/firewatch-foundation/firewatch/breakglass"
	"github.com/firewatch-foundation/firewatch/chat"
	"github.com/firewatch-foundation/firewatch/incident"
	"github.com/firewatch-foundation/firewatch/jira"
	"github.com/firewatch-foundation/firewatch/lib/clock"
	"github.com/firewatch-foundation/firewatch/lib/config"
	"github.com/firewatch-foundation/firewatch/lib/httpserver"
	"github.com/firewatch-foundation/firewatch/lib/secret"
	"github.com/firewatch-foundation/firewatch/tracker"
	"github.com/firewatch-foundation/firewatch/workspace"
)

// bot holds the daemon's wired components. The secret buffers stay
// alive (and locked in memory) for the life of the process; Close
// zeros them.
type bot struct {
	config *config.Config
	logger *slog.Logger

	signingSecret *secret.Buffer
	webhookSecret *secret.Buffer
	secrets       []*secret.Buffer

	chat       *chat.Client
	tracker    *tracker.Client
	workspace  *workspace.Client
	authorizer *breakglass.Authorizer
	creator    *incident.Creator
	reconciler *incident.Reconciler
	responder  *incident.Responder

	// background outlives individual HTTP requests; slash commands
	// answer fast and finish their work on this context.
	background context.Context
}

func newBot(cfg *config.Config, logger *slog.Logger) (*bot, error) {
	b := &bot{config: cfg, logger: logger}

	readSecret := func(path, name string) (*secret.Buffer, error) {
		buffer, err := secret.ReadFromPath(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		b.secrets = append(b.secrets, buffer)
		return buffer, nil
	}

	slackToken, err := readSecret(cfg.Slack.TokenFile, "slack token")
	if err != nil {
		return nil, err
	}
	b.signingSecret, err = readSecret(cfg.Slack.SigningSecretFile, "slack signing secret")
	if err != nil {
		return nil, err
	}
	pagerdutyToken, err := readSecret(cfg.PagerDuty.APITokenFile, "pagerduty token")
	if err != nil {
		return nil, err
	}
	workspaceToken, err := readSecret(cfg.Workspace.TokenFile, "workspace token")
	if err != nil {
		return nil, err
	}

	routingKey := ""
	if cfg.PagerDuty.RoutingKeyFile != "" {
		buffer, err := readSecret(cfg.PagerDuty.RoutingKeyFile, "pagerduty routing key")
		if err != nil {
			return nil, err
		}
		routingKey = buffer.String()
	}
	if cfg.PagerDuty.WebhookSecretFile != "" {
		b.webhookSecret, err = readSecret(cfg.PagerDuty.WebhookSecretFile, "pagerduty webhook secret")
		if err != nil {
			return nil, err
		}
	}

	b.chat, err = chat.NewClient(chat.Config{
		Token:  slackToken.String(),
		TeamID: cfg.Slack.TeamID,
		Logger: logger.With("component", "chat"),
	})
	if err != nil {
		return nil, err
	}

	b.tracker, err = tracker.NewClient(tracker.Config{
		APIURL:     cfg.PagerDuty.APIURL,
		EventsURL:  cfg.PagerDuty.EventsURL,
		Token:      pagerdutyToken.String(),
		RoutingKey: routingKey,
		Logger:     logger.With("component", "tracker"),
	})
	if err != nil {
		return nil, err
	}

	b.workspace, err = workspace.NewClient(workspace.Config{
		BaseURL: cfg.Workspace.BaseURL,
		Token:   workspaceToken.String(),
		Logger:  logger.With("component", "workspace"),
	})
	if err != nil {
		return nil, err
	}

	var pagers []incident.Pager
	if routingKey != "" {
		pagers = append(pagers, b.tracker)
	}
	if cfg.Opsgenie.APIKeyFile != "" {
		opsgenieKey, err := readSecret(cfg.Opsgenie.APIKeyFile, "opsgenie key")
		if err != nil {
			return nil, err
		}
		opsgenie, err := tracker.NewOpsgenie(tracker.OpsgenieConfig{
			APIURL:          cfg.Opsgenie.APIURL,
			APIKey:          opsgenieKey.String(),
			ResponderTeamID: cfg.Opsgenie.ResponderTeamID,
			Logger:          logger.With("component", "opsgenie"),
		})
		if err != nil {
			return nil, err
		}
		pagers = append(pagers, opsgenie)
	}

	var issues incident.Issues
	if cfg.Jira.Domain != "" {
		jiraKey, err := readSecret(cfg.Jira.APIKeyFile, "jira key")
		if err != nil {
			return nil, err
		}
		postMortemsKey := ""
		if cfg.Jira.PostMortemsKeyFile != "" {
			buffer, err := readSecret(cfg.Jira.PostMortemsKeyFile, "post-mortems key")
			if err != nil {
				return nil, err
			}
			postMortemsKey = buffer.String()
		}
		jiraClient, err := jira.NewClient(jira.Config{
			Domain:          cfg.Jira.Domain,
			User:            cfg.Jira.User,
			APIKey:          jiraKey.String(),
			ProjectID:       cfg.Jira.ProjectID,
			EpicIssueTypeID: cfg.Jira.EpicIssueTypeID,
			ChannelField:    cfg.Jira.ChannelField,
			PostMortemsURL:  cfg.Jira.PostMortemsURL,
			PostMortemsKey:  postMortemsKey,
			Logger:          logger.With("component", "jira"),
		})
		if err != nil {
			return nil, err
		}
		issues = jiraClient
	}

	b.authorizer, err = breakglass.NewAuthorizer(breakglass.Config{
		Tracker:                b.tracker,
		Chat:                   b.chat,
		Directory:              b.workspace,
		MinJustificationLength: cfg.BreakGlass.MinJustificationLength,
		Window:                 cfg.BreakGlass.Window(),
		DryRun:                 cfg.DryRun,
		Clock:                  clock.Real(),
		Logger:                 logger.With("component", "breakglass"),
	})
	if err != nil {
		return nil, err
	}

	b.creator, err = incident.NewCreator(incident.CreatorConfig{
		Chat:                  b.chat,
		Pagers:                pagers,
		Workspace:             b.workspace,
		Issues:                issues,
		ChannelPrefix:         cfg.Slack.IncidentChannelPrefix,
		SecurityChannelPrefix: cfg.Slack.SecurityIncidentChannelPrefix,
		AnnounceChannels:      cfg.Slack.AnnounceChannels,
		SecurityManagers:      cfg.Slack.SecurityManagers,
		NotesFolder:           cfg.Workspace.NotesFolder,
		DryRun:                cfg.DryRun,
		Clock:                 clock.Real(),
		Logger:                logger.With("component", "creator"),
	})
	if err != nil {
		return nil, err
	}

	b.reconciler, err = incident.NewReconciler(incident.ReconcilerConfig{
		Tracker:   b.tracker,
		Chat:      b.chat,
		Directory: b.workspace,
		DryRun:    cfg.DryRun,
		Logger:    logger.With("component", "reconciler"),
	})
	if err != nil {
		return nil, err
	}

	b.responder, err = incident.NewResponder(incident.ResponderConfig{
		Tracker:    b.tracker,
		Chat:       b.chat,
		Directory:  b.workspace,
		Reconciler: b.reconciler,
		DryRun:     cfg.DryRun,
		Logger:     logger.With("component", "responder"),
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Serve runs the HTTP listener and the admin socket until the context
// is cancelled.
func (b *bot) Serve(ctx context.Context) error {
	b.background = context.WithoutCancel(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /slash/incident", b.handleIncidentCommand(false))
	mux.HandleFunc("POST /slash/incident-private", b.handleIncidentCommand(true))
	mux.HandleFunc("POST /slash/break-glass", b.handleBreakGlassCommand)
	mux.HandleFunc("POST /webhook/pagerduty", b.handlePagerDutyWebhook)

	server := httpserver.New(httpserver.Config{
		Address: b.config.ListenAddress,
		Handler: mux,
		Logger:  b.logger.With("component", "http"),
	})

	adminDone, err := b.serveAdmin(ctx)
	if err != nil {
		return err
	}

	err = server.Serve(ctx)
	<-adminDone
	return err
}

// Close zeros and unlocks every secret buffer.
func (b *bot) Close() {
	for _, buffer := range b.secrets {
		buffer.Close()
	}
}
