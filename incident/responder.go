// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package incident

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firewatch-foundation/firewatch/chat"
	"github.com/firewatch-foundation/firewatch/tracker"
)

// Event is a tracker lifecycle notification for one incident.
type Event struct {
	// IncidentID is the tracker's incident ID.
	IncidentID string

	// AgentName is the display name of whoever acted on the incident.
	AgentName string

	// AgentRef is the tracker's user reference URL for the agent.
	AgentRef string
}

// ResponderConfig holds configuration for creating a Responder.
type ResponderConfig struct {
	// Tracker, Chat, Directory and Reconciler are the responder's
	// collaborators. All required.
	Tracker    Tracker
	Chat       Chat
	Directory  Directory
	Reconciler *Reconciler

	// DryRun logs side effects instead of performing them.
	DryRun bool

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Responder reacts to tracker lifecycle events: the incident
// manager's acknowledgement and the incident's resolution.
type Responder struct {
	tracker    Tracker
	chat       Chat
	directory  Directory
	reconciler *Reconciler
	dryRun     bool
	logger     *slog.Logger
}

// NewResponder creates a Responder from the given configuration.
func NewResponder(config ResponderConfig) (*Responder, error) {
	if config.Tracker == nil || config.Chat == nil || config.Directory == nil || config.Reconciler == nil {
		return nil, fmt.Errorf("incident: Tracker, Chat, Directory and Reconciler are required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Responder{
		tracker:    config.Tracker,
		chat:       config.Chat,
		directory:  config.Directory,
		reconciler: config.Reconciler,
		dryRun:     config.DryRun,
		logger:     config.Logger,
	}, nil
}

// HandleAcknowledge tells the incident channel that the incident
// manager is on their way and gives the manager access-group
// membership.
func (r *Responder) HandleAcknowledge(ctx context.Context, event Event) error {
	detail, err := r.tracker.IncidentDetail(ctx, event.IncidentID)
	if err != nil && !tracker.IsNotFound(err) {
		return fmt.Errorf("incident: detail for %s: %w", event.IncidentID, err)
	}

	if detail.ChannelID != "" {
		message := chat.ManagerJoiningSoon(event.AgentName)
		if r.dryRun {
			r.logger.Info("dry run: would announce incident manager", "channel", detail.ChannelID)
		} else if err := r.chat.PostMessage(ctx, detail.ChannelID, message); err != nil {
			r.logger.Error("announcing incident manager", "channel", detail.ChannelID, "error", err)
		}
	}

	if event.AgentRef == "" {
		return nil
	}
	email, err := r.tracker.UserEmail(ctx, event.AgentRef)
	if err != nil {
		return fmt.Errorf("incident: resolving manager email: %w", err)
	}
	if email == "" {
		return nil
	}
	if r.dryRun {
		r.logger.Info("dry run: would add incident manager to access group", "email", email)
		return nil
	}
	if err := r.directory.AddMember(ctx, email, false); err != nil {
		return fmt.Errorf("incident: adding manager %s to access group: %w", email, err)
	}
	r.logger.Info("incident manager added to access group", "incident", event.IncidentID, "email", email)
	return nil
}

// HandleResolve maps the resolved incident to its channel and runs
// membership reconciliation against it. Incidents without a channel
// (not opened through the bot) are ignored.
func (r *Responder) HandleResolve(ctx context.Context, event Event) error {
	detail, err := r.tracker.IncidentDetail(ctx, event.IncidentID)
	if err != nil {
		if tracker.IsNotFound(err) {
			r.logger.Info("resolved incident has no channel, nothing to reconcile", "incident", event.IncidentID)
			return nil
		}
		return fmt.Errorf("incident: detail for %s: %w", event.IncidentID, err)
	}
	if detail.ChannelID == "" {
		r.logger.Info("resolved incident has no channel, nothing to reconcile", "incident", event.IncidentID)
		return nil
	}

	r.logger.Info("incident resolved", "incident", event.IncidentID, "channel", detail.ChannelID)
	return r.reconciler.Reconcile(ctx, detail.ChannelID)
}
