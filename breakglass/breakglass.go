// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package breakglass

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/firewatch-foundation/firewatch/chat"
	"github.com/firewatch-foundation/firewatch/lib/clock"
	"github.com/firewatch-foundation/firewatch/tracker"
)

// Denial names a failed precondition.
type Denial string

const (
	// DenialShortJustification: the justification text is below the
	// configured minimum length.
	DenialShortJustification Denial = "short-justification"

	// DenialNoActiveIncident: no incident is currently active.
	DenialNoActiveIncident Denial = "no-active-incident"

	// DenialNotBotChannel: the command was issued in a channel the
	// bot did not create.
	DenialNotBotChannel Denial = "not-bot-channel"

	// DenialWindowExpired: the channel's incident is older than the
	// break-glass window, or no active incident maps to the channel.
	DenialWindowExpired Denial = "window-expired"
)

// Request is one break-glass attempt.
type Request struct {
	// ChannelID is the channel the command was issued in.
	ChannelID string

	// UserID is the requester's user ID.
	UserID string

	// UserName is the requester's display handle.
	UserName string

	// Justification is the free-text reason given with the command.
	Justification string
}

// Tracker is the incident-tracker surface the authorizer needs.
// Satisfied by *tracker.Client.
type Tracker interface {
	ListActiveIncidents(ctx context.Context) ([]tracker.Incident, error)
	ActiveIncidentForChannel(ctx context.Context, channelID string) (tracker.Incident, error)
}

// Chat is the chat-platform surface the authorizer needs. Satisfied
// by *chat.Client and chat.Fake.
type Chat interface {
	SelfUserID(ctx context.Context) (string, error)
	ChannelCreator(ctx context.Context, channelID string) (string, error)
	UserEmail(ctx context.Context, userID string) (string, error)
	PostMessage(ctx context.Context, channelID string, message chat.Message) error
}

// Directory is the access-group surface the authorizer needs.
// Satisfied by *workspace.Client.
type Directory interface {
	AddMember(ctx context.Context, email string, admin bool) error
}

// Config holds configuration for creating an Authorizer.
type Config struct {
	// Tracker, Chat and Directory are the authorizer's collaborators.
	// All required.
	Tracker   Tracker
	Chat      Chat
	Directory Directory

	// MinJustificationLength is the minimum justification length.
	// Defaults to 10.
	MinJustificationLength int

	// Window is how long after an incident starts that break-glass
	// still works. Defaults to 30 minutes.
	Window time.Duration

	// DryRun logs side effects instead of performing them.
	DryRun bool

	// Clock is the time source. Defaults to the real clock.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Authorizer decides break-glass requests and performs the grant.
type Authorizer struct {
	tracker   Tracker
	chat      Chat
	directory Directory
	notifier  *Notifier

	minJustification int
	window           time.Duration
	dryRun           bool
	clock            clock.Clock
	logger           *slog.Logger
}

// NewAuthorizer creates an Authorizer from the given configuration.
func NewAuthorizer(config Config) (*Authorizer, error) {
	if config.Tracker == nil || config.Chat == nil || config.Directory == nil {
		return nil, fmt.Errorf("breakglass: Tracker, Chat and Directory are required")
	}
	if config.MinJustificationLength == 0 {
		config.MinJustificationLength = 10
	}
	if config.Window == 0 {
		config.Window = 30 * time.Minute
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Authorizer{
		tracker:   config.Tracker,
		chat:      config.Chat,
		directory: config.Directory,
		notifier: &Notifier{
			Chat:   config.Chat,
			DryRun: config.DryRun,
			Logger: config.Logger,
		},
		minJustification: config.MinJustificationLength,
		window:           config.Window,
		dryRun:           config.DryRun,
		clock:            config.Clock,
		logger:           config.Logger,
	}, nil
}

// Evaluate checks all four preconditions and returns every denial
// that applies, in precondition order. An empty slice means the
// request may be granted. Evaluate never mutates anything.
func (a *Authorizer) Evaluate(ctx context.Context, request Request) []Denial {
	var denials []Denial

	if len(request.Justification) < a.minJustification {
		denials = append(denials, DenialShortJustification)
	}

	if a.denyNoActiveIncident(ctx) {
		denials = append(denials, DenialNoActiveIncident)
	}

	if a.denyNotBotChannel(ctx, request.ChannelID) {
		denials = append(denials, DenialNotBotChannel)
	}

	if a.denyWindowExpired(ctx, request.ChannelID) {
		denials = append(denials, DenialWindowExpired)
	}

	return denials
}

func (a *Authorizer) denyNoActiveIncident(ctx context.Context) bool {
	incidents, err := a.tracker.ListActiveIncidents(ctx)
	if err != nil {
		a.logger.Error("listing active incidents, denying", "error", err)
		return true
	}
	return len(incidents) == 0
}

func (a *Authorizer) denyNotBotChannel(ctx context.Context, channelID string) bool {
	selfID, err := a.chat.SelfUserID(ctx)
	if err != nil {
		a.logger.Error("resolving own user ID, denying", "error", err)
		return true
	}
	creator, err := a.chat.ChannelCreator(ctx, channelID)
	if err != nil {
		a.logger.Error("resolving channel creator, denying", "channel", channelID, "error", err)
		return true
	}
	return creator != selfID
}

func (a *Authorizer) denyWindowExpired(ctx context.Context, channelID string) bool {
	incident, err := a.tracker.ActiveIncidentForChannel(ctx, channelID)
	if err != nil {
		if !tracker.IsNotFound(err) {
			a.logger.Error("resolving channel incident, denying", "channel", channelID, "error", err)
		}
		return true
	}
	// An incident exactly as old as the window still passes.
	return a.clock.Now().Sub(incident.CreatedAt) > a.window
}

// Authorize evaluates the request and either notifies the requester
// of every denial or performs the grant: confirm to the requester,
// announce to the incident channel, then add the requester's email to
// the access group. Failures after the announcement are logged but
// the grant is not rolled back.
func (a *Authorizer) Authorize(ctx context.Context, request Request) error {
	denials := a.Evaluate(ctx, request)
	if len(denials) > 0 {
		a.logger.Info("break-glass denied",
			"user", request.UserID,
			"channel", request.ChannelID,
			"denials", denials)
		a.notifier.Notify(ctx, request, denials)
		return nil
	}

	a.logger.Info("break-glass granted",
		"user", request.UserID,
		"channel", request.ChannelID)

	confirmation := chat.Notice(":fire_engine:", "#008000",
		"Glass broken. You are being added to the incident access group.")
	if err := a.post(ctx, request.UserID, confirmation); err != nil {
		return fmt.Errorf("breakglass: confirming to requester: %w", err)
	}

	announcement := chat.BreakGlassAnnouncement(request.UserName, request.Justification)
	if err := a.post(ctx, request.ChannelID, announcement); err != nil {
		return fmt.Errorf("breakglass: announcing to channel: %w", err)
	}

	email, err := a.chat.UserEmail(ctx, request.UserID)
	if err != nil {
		a.logger.Error("resolving requester email after announcement", "user", request.UserID, "error", err)
		return nil
	}
	if email == "" {
		a.logger.Error("requester profile has no email", "user", request.UserID)
		return nil
	}
	if a.dryRun {
		a.logger.Info("dry run: would add access-group member", "email", email)
		return nil
	}
	if err := a.directory.AddMember(ctx, email, false); err != nil {
		a.logger.Error("adding access-group member after announcement", "email", email, "error", err)
	}
	return nil
}

func (a *Authorizer) post(ctx context.Context, channelID string, message chat.Message) error {
	if a.dryRun {
		a.logger.Info("dry run: would post message", "channel", channelID, "message", message.Attachments)
		return nil
	}
	return a.chat.PostMessage(ctx, channelID, message)
}
