// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package incident

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firewatch-foundation/firewatch/chat"
	"github.com/firewatch-foundation/firewatch/lib/clock"
	"github.com/firewatch-foundation/firewatch/tracker"
	"github.com/firewatch-foundation/firewatch/workspace"
)

// CreatorConfig holds configuration for creating a Creator.
type CreatorConfig struct {
	// Chat is required.
	Chat Chat

	// Pagers are paged, in order, when an incident opens. Optional.
	Pagers []Pager

	// Workspace provisions the conference call and notes document.
	// Optional; nil skips both.
	Workspace Workspace

	// Issues files the follow-up epic. Optional; nil skips it.
	Issues Issues

	// ChannelPrefix and SecurityChannelPrefix name incident channels,
	// e.g. "incident-" + "20260301120000". Both required.
	ChannelPrefix         string
	SecurityChannelPrefix string

	// AnnounceChannels are broadcast the initial announcement for
	// public incidents.
	AnnounceChannels []string

	// SecurityManagers are invited to private incident channels.
	SecurityManagers []string

	// NotesFolder is the workspace folder for notes documents.
	NotesFolder string

	// DryRun logs side effects instead of performing them.
	DryRun bool

	// Clock is the time source. Defaults to the real clock.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Creator opens incidents: the channel and page synchronously, the
// rest of the resources via Provision.
type Creator struct {
	config CreatorConfig
	clock  clock.Clock
	logger *slog.Logger
}

// NewCreator creates a Creator from the given configuration.
func NewCreator(config CreatorConfig) (*Creator, error) {
	if config.Chat == nil {
		return nil, fmt.Errorf("incident: Chat is required")
	}
	if config.ChannelPrefix == "" || config.SecurityChannelPrefix == "" {
		return nil, fmt.Errorf("incident: ChannelPrefix and SecurityChannelPrefix are required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Creator{config: config, clock: config.Clock, logger: config.Logger}, nil
}

// Create opens the incident channel and pages the on-call incident
// manager. It returns as soon as the requester has somewhere to go;
// the remaining resources are provisioned by Provision, typically in
// the background.
func (creator *Creator) Create(ctx context.Context, name, creatorHandle, creatorUserID string, private bool) (Incident, error) {
	startedAt := creator.clock.Now().UTC()
	id := startedAt.Format("20060102150405")

	prefix := creator.config.ChannelPrefix
	if private {
		prefix = creator.config.SecurityChannelPrefix
	}
	channelName := prefix + id
	if name == "" {
		name = channelName
	}

	incident := Incident{
		ID:            id,
		Name:          name,
		ChannelName:   channelName,
		CreatorHandle: creatorHandle,
		CreatorUserID: creatorUserID,
		Private:       private,
		StartedAt:     startedAt,
	}

	if creator.config.DryRun {
		creator.logger.Info("dry run: would create incident channel", "channel", channelName, "name", name)
		incident.ChannelID = "dry-run"
		return incident, nil
	}

	topic := name + ". Please join conference call. See pinned message for details."
	channelID, err := creator.config.Chat.CreateChannel(ctx, channelName, topic, creatorUserID, private)
	if err != nil {
		return Incident{}, fmt.Errorf("incident: creating channel %s: %w", channelName, err)
	}
	incident.ChannelID = channelID

	page := tracker.PageRequest{
		IncidentName:  name,
		ChannelID:     channelID,
		CreatorHandle: creatorHandle,
		DeepLinkURL:   creator.config.Chat.DeepLinkURL(channelID),
		DeepLink:      creator.config.Chat.DeepLink(channelID),
	}
	for _, pager := range creator.config.Pagers {
		if err := pager.Page(ctx, page); err != nil {
			creator.logger.Error("paging on-call", "incident", id, "error", err)
		}
	}

	creator.logger.Info("incident opened",
		"incident", id,
		"channel", channelID,
		"creator", creatorHandle,
		"private", private)
	return incident, nil
}

// Provision creates the incident's supporting resources: conference
// call, notes document, follow-up epic, and the announcements. Each
// resource is independent; a failure is logged and the rest still
// provision.
func (creator *Creator) Provision(ctx context.Context, incident Incident) {
	if creator.config.DryRun {
		creator.logger.Info("dry run: would provision incident resources", "incident", incident.ID)
		return
	}

	creator.provisionWorkspace(ctx, incident)
	creator.provisionEpic(ctx, incident)
	creator.announce(ctx, incident)

	if incident.Private && len(creator.config.SecurityManagers) > 0 {
		if err := creator.config.Chat.InviteUsers(ctx, incident.ChannelID, creator.config.SecurityManagers...); err != nil {
			creator.logger.Error("inviting security managers", "incident", incident.ID, "error", err)
		}
	}
}

func (creator *Creator) provisionWorkspace(ctx context.Context, incident Incident) {
	if creator.config.Workspace == nil {
		return
	}

	event, err := creator.config.Workspace.RegisterEvent(ctx, incident.ID, incident.Name, incident.CreatorHandle, incident.ChannelName)
	if err != nil {
		creator.logger.Error("registering conference event", "incident", incident.ID, "error", err)
	} else {
		message := chat.ConferenceCallDetails(conferenceCall(event))
		if err := creator.config.Chat.PostMessage(ctx, incident.ChannelID, message); err != nil {
			creator.logger.Error("posting conference details", "incident", incident.ID, "error", err)
		}
	}

	documentURL, err := creator.config.Workspace.CreateLogDocument(ctx, incident.ChannelName, creator.config.NotesFolder, incident.Name, incident.CreatorHandle)
	if err != nil {
		creator.logger.Error("creating notes document", "incident", incident.ID, "error", err)
		return
	}
	if err := creator.config.Chat.PostMessage(ctx, incident.ChannelID, chat.NotesDocument(documentURL)); err != nil {
		creator.logger.Error("posting notes document", "incident", incident.ID, "error", err)
	}
}

func (creator *Creator) provisionEpic(ctx context.Context, incident Incident) {
	if creator.config.Issues == nil {
		return
	}

	epic, err := creator.config.Issues.CreateFollowupsEpic(ctx, incident.Name, incident.ChannelName)
	if err != nil {
		creator.logger.Error("creating follow-up epic", "incident", incident.ID, "error", err)
		return
	}
	if err := creator.config.Chat.PostMessage(ctx, incident.ChannelID, chat.FollowupsEpic(epic.URL)); err != nil {
		creator.logger.Error("posting epic link", "incident", incident.ID, "error", err)
	}
	if err := creator.config.Issues.RegisterPostMortem(ctx, incident.Name, epic.Key, incident.ChannelID, incident.StartedAt); err != nil {
		creator.logger.Error("registering post-mortem", "incident", incident.ID, "error", err)
	}
}

func (creator *Creator) announce(ctx context.Context, incident Incident) {
	announcement := chat.InitialAnnouncement(
		incident.Name,
		incident.CreatorHandle,
		incident.ChannelName,
		creator.config.Chat.DeepLink(incident.ChannelID),
	)

	// Security incidents stay off the broadcast channels.
	if !incident.Private {
		for _, channel := range creator.config.AnnounceChannels {
			if err := creator.config.Chat.PostMessage(ctx, channel, announcement); err != nil {
				creator.logger.Error("broadcasting announcement", "incident", incident.ID, "channel", channel, "error", err)
			}
		}
	}

	// The in-channel copy has no use for a join button.
	if err := creator.config.Chat.PostMessage(ctx, incident.ChannelID, announcement.WithoutActions()); err != nil {
		creator.logger.Error("posting in-channel announcement", "incident", incident.ID, "error", err)
	}
}

func conferenceCall(event workspace.Event) chat.ConferenceCall {
	video := event.EntryPoint(workspace.EntryPointVideo)
	phone := event.EntryPoint(workspace.EntryPointPhone)
	more := event.EntryPoint(workspace.EntryPointMore)
	return chat.ConferenceCall{
		VideoURI:   video.URI,
		VideoLabel: video.Label,
		PhoneURI:   phone.URI,
		PhoneLabel: phone.Label,
		PIN:        phone.PIN,
		RegionCode: phone.RegionCode,
		MoreURI:    more.URI,
	}
}
