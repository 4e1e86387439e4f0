// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package incident

import (
	"context"
	"time"

	"github.com/firewatch-foundation/firewatch/chat"
	"github.com/firewatch-foundation/firewatch/jira"
	"github.com/firewatch-foundation/firewatch/tracker"
	"github.com/firewatch-foundation/firewatch/workspace"
)

// Chat is the chat-platform surface this package needs. Satisfied by
// *chat.Client and chat.Fake.
type Chat interface {
	ChannelMembers(ctx context.Context, channelID string) ([]string, error)
	UserEmail(ctx context.Context, userID string) (string, error)
	CreateChannel(ctx context.Context, name, topic, creatorUserID string, private bool) (string, error)
	InviteUsers(ctx context.Context, channelID string, userIDs ...string) error
	PostMessage(ctx context.Context, channelID string, message chat.Message) error
	DeepLink(channelID string) string
	DeepLinkURL(channelID string) string
}

// Tracker is the incident-tracker surface this package needs.
// Satisfied by *tracker.Client.
type Tracker interface {
	ListActiveIncidents(ctx context.Context) ([]tracker.Incident, error)
	IncidentDetail(ctx context.Context, incidentID string) (tracker.Detail, error)
	UserEmail(ctx context.Context, userRefURL string) (string, error)
}

// Pager pages an on-call responder about a new incident. Satisfied by
// *tracker.Client and *tracker.Opsgenie; an incident can page through
// several at once.
type Pager interface {
	Page(ctx context.Context, page tracker.PageRequest) error
}

// Directory is the access-group surface this package needs. Satisfied
// by *workspace.Client.
type Directory interface {
	AddMember(ctx context.Context, email string, admin bool) error
	RemoveMember(ctx context.Context, email string) error
	ClearMembers(ctx context.Context) error
}

// Workspace provisions the conference call and notes document.
// Satisfied by *workspace.Client.
type Workspace interface {
	RegisterEvent(ctx context.Context, incidentID, incidentName, reportedBy, channelName string) (workspace.Event, error)
	CreateLogDocument(ctx context.Context, fileName, folder, incidentTitle, reportedBy string) (string, error)
}

// Issues files the follow-up epic. Satisfied by *jira.Client.
type Issues interface {
	CreateFollowupsEpic(ctx context.Context, incidentName, channelName string) (jira.Epic, error)
	RegisterPostMortem(ctx context.Context, incidentName, epicKey, channelID string, when time.Time) error
}

// Incident is one opened incident.
type Incident struct {
	// ID is the timestamp-derived incident identifier,
	// e.g. "20260301120000".
	ID string

	// Name is the human-entered title. Defaults to the channel name
	// when the command carried no text.
	Name string

	// ChannelID and ChannelName identify the incident channel.
	ChannelID   string
	ChannelName string

	// CreatorHandle and CreatorUserID identify who opened it.
	CreatorHandle string
	CreatorUserID string

	// Private marks a security incident (private channel).
	Private bool

	// StartedAt is when the incident was opened.
	StartedAt time.Time
}
